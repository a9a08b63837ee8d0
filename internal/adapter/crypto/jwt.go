package crypto

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/gradeworks/internal/config"
	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/static/errs"
)

var _ primary.TokenService = (*TokenServiceImpl)(nil)

// TokenServiceImpl verifies HMAC-signed tokens issued by the
// surrounding web application. It never issues tokens itself.
type TokenServiceImpl struct {
	HMACSecretKey string
}

func NewTokenService(jwtConfig *config.JwtConfig) primary.TokenService {
	return &TokenServiceImpl{
		HMACSecretKey: jwtConfig.Secret,
	}
}

func (s TokenServiceImpl) VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error) {
	signingMethod := jwt.GetSigningMethod(method)
	if signingMethod == nil {
		return false, fmt.Errorf("unsupported signing method: %s", method)
	}

	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.HMACSecretKey), nil
	})
	if err != nil {
		return false, err
	}

	return parsedToken.Valid, nil
}

func (s TokenServiceImpl) DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.HMACSecretKey), nil
	})
	if err != nil {
		return domain.AuthPayload{}, fmt.Errorf("failed to parse token: %w", errs.ErrUnauthorized)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return domain.AuthPayload{}, errs.ErrUnauthorized
	}

	payload := domain.AuthPayload{}
	if sub, ok := claims["sub"].(string); ok {
		payload.UserID = sub
	}
	if username, ok := claims["username"].(string); ok {
		payload.Username = username
	}
	if payload.UserID == "" {
		return domain.AuthPayload{}, errs.ErrUnauthorized
	}

	return payload, nil
}
