package primary

import (
	"context"

	"gitlab.com/gradeworks/internal/domain"
)

// TokenService verifies the bearer tokens the surrounding web
// application issues and extracts the identity the approach record
// needs. Issuing tokens, login flows and role management all live in
// the auth service, not here.
type TokenService interface {
	VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error)
	DecodeTokenPayload(ctx context.Context, token string) (domain.AuthPayload, error)
}
