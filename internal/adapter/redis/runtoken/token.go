// package runtoken contains the Redis implementation of the stale-run
// guard
package runtoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/core/ports/secondary"
)

const (
	tokenKeyPrefix  = "judge:runtoken:"
	tokenExpiration = 24 * time.Hour
)

var _ secondary.RunTokenRepository = (*TokenRepository)(nil)

// TokenRepository implements the RunTokenRepository interface with
// Redis. INCR gives the monotonic counter; the latest-wins check at
// resolution time is a plain read-and-compare.
type TokenRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewTokenRepository creates a new Redis run token repository
func NewTokenRepository(redisClient *redis.Client, logger primary.Logger) *TokenRepository {
	return &TokenRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// NextToken issues a new token for (user, question), superseding all
// earlier ones
func (r *TokenRepository) NextToken(ctx context.Context, userID, questionID string) (int64, error) {
	key := tokenKey(userID, questionID)

	token, err := r.redisClient.Incr(ctx, key).Result()
	if err != nil {
		r.logger.Error("Failed to issue run token", "key", key, "error", err)
		return 0, fmt.Errorf("failed to issue run token: %w", err)
	}

	if err := r.redisClient.Expire(ctx, key, tokenExpiration).Err(); err != nil {
		r.logger.Warn("Failed to set run token expiration", "key", key, "error", err)
	}

	return token, nil
}

// IsLatest reports whether token is still the most recent issue for
// (user, question)
func (r *TokenRepository) IsLatest(ctx context.Context, userID, questionID string, token int64) (bool, error) {
	key := tokenKey(userID, questionID)

	current, err := r.redisClient.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Counter expired mid-run; nothing newer can be confirmed, so
			// treat the run as superseded rather than risk a stale verdict
			r.logger.Debug("Run token expired before resolution", "key", key)
			return false, nil
		}
		r.logger.Error("Failed to read run token", "key", key, "error", err)
		return false, fmt.Errorf("failed to read run token: %w", err)
	}

	return current == token, nil
}

func tokenKey(userID, questionID string) string {
	return fmt.Sprintf("%s%s:%s", tokenKeyPrefix, userID, questionID)
}
