package secondary

import "context"

// RunTokenRepository hands out monotonically increasing run tokens per
// (user, question) and reports whether a token is still the latest.
// A run whose token has been superseded by a newer request discards its
// outcome instead of persisting a stale verdict.
type RunTokenRepository interface {
	// NextToken issues a new token, superseding all earlier ones
	NextToken(ctx context.Context, userID, questionID string) (int64, error)

	// IsLatest reports whether token is still the most recent issue
	IsLatest(ctx context.Context, userID, questionID string, token int64) (bool, error)
}
