package secondary

import (
	"context"

	"gitlab.com/gradeworks/internal/domain"
)

// ApproachRepository persists submission attempts and their outcomes
type ApproachRepository interface {
	// SaveApproach appends one approach record
	SaveApproach(ctx context.Context, payload *domain.ApproachPayload) error

	// GetApproaches lists a user's approaches for a question, newest first
	GetApproaches(ctx context.Context, userID, questionID string) ([]*domain.ApproachPayload, error)
}
