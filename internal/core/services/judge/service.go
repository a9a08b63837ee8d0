package judge

import (
	"context"

	"gitlab.com/gradeworks/internal/domain"
)

// RunOutcome is what a visible "Run" returns to the user: every graded
// sample case plus the verdict. CompileOutput is set instead of results
// when the assembled program failed to build.
type RunOutcome struct {
	Results       []domain.TestCaseResult
	Verdict       domain.Verdict
	CompileOutput string
}

// IJudgeService defines the single logical grading operation with its
// two modes. Run grades the visible sample cases and exposes every
// result; Submit grades the full hidden suite, records an approach and
// exposes at most the first failing case.
type IJudgeService interface {
	// Run grades a submission against the question's sample test cases
	Run(ctx context.Context, sub *domain.Submission) (*RunOutcome, error)

	// Submit grades a submission against the full hidden suite and
	// persists the resulting approach record
	Submit(ctx context.Context, sub *domain.Submission) (*domain.ApproachPayload, error)

	// GetApproaches lists a user's recorded approaches for a question
	GetApproaches(ctx context.Context, userID, questionID string) ([]*domain.ApproachPayload, error)
}
