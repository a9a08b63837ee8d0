package secondary

import (
	"context"

	"gitlab.com/gradeworks/internal/domain"
)

// TestCaseRepository reads the test cases authored for a question.
// Authoring happens elsewhere; the pipeline only ever reads.
type TestCaseRepository interface {
	// GetTestCases returns every test case of a question in authored order
	GetTestCases(ctx context.Context, questionID string) (domain.TestCaseSet, error)
}
