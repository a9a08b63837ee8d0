package secondary

import (
	"context"

	"gitlab.com/gradeworks/internal/domain"
)

// SandboxRunner invokes the external sandboxed execution service. One
// call runs the whole assembled program, covering every test case of a
// submission in a single sandbox round trip.
type SandboxRunner interface {
	// Execute sends the assembled source to the sandbox and returns the
	// raw process result
	Execute(ctx context.Context, language string, code string) (*domain.ExecutionResult, error)
}
