package assembler

import (
	"gitlab.com/gradeworks/internal/domain"
)

// Template is the per-language code generation strategy. It is the
// narrow seam isolating the type-coercion surface: a wrong literal
// rendering silently produces a wrong answer rather than a compile
// error, so each implementation is tested on its own.
type Template interface {
	// Language returns the identifier the sandbox knows this language by
	Language() string

	// LiteralFor renders a JSON value as a native literal of the target
	// language
	LiteralFor(value domain.Value) (string, error)

	// RenderHarness produces the full program: the user code followed by
	// one timed invocation plus delimited record per test case, in order
	RenderHarness(functionName, userCode string, testCases domain.TestCaseSet) (string, error)
}
