package errs

import (
	"errors"
	"fmt"
)

// Assembly errors surface before any network call is made.
var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnserializableInput = errors.New("test case input cannot be serialized for the target language")
	ErrNoTestCases         = errors.New("question has no test cases")
	ErrRunSuperseded       = errors.New("run superseded by a newer request")
	ErrSandboxUnavailable  = errors.New("sandbox service unavailable")
	ErrSandboxTimeout      = errors.New("sandbox request timed out")
	ErrSandboxBadResponse  = errors.New("sandbox returned an unexpected response")
	ErrUnauthorized        = errors.New("unauthorized")
)

// CompileError reports that the sandbox ran but the assembled program
// failed to build. Diagnostics carries the compiler stderr verbatim;
// no per-test-case results exist because output cannot be associated
// with any test case.
type CompileError struct {
	Diagnostics string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile error: %s", e.Diagnostics)
}

// AsCompileError unwraps err into a CompileError if it is one
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsInfrastructure reports whether err is a sandbox infrastructure
// failure rather than a grading outcome. Infrastructure failures must
// never be shown to a user as a wrong answer.
func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrSandboxUnavailable) ||
		errors.Is(err, ErrSandboxTimeout) ||
		errors.Is(err, ErrSandboxBadResponse)
}
