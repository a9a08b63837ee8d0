package domain

// ExecutionResult represents the raw response from the sandbox for one
// program run. When TimedOut is set stdout may be partial or empty and
// any test case without a fully reported block counts as timed out.
type ExecutionResult struct {
	Stdout        string
	Stderr        string
	ExitCode      int
	TimedOut      bool
	CompileOutput string
	WallTimeMs    int64
	MemoryBytes   int64
}

// Stdout delimiter protocol shared by the assembler templates and the
// result comparator. One block per test case, in batch order:
//
//	TC_START:<index>
//	OUTPUT:<serialized-value>
//	TIME:<elapsed-ms>
//	TC_END:<index>
//
// <index> is the zero-based position within the submitted batch. Text
// outside well-formed blocks (user debug prints) is ignored.
const (
	MarkerStart  = "TC_START:"
	MarkerOutput = "OUTPUT:"
	MarkerTime   = "TIME:"
	MarkerEnd    = "TC_END:"
)
