package domain

// AssembledProgram is the generated source handed to the sandbox: one
// self-contained file that invokes the user function once per test case
// and prints a delimited record for each. Immutable once built, never
// persisted.
type AssembledProgram struct {
	Language    string
	Code        string
	TestCaseIDs []int64
}
