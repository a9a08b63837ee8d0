package domain

// TestCaseStatus is the per-test-case classification after comparison
type TestCaseStatus string

const (
	TestCasePassed   TestCaseStatus = "PASSED"
	TestCaseFailed   TestCaseStatus = "FAILED"
	TestCaseTimedOut TestCaseStatus = "TIMED_OUT"
)

// Verdict is the overall grading outcome for a submission
type Verdict string

const (
	VerdictAccepted          Verdict = "ACCEPTED"
	VerdictWrongAnswer       Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded Verdict = "TIME_LIMIT_EXCEEDED"
)

// TestCaseResult represents the graded outcome of a single test case
type TestCaseResult struct {
	TestCase        TestCase
	ActualOutputRaw string
	ActualTimeMs    int64
	Status          TestCaseStatus
}

// ReduceVerdict folds per-test-case statuses into the overall verdict.
// A single timed-out case dominates any wrong answer elsewhere: a
// partial or truncated run cannot be trusted to report correctness on
// later cases.
func ReduceVerdict(results []TestCaseResult) Verdict {
	anyFailed := false
	for _, res := range results {
		switch res.Status {
		case TestCaseTimedOut:
			return VerdictTimeLimitExceeded
		case TestCaseFailed:
			anyFailed = true
		}
	}
	if anyFailed {
		return VerdictWrongAnswer
	}
	return VerdictAccepted
}
