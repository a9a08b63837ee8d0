package comparator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gradeworks/internal/core/services/comparator"
	"gitlab.com/gradeworks/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func mustValue(t *testing.T, text string) domain.Value {
	t.Helper()
	val, err := domain.ParseValue(text)
	require.NoError(t, err)
	return val
}

func testCase(t *testing.T, id int64, expected string, limitMs int64) domain.TestCase {
	t.Helper()
	return domain.TestCase{
		ID:                  id,
		ExpectedOutput:      mustValue(t, expected),
		ExpectedTimeLimitMs: limitMs,
	}
}

func compare(t *testing.T, stdout string, timedOut bool, cases ...domain.TestCase) ([]domain.TestCaseResult, domain.Verdict) {
	t.Helper()
	svc := comparator.NewComparatorService(nopLogger{})
	return svc.Compare(&domain.ExecutionResult{Stdout: stdout, TimedOut: timedOut}, cases)
}

func TestPassedSingleCase(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:[-1, 0, 1]\nTIME:12\nTC_END:0\n"
	results, verdict := compare(t, stdout, false, testCase(t, 7, "[-1,0,1]", 1000))

	require.Len(t, results, 1)
	require.Equal(t, domain.TestCasePassed, results[0].Status)
	require.EqualValues(t, 12, results[0].ActualTimeMs)
	require.Equal(t, domain.VerdictAccepted, verdict)
}

func TestMismatchedOutputFails(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:[1, 0, -1]\nTIME:12\nTC_END:0\n"
	results, verdict := compare(t, stdout, false, testCase(t, 7, "[-1,0,1]", 1000))

	require.Equal(t, domain.TestCaseFailed, results[0].Status)
	require.Equal(t, domain.VerdictWrongAnswer, verdict)
}

func TestEmptyStdoutAfterProcessTimeout(t *testing.T) {
	results, verdict := compare(t, "", true,
		testCase(t, 1, "1", 1000),
		testCase(t, 2, "2", 1000),
	)

	require.Len(t, results, 2)
	for _, res := range results {
		require.Equal(t, domain.TestCaseTimedOut, res.Status)
	}
	require.Equal(t, domain.VerdictTimeLimitExceeded, verdict)
}

func TestTruncatedBlockTimesOutWithoutBreakingEarlierCases(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:1\nTIME:3\nTC_END:0\nTC_START:1\nOUTPUT:2\n"
	results, verdict := compare(t, stdout, true,
		testCase(t, 1, "1", 1000),
		testCase(t, 2, "2", 1000),
		testCase(t, 3, "3", 1000),
	)

	require.Equal(t, domain.TestCasePassed, results[0].Status)
	require.Equal(t, domain.TestCaseTimedOut, results[1].Status)
	require.Equal(t, domain.TestCaseTimedOut, results[2].Status)
	require.Equal(t, domain.VerdictTimeLimitExceeded, verdict)
}

func TestTimeoutDominatesWrongAnswer(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:99\nTIME:3\nTC_END:0\n"
	_, verdict := compare(t, stdout, false,
		testCase(t, 1, "1", 1000), // wrong answer
		testCase(t, 2, "2", 1000), // never reported
	)

	require.Equal(t, domain.VerdictTimeLimitExceeded, verdict)
}

func TestCaseOverItsTimeLimitTimesOut(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:1\nTIME:250\nTC_END:0\n"
	results, verdict := compare(t, stdout, false, testCase(t, 1, "1", 100))

	require.Equal(t, domain.TestCaseTimedOut, results[0].Status)
	require.Equal(t, domain.VerdictTimeLimitExceeded, verdict)
}

func TestUserDebugPrintsAreIgnored(t *testing.T) {
	stdout := "checking input\nTC_START:0\ndebug: loop 3 times\nOUTPUT:[1,2]\nTIME:5\nTC_END:0\ntrailing noise\n"
	results, verdict := compare(t, stdout, false, testCase(t, 1, "[1,2]", 1000))

	require.Equal(t, domain.TestCasePassed, results[0].Status)
	require.Equal(t, domain.VerdictAccepted, verdict)
}

func TestOutOfOrderBlocksAreResorted(t *testing.T) {
	stdout := "TC_START:1\nOUTPUT:2\nTIME:4\nTC_END:1\nTC_START:0\nOUTPUT:1\nTIME:2\nTC_END:0\n"
	results, verdict := compare(t, stdout, false,
		testCase(t, 10, "1", 1000),
		testCase(t, 20, "2", 1000),
	)

	// Results come back in batch order regardless of stdout order
	require.EqualValues(t, 10, results[0].TestCase.ID)
	require.EqualValues(t, 2, results[0].ActualTimeMs)
	require.EqualValues(t, 20, results[1].TestCase.ID)
	require.EqualValues(t, 4, results[1].ActualTimeMs)
	require.Equal(t, domain.VerdictAccepted, verdict)
}

func TestUnparseableOutputFailsWithoutAborting(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:[1, 2\nTIME:4\nTC_END:0\nTC_START:1\nOUTPUT:2\nTIME:3\nTC_END:1\n"
	results, verdict := compare(t, stdout, false,
		testCase(t, 1, "[1,2]", 1000),
		testCase(t, 2, "2", 1000),
	)

	require.Equal(t, domain.TestCaseFailed, results[0].Status)
	require.Equal(t, "[1, 2", results[0].ActualOutputRaw)
	require.Equal(t, domain.TestCasePassed, results[1].Status)
	require.Equal(t, domain.VerdictWrongAnswer, verdict)
}

func TestMismatchedEndMarkerYieldsNoBlock(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:1\nTIME:2\nTC_END:1\n"
	results, _ := compare(t, stdout, false, testCase(t, 1, "1", 1000))

	require.Equal(t, domain.TestCaseTimedOut, results[0].Status)
}

func TestFirstCompleteBlockWinsForDuplicateIndex(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:1\nTIME:2\nTC_END:0\nTC_START:0\nOUTPUT:99\nTIME:8\nTC_END:0\n"
	results, verdict := compare(t, stdout, false, testCase(t, 1, "1", 1000))

	require.Equal(t, domain.TestCasePassed, results[0].Status)
	require.EqualValues(t, 2, results[0].ActualTimeMs)
	require.Equal(t, domain.VerdictAccepted, verdict)
}

func TestNumericToleranceInComparison(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:3.0\nTIME:1\nTC_END:0\n"
	results, verdict := compare(t, stdout, false, testCase(t, 1, "3", 1000))

	require.Equal(t, domain.TestCasePassed, results[0].Status)
	require.Equal(t, domain.VerdictAccepted, verdict)
}

func TestObjectOutputComparedKeyOrderIndependent(t *testing.T) {
	stdout := "TC_START:0\nOUTPUT:{\"b\":2,\"a\":1}\nTIME:1\nTC_END:0\n"
	results, _ := compare(t, stdout, false, testCase(t, 1, `{"a":1,"b":2}`, 1000))

	require.Equal(t, domain.TestCasePassed, results[0].Status)
}

func TestCarriageReturnsAreTolerated(t *testing.T) {
	stdout := "TC_START:0\r\nOUTPUT:[1,2]\r\nTIME:5\r\nTC_END:0\r\n"
	results, _ := compare(t, stdout, false, testCase(t, 1, "[1,2]", 1000))

	require.Equal(t, domain.TestCasePassed, results[0].Status)
}
