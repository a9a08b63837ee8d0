package judge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gradeworks/internal/core/services/assembler"
	"gitlab.com/gradeworks/internal/core/services/comparator"
	"gitlab.com/gradeworks/internal/core/services/judge"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/static/errs"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

type fakeSandbox struct {
	result   *domain.ExecutionResult
	err      error
	lastCode string
	calls    int
}

func (f *fakeSandbox) Execute(_ context.Context, _ string, code string) (*domain.ExecutionResult, error) {
	f.calls++
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeTestCases struct {
	cases domain.TestCaseSet
	err   error
}

func (f *fakeTestCases) GetTestCases(context.Context, string) (domain.TestCaseSet, error) {
	return f.cases, f.err
}

type fakeApproaches struct {
	saved []*domain.ApproachPayload
}

func (f *fakeApproaches) SaveApproach(_ context.Context, payload *domain.ApproachPayload) error {
	f.saved = append(f.saved, payload)
	return nil
}

func (f *fakeApproaches) GetApproaches(context.Context, string, string) ([]*domain.ApproachPayload, error) {
	return f.saved, nil
}

type fakeTokens struct {
	next   int64
	latest bool
}

func (f *fakeTokens) NextToken(context.Context, string, string) (int64, error) {
	f.next++
	return f.next, nil
}

func (f *fakeTokens) IsLatest(context.Context, string, string, int64) (bool, error) {
	return f.latest, nil
}

func mustValue(t *testing.T, text string) domain.Value {
	t.Helper()
	val, err := domain.ParseValue(text)
	require.NoError(t, err)
	return val
}

func questionCases(t *testing.T) domain.TestCaseSet {
	t.Helper()
	return domain.TestCaseSet{
		{
			ID:                  1,
			Input:               []domain.Param{{Name: "nums", Value: mustValue(t, "[-1,0,1]")}},
			ExpectedOutput:      mustValue(t, "[-1,0,1]"),
			ExpectedTimeLimitMs: 1000,
		},
		{
			ID:                  2,
			Input:               []domain.Param{{Name: "nums", Value: mustValue(t, "[5,5]")}},
			ExpectedOutput:      mustValue(t, "[5,5]"),
			ExpectedTimeLimitMs: 1000,
			IsHidden:            true,
		},
	}
}

func newService(sandbox *fakeSandbox, cases *fakeTestCases, approaches *fakeApproaches, tokens *fakeTokens) *judge.JudgeService {
	logger := nopLogger{}
	return judge.NewJudgeService(
		assembler.NewAssemblerService(logger),
		comparator.NewComparatorService(logger),
		sandbox,
		cases,
		approaches,
		tokens,
		logger,
	)
}

func submission() *domain.Submission {
	return domain.NewSubmission("u1", "q1", "python", "identity", "def identity(nums): return nums")
}

func TestRunGradesOnlySampleCases(t *testing.T) {
	sandbox := &fakeSandbox{result: &domain.ExecutionResult{
		Stdout: "TC_START:0\nOUTPUT:[-1, 0, 1]\nTIME:12\nTC_END:0\n",
	}}
	approaches := &fakeApproaches{}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, approaches, &fakeTokens{latest: true})

	outcome, err := svc.Run(context.Background(), submission())
	require.NoError(t, err)

	require.Len(t, outcome.Results, 1)
	require.EqualValues(t, 1, outcome.Results[0].TestCase.ID)
	require.Equal(t, domain.TestCasePassed, outcome.Results[0].Status)
	require.Equal(t, domain.VerdictAccepted, outcome.Verdict)

	// The hidden case never reaches the assembled program
	require.NotContains(t, sandbox.lastCode, "[5, 5]")
	// A visible run records no approach
	require.Empty(t, approaches.saved)
}

func TestSubmitRecordsApproachWithFirstFailingCase(t *testing.T) {
	sandbox := &fakeSandbox{result: &domain.ExecutionResult{
		Stdout: "TC_START:0\nOUTPUT:[-1,0,1]\nTIME:3\nTC_END:0\n" +
			"TC_START:1\nOUTPUT:[9,9]\nTIME:8\nTC_END:1\n",
		MemoryBytes: 2048,
	}}
	approaches := &fakeApproaches{}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, approaches, &fakeTokens{latest: true})

	payload, err := svc.Submit(context.Background(), submission())
	require.NoError(t, err)

	require.Equal(t, domain.VerdictWrongAnswer, payload.Verdict)
	require.EqualValues(t, 8, payload.RuntimeMs)
	require.EqualValues(t, 2048, payload.MemoryBytes)
	require.NotNil(t, payload.FailingCase)
	require.EqualValues(t, 2, payload.FailingCase.TestCaseID)
	require.Equal(t, "[9,9]", payload.FailingCase.ActualRaw)

	require.Len(t, approaches.saved, 1)
	require.Same(t, payload, approaches.saved[0])
}

func TestSubmitAcceptedHasNoFailingCase(t *testing.T) {
	sandbox := &fakeSandbox{result: &domain.ExecutionResult{
		Stdout: "TC_START:0\nOUTPUT:[-1,0,1]\nTIME:3\nTC_END:0\n" +
			"TC_START:1\nOUTPUT:[5,5]\nTIME:20\nTC_END:1\n",
	}}
	approaches := &fakeApproaches{}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, approaches, &fakeTokens{latest: true})

	payload, err := svc.Submit(context.Background(), submission())
	require.NoError(t, err)

	require.Equal(t, domain.VerdictAccepted, payload.Verdict)
	require.EqualValues(t, 20, payload.RuntimeMs)
	require.Nil(t, payload.FailingCase)
}

func TestInfrastructureFailureIsNotAVerdict(t *testing.T) {
	sandbox := &fakeSandbox{err: errs.ErrSandboxUnavailable}
	approaches := &fakeApproaches{}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, approaches, &fakeTokens{latest: true})

	_, err := svc.Submit(context.Background(), submission())
	require.ErrorIs(t, err, errs.ErrSandboxUnavailable)
	require.Empty(t, approaches.saved)
}

func TestSubmitRecordsCompileErrorWithDiagnostics(t *testing.T) {
	sandbox := &fakeSandbox{err: &errs.CompileError{Diagnostics: "SyntaxError: invalid syntax"}}
	approaches := &fakeApproaches{}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, approaches, &fakeTokens{latest: true})

	payload, err := svc.Submit(context.Background(), submission())
	require.NoError(t, err)

	require.Equal(t, domain.VerdictWrongAnswer, payload.Verdict)
	require.Equal(t, "SyntaxError: invalid syntax", payload.CompileOutput)
	require.Nil(t, payload.FailingCase)
	require.Zero(t, payload.RuntimeMs)

	require.Len(t, approaches.saved, 1)
	require.Equal(t, "SyntaxError: invalid syntax", approaches.saved[0].CompileOutput)
}

func TestCompileErrorSurfacesDiagnostics(t *testing.T) {
	sandbox := &fakeSandbox{err: &errs.CompileError{Diagnostics: "SyntaxError: invalid syntax"}}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, &fakeApproaches{}, &fakeTokens{latest: true})

	outcome, err := svc.Run(context.Background(), submission())
	require.NoError(t, err)

	require.Empty(t, outcome.Results)
	require.Equal(t, domain.VerdictWrongAnswer, outcome.Verdict)
	require.Equal(t, "SyntaxError: invalid syntax", outcome.CompileOutput)
}

func TestSupersededRunIsDiscarded(t *testing.T) {
	sandbox := &fakeSandbox{result: &domain.ExecutionResult{
		Stdout: "TC_START:0\nOUTPUT:[-1,0,1]\nTIME:3\nTC_END:0\n" +
			"TC_START:1\nOUTPUT:[5,5]\nTIME:4\nTC_END:1\n",
	}}
	approaches := &fakeApproaches{}
	svc := newService(sandbox, &fakeTestCases{cases: questionCases(t)}, approaches, &fakeTokens{latest: false})

	_, err := svc.Submit(context.Background(), submission())
	require.ErrorIs(t, err, errs.ErrRunSuperseded)
	require.Empty(t, approaches.saved)
}

func TestRunWithoutSampleCases(t *testing.T) {
	hiddenOnly := domain.TestCaseSet{{
		ID:                  1,
		ExpectedOutput:      mustValue(t, "1"),
		ExpectedTimeLimitMs: 1000,
		IsHidden:            true,
	}}
	svc := newService(&fakeSandbox{}, &fakeTestCases{cases: hiddenOnly}, &fakeApproaches{}, &fakeTokens{latest: true})

	_, err := svc.Run(context.Background(), submission())
	require.ErrorIs(t, err, errs.ErrNoTestCases)
}

func TestTestCaseLoadFailurePropagates(t *testing.T) {
	loadErr := errors.New("db down")
	svc := newService(&fakeSandbox{}, &fakeTestCases{err: loadErr}, &fakeApproaches{}, &fakeTokens{latest: true})

	_, err := svc.Run(context.Background(), submission())
	require.ErrorIs(t, err, loadErr)
}
