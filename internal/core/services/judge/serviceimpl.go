package judge

import (
	"context"
	"fmt"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/core/ports/secondary"
	"gitlab.com/gradeworks/internal/core/services/assembler"
	"gitlab.com/gradeworks/internal/core/services/comparator"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/static/errs"
)

var _ IJudgeService = (*JudgeService)(nil)

// JudgeService implements the IJudgeService interface. One call is one
// pipeline pass: load test cases, assemble, execute, compare. No state
// is shared between calls beyond the pooled sandbox client.
type JudgeService struct {
	assembler  assembler.IAssemblerService
	comparator comparator.IComparatorService
	sandbox    secondary.SandboxRunner
	testCases  secondary.TestCaseRepository
	approaches secondary.ApproachRepository
	runTokens  secondary.RunTokenRepository
	logger     primary.Logger
}

// NewJudgeService creates a new judge service
func NewJudgeService(
	asm assembler.IAssemblerService,
	cmp comparator.IComparatorService,
	sandbox secondary.SandboxRunner,
	testCases secondary.TestCaseRepository,
	approaches secondary.ApproachRepository,
	runTokens secondary.RunTokenRepository,
	logger primary.Logger,
) *JudgeService {
	return &JudgeService{
		assembler:  asm,
		comparator: cmp,
		sandbox:    sandbox,
		testCases:  testCases,
		approaches: approaches,
		runTokens:  runTokens,
		logger:     logger,
	}
}

// Run grades a submission against the question's sample test cases
func (s *JudgeService) Run(ctx context.Context, sub *domain.Submission) (*RunOutcome, error) {
	cases, err := s.loadTestCases(ctx, sub.QuestionID)
	if err != nil {
		return nil, err
	}

	samples := cases.SampleOnly()
	if len(samples) == 0 {
		return nil, fmt.Errorf("question %s: %w", sub.QuestionID, errs.ErrNoTestCases)
	}

	outcome, _, err := s.grade(ctx, sub, samples)
	return outcome, err
}

// Submit grades a submission against the full hidden suite and records
// the approach
func (s *JudgeService) Submit(ctx context.Context, sub *domain.Submission) (*domain.ApproachPayload, error) {
	cases, err := s.loadTestCases(ctx, sub.QuestionID)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("question %s: %w", sub.QuestionID, errs.ErrNoTestCases)
	}

	outcome, memoryBytes, err := s.grade(ctx, sub, cases)
	if err != nil {
		return nil, err
	}

	payload := domain.NewApproachPayload(sub, outcome.Verdict, outcome.Results, outcome.CompileOutput, memoryBytes)
	if err := s.approaches.SaveApproach(ctx, payload); err != nil {
		s.logger.Error("Failed to save approach", "submissionId", sub.ID, "error", err)
		return nil, fmt.Errorf("failed to save approach: %w", err)
	}

	s.logger.Info("Approach recorded",
		"approachId", payload.ID,
		"questionId", sub.QuestionID,
		"verdict", payload.Verdict)

	return payload, nil
}

// GetApproaches lists a user's recorded approaches for a question
func (s *JudgeService) GetApproaches(ctx context.Context, userID, questionID string) ([]*domain.ApproachPayload, error) {
	approaches, err := s.approaches.GetApproaches(ctx, userID, questionID)
	if err != nil {
		s.logger.Error("Failed to list approaches", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to list approaches: %w", err)
	}
	return approaches, nil
}

// grade runs the assemble → execute → compare pipeline over cases.
// A stale run, superseded by a newer request for the same user and
// question while the sandbox call was in flight, is discarded.
func (s *JudgeService) grade(ctx context.Context, sub *domain.Submission, cases domain.TestCaseSet) (*RunOutcome, int64, error) {
	token, err := s.runTokens.NextToken(ctx, sub.UserID, sub.QuestionID)
	if err != nil {
		s.logger.Error("Failed to issue run token", "questionId", sub.QuestionID, "error", err)
		return nil, 0, fmt.Errorf("failed to issue run token: %w", err)
	}

	program, err := s.assembler.Assemble(sub.Language, sub.FunctionName, sub.Code, cases)
	if err != nil {
		return nil, 0, err
	}

	execResult, err := s.sandbox.Execute(ctx, program.Language, program.Code)
	if err != nil {
		if compileErr, ok := errs.AsCompileError(err); ok {
			// The program never ran, so no output can be associated with
			// any test case; the submission grades as a wrong answer with
			// the compiler diagnostics attached
			return s.resolve(ctx, sub, token, &RunOutcome{
				Verdict:       domain.VerdictWrongAnswer,
				CompileOutput: compileErr.Diagnostics,
			}, 0)
		}
		s.logger.Error("Sandbox execution failed",
			"submissionId", sub.ID,
			"language", sub.Language,
			"error", err)
		return nil, 0, err
	}

	results, verdict := s.comparator.Compare(execResult, cases)
	return s.resolve(ctx, sub, token, &RunOutcome{
		Results: results,
		Verdict: verdict,
	}, execResult.MemoryBytes)
}

// resolve re-checks the run token before handing an outcome back so a
// late-arriving stale result never overwrites a newer one
func (s *JudgeService) resolve(ctx context.Context, sub *domain.Submission, token int64, outcome *RunOutcome, memoryBytes int64) (*RunOutcome, int64, error) {
	latest, err := s.runTokens.IsLatest(ctx, sub.UserID, sub.QuestionID, token)
	if err != nil {
		s.logger.Error("Failed to check run token", "questionId", sub.QuestionID, "error", err)
		return nil, 0, fmt.Errorf("failed to check run token: %w", err)
	}
	if !latest {
		s.logger.Info("Discarding superseded run",
			"submissionId", sub.ID,
			"questionId", sub.QuestionID,
			"token", token)
		return nil, 0, errs.ErrRunSuperseded
	}
	return outcome, memoryBytes, nil
}

func (s *JudgeService) loadTestCases(ctx context.Context, questionID string) (domain.TestCaseSet, error) {
	cases, err := s.testCases.GetTestCases(ctx, questionID)
	if err != nil {
		s.logger.Error("Failed to load test cases", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	return cases, nil
}
