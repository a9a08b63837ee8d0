package judge

import (
	"encoding/json"
	"time"

	"gitlab.com/gradeworks/internal/core/services/judge"
	"gitlab.com/gradeworks/internal/domain"
)

// JudgeRequest is the body of both run and submit calls
type JudgeRequest struct {
	QuestionID   string `json:"questionId"`
	Language     string `json:"language"`
	FunctionName string `json:"functionName"`
	Code         string `json:"code"`
}

// TestCaseResultResponse is one graded sample case of a run
type TestCaseResultResponse struct {
	TestCaseID int64           `json:"testCaseId"`
	Status     string          `json:"status"`
	TimeMs     int64           `json:"timeMs"`
	Expected   json.RawMessage `json:"expected"`
	Actual     string          `json:"actual"`
}

// RunResponse is what a visible run returns
type RunResponse struct {
	Verdict       string                   `json:"verdict"`
	CompileOutput string                   `json:"compileOutput,omitempty"`
	Results       []TestCaseResultResponse `json:"results"`
}

// FailingCaseResponse exposes the first failing case of a submission
type FailingCaseResponse struct {
	TestCaseID int64           `json:"testCaseId"`
	Input      json.RawMessage `json:"input"`
	Expected   json.RawMessage `json:"expected"`
	Actual     string          `json:"actual"`
}

// SubmitResponse is the recorded approach handed back after a submit
type SubmitResponse struct {
	ApproachID    string               `json:"approachId"`
	Verdict       string               `json:"verdict"`
	RuntimeMs     int64                `json:"runtimeMs"`
	MemoryBytes   int64                `json:"memoryBytes"`
	CompileOutput string               `json:"compileOutput,omitempty"`
	FailingCase   *FailingCaseResponse `json:"failingCase,omitempty"`
	SubmittedAt   time.Time            `json:"submittedAt"`
}

// ApproachResponse is one entry of the approach history listing
type ApproachResponse struct {
	ApproachID  string    `json:"approachId"`
	Language    string    `json:"language"`
	Verdict     string    `json:"verdict"`
	RuntimeMs   int64     `json:"runtimeMs"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func newRunResponse(outcome *judge.RunOutcome) RunResponse {
	resp := RunResponse{
		Verdict:       string(outcome.Verdict),
		CompileOutput: outcome.CompileOutput,
		Results:       make([]TestCaseResultResponse, len(outcome.Results)),
	}
	for i, res := range outcome.Results {
		resp.Results[i] = TestCaseResultResponse{
			TestCaseID: res.TestCase.ID,
			Status:     string(res.Status),
			TimeMs:     res.ActualTimeMs,
			Expected:   json.RawMessage(res.TestCase.ExpectedOutput.String()),
			Actual:     res.ActualOutputRaw,
		}
	}
	return resp
}

func newSubmitResponse(payload *domain.ApproachPayload) SubmitResponse {
	resp := SubmitResponse{
		ApproachID:    payload.ID.String(),
		Verdict:       string(payload.Verdict),
		RuntimeMs:     payload.RuntimeMs,
		MemoryBytes:   payload.MemoryBytes,
		CompileOutput: payload.CompileOutput,
		SubmittedAt:   payload.SubmittedAt,
	}
	if payload.FailingCase != nil {
		resp.FailingCase = &FailingCaseResponse{
			TestCaseID: payload.FailingCase.TestCaseID,
			Input:      json.RawMessage(paramsObject(payload.FailingCase.Input)),
			Expected:   json.RawMessage(payload.FailingCase.Expected.String()),
			Actual:     payload.FailingCase.ActualRaw,
		}
	}
	return resp
}

func paramsObject(params []domain.Param) string {
	keys := make([]string, len(params))
	fields := make(map[string]domain.Value, len(params))
	for i, p := range params {
		keys[i] = p.Name
		fields[p.Name] = p.Value
	}
	return domain.Object(keys, fields).String()
}
