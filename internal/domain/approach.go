package domain

import (
	"time"

	"github.com/google/uuid"
)

// FailingCase carries the user-facing diagnostics for the first failing
// or timed-out test case of a submission. Only this one case is ever
// exposed so the hidden suite does not leak.
type FailingCase struct {
	TestCaseID int64   `json:"testCaseId"`
	Input      []Param `json:"-"`
	Expected   Value   `json:"expected"`
	ActualRaw  string  `json:"actual"`
}

// ApproachPayload is the record of one submission attempt handed to the
// approach store. Append-only: never mutated after creation.
type ApproachPayload struct {
	ID            uuid.UUID
	UserID        string
	QuestionID    string
	Language      string
	Code          string
	Verdict       Verdict
	RuntimeMs     int64
	MemoryBytes   int64
	CompileOutput string
	FailingCase   *FailingCase
	SubmittedAt   time.Time
}

// NewApproachPayload builds the payload from a verdict and its results.
// RuntimeMs is the slowest case for an accepted submission and the
// first failing case's time otherwise. CompileOutput carries the
// compiler diagnostics when the program never ran; results are empty
// then and no failing case is selected.
func NewApproachPayload(sub *Submission, verdict Verdict, results []TestCaseResult, compileOutput string, memoryBytes int64) *ApproachPayload {
	payload := &ApproachPayload{
		ID:            uuid.New(),
		UserID:        sub.UserID,
		QuestionID:    sub.QuestionID,
		Language:      sub.Language,
		Code:          sub.Code,
		Verdict:       verdict,
		MemoryBytes:   memoryBytes,
		CompileOutput: compileOutput,
		SubmittedAt:   time.Now(),
	}

	if verdict == VerdictAccepted {
		for _, res := range results {
			if res.ActualTimeMs > payload.RuntimeMs {
				payload.RuntimeMs = res.ActualTimeMs
			}
		}
		return payload
	}

	for _, res := range results {
		if res.Status == TestCasePassed {
			continue
		}
		payload.RuntimeMs = res.ActualTimeMs
		payload.FailingCase = &FailingCase{
			TestCaseID: res.TestCase.ID,
			Input:      res.TestCase.Input,
			Expected:   res.TestCase.ExpectedOutput,
			ActualRaw:  res.ActualOutputRaw,
		}
		break
	}
	return payload
}

// ApproachTable maps the approaches table columns
type ApproachTable struct {
	ID            string
	UserID        string
	QuestionID    string
	Language      string
	Code          string
	Verdict       string
	RuntimeMs     string
	MemoryBytes   string
	CompileOutput string
	FailingCase   string
	SubmittedAt   string
}

func GetApproachTable() ApproachTable {
	return ApproachTable{
		ID:            "id",
		UserID:        "user_id",
		QuestionID:    "question_id",
		Language:      "language",
		Code:          "code",
		Verdict:       "verdict",
		RuntimeMs:     "runtime_ms",
		MemoryBytes:   "memory_bytes",
		CompileOutput: "compile_output",
		FailingCase:   "failing_case",
		SubmittedAt:   "submitted_at",
	}
}

func (ApproachTable) TableName() string {
	return "approaches"
}
