package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission represents one user action against a question, either a
// visible "Run" or a recorded "Submit"
type Submission struct {
	ID           uuid.UUID
	UserID       string
	QuestionID   string
	Language     string
	FunctionName string
	Code         string
	SubmittedAt  time.Time
}

// NewSubmission creates a new submission
func NewSubmission(userID, questionID, language, functionName, code string) *Submission {
	return &Submission{
		ID:           uuid.New(),
		UserID:       userID,
		QuestionID:   questionID,
		Language:     language,
		FunctionName: functionName,
		Code:         code,
		SubmittedAt:  time.Now(),
	}
}
