// package approachrepository contains the PostgreSQL implementation of
// the approach store
package approachrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/core/ports/secondary"
	"gitlab.com/gradeworks/internal/domain"
)

var _ secondary.ApproachRepository = (*ApproachRepository)(nil)

// ApproachRepository implements the ApproachRepository interface with
// PostgreSQL
type ApproachRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewApproachRepository creates a new PostgreSQL approach repository
func NewApproachRepository(db *sqlx.DB, logger primary.Logger) *ApproachRepository {
	return &ApproachRepository{
		db:     db,
		logger: logger,
	}
}

// failingCaseRecord is the JSON shape the failing-case diagnostics are
// stored under
type failingCaseRecord struct {
	TestCaseID int64           `json:"testCaseId"`
	Input      json.RawMessage `json:"input"`
	Expected   json.RawMessage `json:"expected"`
	Actual     string          `json:"actual"`
}

// SaveApproach appends one approach record. Approaches are append-only
// history; there is no upsert.
func (r *ApproachRepository) SaveApproach(ctx context.Context, payload *domain.ApproachPayload) error {
	var failingJSON interface{}
	if payload.FailingCase != nil {
		record := failingCaseRecord{
			TestCaseID: payload.FailingCase.TestCaseID,
			Input:      json.RawMessage(paramsToValue(payload.FailingCase.Input).String()),
			Expected:   json.RawMessage(payload.FailingCase.Expected.String()),
			Actual:     payload.FailingCase.ActualRaw,
		}
		data, err := json.Marshal(record)
		if err != nil {
			r.logger.Error("Failed to marshal failing case", "error", err)
			return fmt.Errorf("failed to marshal failing case: %w", err)
		}
		failingJSON = data
	}

	query := `
		INSERT INTO approaches (
			id, user_id, question_id, language, code, verdict,
			runtime_ms, memory_bytes, compile_output, failing_case, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		payload.ID,
		payload.UserID,
		payload.QuestionID,
		payload.Language,
		payload.Code,
		payload.Verdict,
		payload.RuntimeMs,
		payload.MemoryBytes,
		payload.CompileOutput,
		failingJSON,
		payload.SubmittedAt,
	)

	if err != nil {
		r.logger.Error("Failed to save approach", "error", err)
		return fmt.Errorf("failed to save approach: %w", err)
	}

	return nil
}

// GetApproaches lists a user's approaches for a question, newest first
func (r *ApproachRepository) GetApproaches(ctx context.Context, userID, questionID string) ([]*domain.ApproachPayload, error) {
	query := `
		SELECT id, user_id, question_id, language, code, verdict,
			   runtime_ms, memory_bytes, compile_output, failing_case, submitted_at
		FROM approaches
		WHERE user_id = $1 AND question_id = $2
		ORDER BY submitted_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, questionID)
	if err != nil {
		r.logger.Error("Failed to get approaches", "error", err)
		return nil, fmt.Errorf("failed to get approaches: %w", err)
	}
	defer rows.Close()

	approaches := make([]*domain.ApproachPayload, 0)
	for rows.Next() {
		var payload domain.ApproachPayload
		var failingJSON sql.NullString

		err := rows.Scan(
			&payload.ID,
			&payload.UserID,
			&payload.QuestionID,
			&payload.Language,
			&payload.Code,
			&payload.Verdict,
			&payload.RuntimeMs,
			&payload.MemoryBytes,
			&payload.CompileOutput,
			&failingJSON,
			&payload.SubmittedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan approach row", "error", err)
			return nil, fmt.Errorf("failed to scan approach row: %w", err)
		}

		if failingJSON.Valid {
			failing, err := decodeFailingCase(failingJSON.String)
			if err != nil {
				r.logger.Error("Failed to decode failing case", "approachId", payload.ID, "error", err)
				return nil, fmt.Errorf("failed to decode failing case: %w", err)
			}
			payload.FailingCase = failing
		}

		approaches = append(approaches, &payload)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating approach rows", "error", err)
		return nil, fmt.Errorf("error iterating approach rows: %w", err)
	}

	return approaches, nil
}

func decodeFailingCase(text string) (*domain.FailingCase, error) {
	var record failingCaseRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, err
	}

	input, err := domain.ParseValue(string(record.Input))
	if err != nil {
		return nil, err
	}
	expected, err := domain.ParseValue(string(record.Expected))
	if err != nil {
		return nil, err
	}

	return &domain.FailingCase{
		TestCaseID: record.TestCaseID,
		Input:      valueToParams(input),
		Expected:   expected,
		ActualRaw:  record.Actual,
	}, nil
}

// paramsToValue folds ordered parameters into a single JSON object,
// keeping parameter order as key order
func paramsToValue(params []domain.Param) domain.Value {
	keys := make([]string, len(params))
	fields := make(map[string]domain.Value, len(params))
	for i, p := range params {
		keys[i] = p.Name
		fields[p.Name] = p.Value
	}
	return domain.Object(keys, fields)
}

func valueToParams(obj domain.Value) []domain.Param {
	params := make([]domain.Param, 0, len(obj.Keys()))
	for _, key := range obj.Keys() {
		val, _ := obj.Field(key)
		params = append(params, domain.Param{Name: key, Value: val})
	}
	return params
}
