// package questionrepository contains the PostgreSQL implementation of
// the test case store
package questionrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/core/ports/secondary"
	"gitlab.com/gradeworks/internal/domain"
)

var _ secondary.TestCaseRepository = (*QuestionRepository)(nil)

// QuestionRepository implements the TestCaseRepository interface with
// PostgreSQL. The pipeline only reads; question authoring writes these
// rows elsewhere.
type QuestionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewQuestionRepository creates a new PostgreSQL question repository
func NewQuestionRepository(db *sqlx.DB, logger primary.Logger) *QuestionRepository {
	return &QuestionRepository{
		db:     db,
		logger: logger,
	}
}

// GetTestCases returns every test case of a question in authored order.
// The input column is plain json, not jsonb: jsonb normalizes key order
// and the authored parameter order is load-bearing for argument
// construction.
func (r *QuestionRepository) GetTestCases(ctx context.Context, questionID string) (domain.TestCaseSet, error) {
	query := `
		SELECT id, input, expected_output, time_limit_ms, is_hidden
		FROM question_test_cases
		WHERE question_id = $1
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		r.logger.Error("Failed to get test cases", "questionId", questionID, "error", err)
		return nil, fmt.Errorf("failed to get test cases: %w", err)
	}
	defer rows.Close()

	cases := make(domain.TestCaseSet, 0)
	for rows.Next() {
		var tc domain.TestCase
		var inputJSON, expectedJSON []byte

		err := rows.Scan(
			&tc.ID,
			&inputJSON,
			&expectedJSON,
			&tc.ExpectedTimeLimitMs,
			&tc.IsHidden,
		)
		if err != nil {
			r.logger.Error("Failed to scan test case row", "error", err)
			return nil, fmt.Errorf("failed to scan test case row: %w", err)
		}

		input, err := domain.ParseValue(string(inputJSON))
		if err != nil {
			r.logger.Error("Failed to parse test case input", "testCaseId", tc.ID, "error", err)
			return nil, fmt.Errorf("failed to parse input of test case %d: %w", tc.ID, err)
		}
		if input.Kind() != domain.KindObject {
			return nil, fmt.Errorf("input of test case %d is not an object", tc.ID)
		}
		for _, key := range input.Keys() {
			val, _ := input.Field(key)
			tc.Input = append(tc.Input, domain.Param{Name: key, Value: val})
		}

		expected, err := domain.ParseValue(string(expectedJSON))
		if err != nil {
			r.logger.Error("Failed to parse expected output", "testCaseId", tc.ID, "error", err)
			return nil, fmt.Errorf("failed to parse expected output of test case %d: %w", tc.ID, err)
		}
		tc.ExpectedOutput = expected

		cases = append(cases, tc)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating test case rows", "error", err)
		return nil, fmt.Errorf("error iterating test case rows: %w", err)
	}

	return cases, nil
}
