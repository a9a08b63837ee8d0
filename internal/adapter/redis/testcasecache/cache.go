// package testcasecache contains a read-through Redis cache in front of
// the test case store
package testcasecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/core/ports/secondary"
	"gitlab.com/gradeworks/internal/domain"
)

const (
	cacheKeyPrefix  = "judge:testcases:"
	cacheExpiration = 5 * time.Minute
)

var _ secondary.TestCaseRepository = (*CachedRepository)(nil)

// cachedParam and cachedTestCase are the JSON wire shapes cached rows
// are stored under. Parameter order is kept by storing a list, not a
// map.
type cachedParam struct {
	Name  string       `json:"name"`
	Value domain.Value `json:"value"`
}

type cachedTestCase struct {
	ID          int64         `json:"id"`
	Input       []cachedParam `json:"input"`
	Expected    domain.Value  `json:"expected"`
	TimeLimitMs int64         `json:"timeLimitMs"`
	IsHidden    bool          `json:"isHidden"`
}

// CachedRepository implements the TestCaseRepository interface as a
// read-through cache: hits come from Redis, misses fall through to the
// inner repository and populate the cache. Any cache failure degrades
// to the inner repository.
type CachedRepository struct {
	inner       secondary.TestCaseRepository
	redisClient *redis.Client
	logger      primary.Logger
}

// NewCachedRepository creates a new caching test case repository
func NewCachedRepository(inner secondary.TestCaseRepository, redisClient *redis.Client, logger primary.Logger) *CachedRepository {
	return &CachedRepository{
		inner:       inner,
		redisClient: redisClient,
		logger:      logger,
	}
}

// GetTestCases returns every test case of a question in authored order
func (r *CachedRepository) GetTestCases(ctx context.Context, questionID string) (domain.TestCaseSet, error) {
	key := cacheKeyPrefix + questionID

	data, err := r.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		cases, decodeErr := decodeSet(data)
		if decodeErr == nil {
			return cases, nil
		}
		r.logger.Warn("Failed to decode cached test cases", "questionId", questionID, "error", decodeErr)
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("Test case cache read failed", "questionId", questionID, "error", err)
	}

	cases, err := r.inner.GetTestCases(ctx, questionID)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeSet(cases)
	if err != nil {
		r.logger.Warn("Failed to encode test cases for cache", "questionId", questionID, "error", err)
		return cases, nil
	}
	if err := r.redisClient.Set(ctx, key, encoded, cacheExpiration).Err(); err != nil {
		r.logger.Warn("Test case cache write failed", "questionId", questionID, "error", err)
	}

	return cases, nil
}

func encodeSet(cases domain.TestCaseSet) ([]byte, error) {
	wire := make([]cachedTestCase, len(cases))
	for i, tc := range cases {
		params := make([]cachedParam, len(tc.Input))
		for j, p := range tc.Input {
			params[j] = cachedParam{Name: p.Name, Value: p.Value}
		}
		wire[i] = cachedTestCase{
			ID:          tc.ID,
			Input:       params,
			Expected:    tc.ExpectedOutput,
			TimeLimitMs: tc.ExpectedTimeLimitMs,
			IsHidden:    tc.IsHidden,
		}
	}
	return json.Marshal(wire)
}

func decodeSet(data []byte) (domain.TestCaseSet, error) {
	var wire []cachedTestCase
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached test cases: %w", err)
	}

	cases := make(domain.TestCaseSet, len(wire))
	for i, w := range wire {
		params := make([]domain.Param, len(w.Input))
		for j, p := range w.Input {
			params[j] = domain.Param{Name: p.Name, Value: p.Value}
		}
		cases[i] = domain.TestCase{
			ID:                  w.ID,
			Input:               params,
			ExpectedOutput:      w.Expected,
			ExpectedTimeLimitMs: w.TimeLimitMs,
			IsHidden:            w.IsHidden,
		}
	}
	return cases, nil
}
