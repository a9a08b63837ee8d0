package comparator

import (
	"strconv"
	"strings"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/domain"
)

// IComparatorService defines the interface for grading raw execution
// output against expected results
type IComparatorService interface {
	// Compare parses the delimited stdout protocol, grades every test
	// case and reduces the set to one verdict. It never fails: malformed
	// or truncated output resolves to FAILED or TIMED_OUT per case.
	Compare(result *domain.ExecutionResult, testCases domain.TestCaseSet) ([]domain.TestCaseResult, domain.Verdict)
}

var _ IComparatorService = (*ComparatorService)(nil)

// ComparatorService implements the IComparatorService interface
type ComparatorService struct {
	logger primary.Logger
}

// NewComparatorService creates a new comparator service
func NewComparatorService(logger primary.Logger) *ComparatorService {
	return &ComparatorService{logger: logger}
}

// block is one well-formed marker-delimited record parsed from stdout
type block struct {
	index     int
	rawOutput string
	timeMs    int64
}

// Compare grades every test case and reduces the set to one verdict
func (s *ComparatorService) Compare(result *domain.ExecutionResult, testCases domain.TestCaseSet) ([]domain.TestCaseResult, domain.Verdict) {
	blocks := parseBlocks(result.Stdout)

	// Results go back in original test-case order regardless of the
	// order blocks appeared in, so the caller can reliably point at the
	// Nth case of the batch
	results := make([]domain.TestCaseResult, len(testCases))
	for i, tc := range testCases {
		results[i] = s.grade(i, tc, blocks)
	}

	return results, domain.ReduceVerdict(results)
}

func (s *ComparatorService) grade(index int, tc domain.TestCase, blocks map[int]block) domain.TestCaseResult {
	res := domain.TestCaseResult{TestCase: tc}

	b, ok := blocks[index]
	if !ok {
		// The run stopped reporting before this case: either the process
		// was cut off or the block was truncated mid-write
		res.Status = domain.TestCaseTimedOut
		return res
	}

	res.ActualOutputRaw = b.rawOutput
	res.ActualTimeMs = b.timeMs

	if b.timeMs > tc.ExpectedTimeLimitMs {
		res.Status = domain.TestCaseTimedOut
		return res
	}

	actual, err := domain.ParseValue(strings.TrimSpace(b.rawOutput))
	if err != nil {
		s.logger.Debug("Unparseable test case output", "index", index, "error", err)
		res.Status = domain.TestCaseFailed
		return res
	}

	if actual.Equal(tc.ExpectedOutput) {
		res.Status = domain.TestCasePassed
	} else {
		res.Status = domain.TestCaseFailed
	}
	return res
}

// parseBlocks extracts every well-formed marker pair from stdout. Lines
// outside blocks, including user debug prints, are skipped. A start
// marker without a matching end (truncation, or a crash mid-case)
// yields no block, which downstream classifies as timed out. The first
// complete block wins for a given index.
func parseBlocks(stdout string) map[int]block {
	blocks := make(map[int]block)
	lines := strings.Split(stdout, "\n")

	for i := 0; i < len(lines); i++ {
		index, ok := parseMarker(lines[i], domain.MarkerStart)
		if !ok {
			continue
		}

		var rawOutput string
		var haveOutput bool
		var timeMs int64
		var haveTime bool
		closed := false

		j := i + 1
		for ; j < len(lines); j++ {
			line := strings.TrimRight(lines[j], "\r")
			if _, isStart := parseMarker(line, domain.MarkerStart); isStart {
				// New block began before this one closed; rescan from it
				j--
				break
			}
			if endIdx, isEnd := parseMarker(line, domain.MarkerEnd); isEnd {
				closed = endIdx == index
				break
			}
			if rest, found := strings.CutPrefix(line, domain.MarkerOutput); found {
				rawOutput = rest
				haveOutput = true
				continue
			}
			if rest, found := strings.CutPrefix(line, domain.MarkerTime); found {
				ms, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
				if err == nil {
					timeMs = ms
					haveTime = true
				}
				continue
			}
			// Anything else inside the block is user output; ignore it
		}

		if closed && haveOutput && haveTime {
			if _, seen := blocks[index]; !seen {
				blocks[index] = block{index: index, rawOutput: rawOutput, timeMs: timeMs}
			}
		}
		i = j
	}

	return blocks
}

// parseMarker matches a line of the form <prefix><index> and returns
// the parsed index
func parseMarker(line, prefix string) (int, bool) {
	line = strings.TrimRight(line, "\r")
	rest, found := strings.CutPrefix(line, prefix)
	if !found {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimSpace(rest))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
