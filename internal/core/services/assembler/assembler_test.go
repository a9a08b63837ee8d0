package assembler_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/gradeworks/internal/core/services/assembler"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/static/errs"
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

func sampleCases(t *testing.T) domain.TestCaseSet {
	t.Helper()
	return domain.TestCaseSet{
		{
			ID: 1,
			Input: []domain.Param{
				{Name: "nums", Value: mustValue(t, "[2, 7, 11, 15]")},
				{Name: "target", Value: mustValue(t, "9")},
			},
			ExpectedOutput:      mustValue(t, "[0,1]"),
			ExpectedTimeLimitMs: 1000,
		},
		{
			ID: 2,
			Input: []domain.Param{
				{Name: "nums", Value: mustValue(t, "[3, 3]")},
				{Name: "target", Value: mustValue(t, "6")},
			},
			ExpectedOutput:      mustValue(t, "[0,1]"),
			ExpectedTimeLimitMs: 1000,
		},
	}
}

func TestAssembleIsDeterministic(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})
	cases := sampleCases(t)

	first, err := svc.Assemble("python", "twoSum", "def twoSum(nums, target): pass", cases)
	require.NoError(t, err)
	second, err := svc.Assemble("python", "twoSum", "def twoSum(nums, target): pass", cases)
	require.NoError(t, err)

	require.Equal(t, first.Code, second.Code)
	require.Equal(t, []int64{1, 2}, first.TestCaseIDs)
}

func TestAssembleUnsupportedLanguage(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})

	_, err := svc.Assemble("cobol", "solve", "code", sampleCases(t))
	require.ErrorIs(t, err, errs.ErrUnsupportedLanguage)
}

func TestAssembleRejectsNonFiniteInput(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})
	cases := domain.TestCaseSet{{
		ID: 1,
		Input: []domain.Param{
			{Name: "x", Value: domain.Number(math.Inf(1))},
		},
		ExpectedOutput:      mustValue(t, "0"),
		ExpectedTimeLimitMs: 1000,
	}}

	_, err := svc.Assemble("python", "solve", "def solve(x): pass", cases)
	require.ErrorIs(t, err, errs.ErrUnserializableInput)
}

func TestSupportedLanguages(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})
	require.Equal(t, []string{"python", "javascript", "ruby"}, svc.SupportedLanguages())
}

func TestPythonHarness(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})
	userCode := "def twoSum(nums, target):\n    return [0, 1]"

	program, err := svc.Assemble("python", "twoSum", userCode, sampleCases(t))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(program.Code, userCode))
	require.Contains(t, program.Code, "twoSum([2, 7, 11, 15], 9)")
	require.Contains(t, program.Code, "twoSum([3, 3], 6)")
	require.Contains(t, program.Code, `"TC_START:" + str(index)`)
	require.Contains(t, program.Code, "_emit(0, _result_0, _elapsed_0)")
	require.Contains(t, program.Code, "_emit(1, _result_1, _elapsed_1)")
}

func TestPythonLiterals(t *testing.T) {
	tpl := assembler.NewPythonTemplate()

	cases := map[string]string{
		"null":                    "None",
		"true":                    "True",
		"false":                   "False",
		"3":                       "3",
		"2.5":                     "2.5",
		`"it\n"`:                  `"it\n"`,
		"[1, [2, null]]":          "[1, [2, None]]",
		`{"a": true, "b": [1]}`:   `{"a": True, "b": [1]}`,
	}

	for input, want := range cases {
		lit, err := tpl.LiteralFor(mustValue(t, input))
		require.NoError(t, err)
		require.Equal(t, want, lit, "literal for %s", input)
	}
}

func TestJavaScriptHarness(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})
	userCode := "function twoSum(nums, target) { return [0, 1]; }"

	program, err := svc.Assemble("javascript", "twoSum", userCode, sampleCases(t))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(program.Code, userCode))
	require.Contains(t, program.Code, "twoSum([2,7,11,15], 9)")
	require.Contains(t, program.Code, "JSON.stringify(result)")
	require.Contains(t, program.Code, "_emit(1, _result, _elapsed)")
}

func TestJavaScriptLiteralIsCanonicalJSON(t *testing.T) {
	tpl := assembler.NewJavaScriptTemplate()

	lit, err := tpl.LiteralFor(mustValue(t, `{"a": [1, null, true], "b": "x"}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":[1,null,true],"b":"x"}`, lit)
}

func TestRubyHarness(t *testing.T) {
	svc := assembler.NewAssemblerService(nopLogger{})
	userCode := "def two_sum(nums, target)\n  [0, 1]\nend"

	program, err := svc.Assemble("ruby", "two_sum", userCode, sampleCases(t))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(program.Code, userCode))
	require.Contains(t, program.Code, "two_sum([2, 7, 11, 15], 9)")
	require.Contains(t, program.Code, "result.to_json")
	require.Contains(t, program.Code, "_emit(1, _result_1, _elapsed_1)")
}

func TestRubyLiterals(t *testing.T) {
	tpl := assembler.NewRubyTemplate()

	cases := map[string]string{
		"null":                  "nil",
		"true":                  "true",
		"[1, null]":             "[1, nil]",
		`{"a": 1, "b": [true]}`: `{"a" => 1, "b" => [true]}`,
	}

	for input, want := range cases {
		lit, err := tpl.LiteralFor(mustValue(t, input))
		require.NoError(t, err)
		require.Equal(t, want, lit, "literal for %s", input)
	}
}
