package assembler

import (
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/gradeworks/internal/domain"
)

// RubyTemplate generates a ruby harness
type RubyTemplate struct{}

func NewRubyTemplate() *RubyTemplate {
	return &RubyTemplate{}
}

func (t *RubyTemplate) Language() string {
	return "ruby"
}

// LiteralFor renders a JSON value as a ruby literal
func (t *RubyTemplate) LiteralFor(value domain.Value) (string, error) {
	var sb strings.Builder
	if err := t.writeLiteral(&sb, value); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (t *RubyTemplate) writeLiteral(sb *strings.Builder, value domain.Value) error {
	switch value.Kind() {
	case domain.KindNull:
		sb.WriteString("nil")
	case domain.KindBool:
		if value.BoolValue() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case domain.KindNumber:
		sb.WriteString(domain.Number(value.NumberValue()).String())
	case domain.KindString:
		data, err := json.Marshal(value.StringValue())
		if err != nil {
			return fmt.Errorf("failed to escape string literal: %w", err)
		}
		sb.Write(data)
	case domain.KindArray:
		sb.WriteByte('[')
		for i, item := range value.Items() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := t.writeLiteral(sb, item); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case domain.KindObject:
		sb.WriteByte('{')
		for i, key := range value.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			data, err := json.Marshal(key)
			if err != nil {
				return fmt.Errorf("failed to escape object key: %w", err)
			}
			sb.Write(data)
			sb.WriteString(" => ")
			field, _ := value.Field(key)
			if err := t.writeLiteral(sb, field); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("unknown value kind %d", value.Kind())
	}
	return nil
}

// RenderHarness wraps the user code in the timed per-test-case driver
func (t *RubyTemplate) RenderHarness(functionName, userCode string, testCases domain.TestCaseSet) (string, error) {
	var sb strings.Builder

	sb.WriteString(userCode)
	sb.WriteString("\n\n")
	sb.WriteString("require \"json\"\n\n")
	sb.WriteString("def _emit(index, result, elapsed_ms)\n")
	sb.WriteString("  puts \"TC_START:\" + index.to_s\n")
	sb.WriteString("  puts \"OUTPUT:\" + result.to_json\n")
	sb.WriteString("  puts \"TIME:\" + elapsed_ms.to_s\n")
	sb.WriteString("  puts \"TC_END:\" + index.to_s\n")
	sb.WriteString("end\n\n")

	for i, tc := range testCases {
		args := make([]string, len(tc.Input))
		for j, param := range tc.Input {
			lit, err := t.LiteralFor(param.Value)
			if err != nil {
				return "", fmt.Errorf("test case %d parameter %q: %w", tc.ID, param.Name, err)
			}
			args[j] = lit
		}
		fmt.Fprintf(&sb, "_start_%d = Process.clock_gettime(Process::CLOCK_MONOTONIC)\n", i)
		fmt.Fprintf(&sb, "_result_%d = %s(%s)\n", i, functionName, strings.Join(args, ", "))
		fmt.Fprintf(&sb, "_elapsed_%d = ((Process.clock_gettime(Process::CLOCK_MONOTONIC) - _start_%d) * 1000).to_i\n", i, i)
		fmt.Fprintf(&sb, "_emit(%d, _result_%d, _elapsed_%d)\n", i, i, i)
	}

	return sb.String(), nil
}
