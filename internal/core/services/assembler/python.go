package assembler

import (
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/gradeworks/internal/domain"
)

// PythonTemplate generates a python3 harness
type PythonTemplate struct{}

func NewPythonTemplate() *PythonTemplate {
	return &PythonTemplate{}
}

func (t *PythonTemplate) Language() string {
	return "python"
}

// LiteralFor renders a JSON value as a python literal
func (t *PythonTemplate) LiteralFor(value domain.Value) (string, error) {
	var sb strings.Builder
	if err := t.writeLiteral(&sb, value); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (t *PythonTemplate) writeLiteral(sb *strings.Builder, value domain.Value) error {
	switch value.Kind() {
	case domain.KindNull:
		sb.WriteString("None")
	case domain.KindBool:
		if value.BoolValue() {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
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
			sb.WriteString(": ")
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
func (t *PythonTemplate) RenderHarness(functionName, userCode string, testCases domain.TestCaseSet) (string, error) {
	var sb strings.Builder

	sb.WriteString(userCode)
	sb.WriteString("\n\n")
	sb.WriteString("import json as _json\n")
	sb.WriteString("import time as _time\n\n")
	sb.WriteString("def _emit(index, result, elapsed_ms):\n")
	sb.WriteString("    print(\"TC_START:\" + str(index))\n")
	sb.WriteString("    print(\"OUTPUT:\" + _json.dumps(result, separators=(\",\", \":\")))\n")
	sb.WriteString("    print(\"TIME:\" + str(elapsed_ms))\n")
	sb.WriteString("    print(\"TC_END:\" + str(index))\n\n")

	for i, tc := range testCases {
		args := make([]string, len(tc.Input))
		for j, param := range tc.Input {
			lit, err := t.LiteralFor(param.Value)
			if err != nil {
				return "", fmt.Errorf("test case %d parameter %q: %w", tc.ID, param.Name, err)
			}
			args[j] = lit
		}
		fmt.Fprintf(&sb, "_start_%d = _time.perf_counter()\n", i)
		fmt.Fprintf(&sb, "_result_%d = %s(%s)\n", i, functionName, strings.Join(args, ", "))
		fmt.Fprintf(&sb, "_elapsed_%d = int((_time.perf_counter() - _start_%d) * 1000)\n", i, i)
		fmt.Fprintf(&sb, "_emit(%d, _result_%d, _elapsed_%d)\n", i, i, i)
	}

	return sb.String(), nil
}
