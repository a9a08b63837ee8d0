package assembler

import (
	"fmt"
	"strings"

	"gitlab.com/gradeworks/internal/domain"
)

// JavaScriptTemplate generates a node.js harness
type JavaScriptTemplate struct{}

func NewJavaScriptTemplate() *JavaScriptTemplate {
	return &JavaScriptTemplate{}
}

func (t *JavaScriptTemplate) Language() string {
	return "javascript"
}

// LiteralFor renders a JSON value as a javascript literal. Every JSON
// literal is already a valid javascript expression, so the canonical
// rendering is reused directly.
func (t *JavaScriptTemplate) LiteralFor(value domain.Value) (string, error) {
	return value.String(), nil
}

// RenderHarness wraps the user code in the timed per-test-case driver.
// Each case runs inside its own block so harness locals never collide
// with user globals.
func (t *JavaScriptTemplate) RenderHarness(functionName, userCode string, testCases domain.TestCaseSet) (string, error) {
	var sb strings.Builder

	sb.WriteString(userCode)
	sb.WriteString("\n\n")
	sb.WriteString("function _emit(index, result, elapsedMs) {\n")
	sb.WriteString("  console.log(\"TC_START:\" + index);\n")
	sb.WriteString("  console.log(\"OUTPUT:\" + JSON.stringify(result));\n")
	sb.WriteString("  console.log(\"TIME:\" + elapsedMs);\n")
	sb.WriteString("  console.log(\"TC_END:\" + index);\n")
	sb.WriteString("}\n\n")

	for i, tc := range testCases {
		args := make([]string, len(tc.Input))
		for j, param := range tc.Input {
			lit, err := t.LiteralFor(param.Value)
			if err != nil {
				return "", fmt.Errorf("test case %d parameter %q: %w", tc.ID, param.Name, err)
			}
			args[j] = lit
		}
		sb.WriteString("{\n")
		fmt.Fprintf(&sb, "  const _start = Date.now();\n")
		fmt.Fprintf(&sb, "  const _result = %s(%s);\n", functionName, strings.Join(args, ", "))
		fmt.Fprintf(&sb, "  const _elapsed = Date.now() - _start;\n")
		fmt.Fprintf(&sb, "  _emit(%d, _result, _elapsed);\n", i)
		sb.WriteString("}\n")
	}

	return sb.String(), nil
}
