package assembler

import (
	"fmt"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/static/errs"
)

// IAssemblerService defines the interface for assembling runnable
// programs from user code and test cases
type IAssemblerService interface {
	// Assemble wraps user code in a language harness covering testCases.
	// Pure and deterministic: identical inputs produce identical source.
	Assemble(language, functionName, userCode string, testCases domain.TestCaseSet) (*domain.AssembledProgram, error)

	// SupportedLanguages lists the registered language templates
	SupportedLanguages() []string
}

var _ IAssemblerService = (*AssemblerService)(nil)

// AssemblerService implements the IAssemblerService interface
type AssemblerService struct {
	templates map[string]Template
	order     []string
	logger    primary.Logger
}

// NewAssemblerService creates an assembler with the built-in templates
func NewAssemblerService(logger primary.Logger) *AssemblerService {
	s := &AssemblerService{
		templates: make(map[string]Template),
		logger:    logger,
	}
	s.Register(NewPythonTemplate())
	s.Register(NewJavaScriptTemplate())
	s.Register(NewRubyTemplate())
	return s
}

// Register adds a language template. Registering twice for the same
// language replaces the earlier template.
func (s *AssemblerService) Register(tpl Template) {
	lang := tpl.Language()
	if _, exists := s.templates[lang]; !exists {
		s.order = append(s.order, lang)
	}
	s.templates[lang] = tpl
}

// Assemble wraps the user code in the harness of the target language
func (s *AssemblerService) Assemble(language, functionName, userCode string, testCases domain.TestCaseSet) (*domain.AssembledProgram, error) {
	tpl, ok := s.templates[language]
	if !ok {
		return nil, fmt.Errorf("no template for %q: %w", language, errs.ErrUnsupportedLanguage)
	}

	// Surface unserializable values before any rendering so a structural
	// problem is never mistaken for a sandbox compile failure
	for _, tc := range testCases {
		for _, param := range tc.Input {
			if !param.Value.IsFinite() {
				return nil, fmt.Errorf("test case %d parameter %q: %w", tc.ID, param.Name, errs.ErrUnserializableInput)
			}
		}
	}

	code, err := tpl.RenderHarness(functionName, userCode, testCases)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s harness: %w", language, err)
	}

	ids := make([]int64, len(testCases))
	for i, tc := range testCases {
		ids[i] = tc.ID
	}

	return &domain.AssembledProgram{
		Language:    language,
		Code:        code,
		TestCaseIDs: ids,
	}, nil
}

// SupportedLanguages lists the registered language templates in
// registration order
func (s *AssemblerService) SupportedLanguages() []string {
	return append([]string(nil), s.order...)
}
