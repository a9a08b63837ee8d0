package judge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	judgesvc "gitlab.com/gradeworks/internal/core/services/judge"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/handlers"
	"gitlab.com/gradeworks/internal/static/errs"
)

// JudgeHandler handles judge API requests
type JudgeHandler struct {
	judgeService judgesvc.IJudgeService
	logger       primary.Logger
}

// NewJudgeHandler creates a new judge handler
func NewJudgeHandler(judgeService judgesvc.IJudgeService, logger primary.Logger) *JudgeHandler {
	return &JudgeHandler{
		judgeService: judgeService,
		logger:       logger,
	}
}

// RegisterRoutes registers the API routes for JudgeHandler. Every route
// sits behind the identity middleware: the approach record needs to
// know who submitted.
func (h *JudgeHandler) RegisterRoutes(router *mux.Router, mw *handlers.MiddlewareProvider) {
	router.Handle("/api/judge/run", mw.JWTMiddleware(http.HandlerFunc(h.Run))).Methods("POST")
	router.Handle("/api/judge/submit", mw.JWTMiddleware(http.HandlerFunc(h.Submit))).Methods("POST")
	router.Handle("/api/questions/{questionId}/approaches", mw.JWTMiddleware(http.HandlerFunc(h.GetApproaches))).Methods("GET")
}

// Run handles visible sample-case runs
func (h *JudgeHandler) Run(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	outcome, err := h.judgeService.Run(r.Context(), sub)
	if err != nil {
		h.writeJudgeError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, newRunResponse(outcome))
}

// Submit handles full hidden-suite submissions
func (h *JudgeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.decodeSubmission(w, r)
	if !ok {
		return
	}

	payload, err := h.judgeService.Submit(r.Context(), sub)
	if err != nil {
		h.writeJudgeError(w, err)
		return
	}

	handlers.ResponseWithJson(w, http.StatusCreated, newSubmitResponse(payload))
}

// GetApproaches handles approach history listing requests
func (h *JudgeHandler) GetApproaches(w http.ResponseWriter, r *http.Request) {
	user, ok := handlers.UserFromContext(r.Context())
	if !ok {
		handlers.ResponseError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	questionID := vars["questionId"]

	approaches, err := h.judgeService.GetApproaches(r.Context(), user.UserID, questionID)
	if err != nil {
		h.logger.Error("Failed to list approaches", "questionId", questionID, "error", err)
		handlers.ResponseError(w, "Failed to list approaches", http.StatusInternalServerError)
		return
	}

	resp := make([]ApproachResponse, len(approaches))
	for i, approach := range approaches {
		resp[i] = ApproachResponse{
			ApproachID:  approach.ID.String(),
			Language:    approach.Language,
			Verdict:     string(approach.Verdict),
			RuntimeMs:   approach.RuntimeMs,
			SubmittedAt: approach.SubmittedAt,
		}
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string][]ApproachResponse{"approaches": resp})
}

func (h *JudgeHandler) decodeSubmission(w http.ResponseWriter, r *http.Request) (*domain.Submission, bool) {
	user, ok := handlers.UserFromContext(r.Context())
	if !ok {
		handlers.ResponseError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	var req JudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return nil, false
	}

	if req.QuestionID == "" || req.Language == "" || req.FunctionName == "" || req.Code == "" {
		handlers.ResponseError(w, "questionId, language, functionName and code are required", http.StatusBadRequest)
		return nil, false
	}

	return domain.NewSubmission(user.UserID, req.QuestionID, req.Language, req.FunctionName, req.Code), true
}

// writeJudgeError maps the pipeline's error taxonomy onto HTTP codes.
// Infrastructure failures are never presented as grading outcomes.
func (h *JudgeHandler) writeJudgeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrUnsupportedLanguage):
		handlers.ResponseError(w, "Unsupported language", http.StatusBadRequest)
	case errors.Is(err, errs.ErrUnserializableInput):
		handlers.ResponseError(w, "Test case input cannot be serialized for this language", http.StatusUnprocessableEntity)
	case errors.Is(err, errs.ErrNoTestCases):
		handlers.ResponseError(w, "Question has no runnable test cases", http.StatusNotFound)
	case errors.Is(err, errs.ErrRunSuperseded):
		handlers.ResponseError(w, "Run superseded by a newer request", http.StatusConflict)
	case errs.IsInfrastructure(err):
		h.logger.Error("Execution infrastructure failure", "error", err)
		handlers.ResponseError(w, "Execution service unavailable, please retry", http.StatusBadGateway)
	default:
		h.logger.Error("Judge request failed", "error", err)
		handlers.ResponseError(w, "Failed to judge submission", http.StatusInternalServerError)
	}
}
