// package sandbox contains the HTTP client for the external sandboxed
// execution service
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gitlab.com/gradeworks/internal/core/ports/primary"
	"gitlab.com/gradeworks/internal/core/ports/secondary"
	"gitlab.com/gradeworks/internal/domain"
	"gitlab.com/gradeworks/internal/static/errs"
)

var _ secondary.SandboxRunner = (*HTTPClient)(nil)

// executeRequest is the wire request to the sandbox service
type executeRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

// executeResponse is the wire response from the sandbox service. Only
// these fields are contractual; everything else the sandbox returns is
// ignored.
type executeResponse struct {
	Status        string `json:"status"`
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	ExitCode      int    `json:"exitCode"`
	TimedOut      bool   `json:"timedOut"`
	CompileOutput string `json:"compileOutput"`
	Metrics       struct {
		WallTimeMs  int64 `json:"wallTimeMs"`
		MemoryBytes int64 `json:"memoryBytes"`
	} `json:"metrics"`
}

const statusCompileError = "compile_error"

// HTTPClient implements the SandboxRunner interface over the sandbox
// service's HTTP API. The underlying client pools connections; every
// call carries its own request body and context, nothing leaks between
// submissions.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  primary.Logger
}

// NewHTTPClient creates a new sandbox HTTP client. The timeout is a
// backstop against runaway programs that never reach the harness's own
// per-case instrumentation.
func NewHTTPClient(baseURL string, timeout time.Duration, logger primary.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Execute sends the assembled source to the sandbox and returns the raw
// process result
func (c *HTTPClient) Execute(ctx context.Context, language string, code string) (*domain.ExecutionResult, error) {
	body, err := json.Marshal(executeRequest{Language: language, Code: code})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execute request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.logger.Error("Sandbox request timed out", "language", language, "timeout", c.timeout)
			return nil, fmt.Errorf("sandbox did not answer within %s: %w", c.timeout, errs.ErrSandboxTimeout)
		}
		c.logger.Error("Sandbox request failed", "language", language, "error", err)
		return nil, fmt.Errorf("sandbox request failed: %w", errs.ErrSandboxUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Sandbox returned non-2xx status", "status", resp.StatusCode)
		return nil, fmt.Errorf("sandbox returned status %d: %w", resp.StatusCode, errs.ErrSandboxUnavailable)
	}

	var wire executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		c.logger.Error("Failed to decode sandbox response", "error", err)
		return nil, fmt.Errorf("failed to decode sandbox response: %w", errs.ErrSandboxBadResponse)
	}

	if wire.Status == statusCompileError {
		diagnostics := wire.CompileOutput
		if diagnostics == "" {
			diagnostics = wire.Stderr
		}
		return nil, &errs.CompileError{Diagnostics: diagnostics}
	}

	return &domain.ExecutionResult{
		Stdout:        wire.Stdout,
		Stderr:        wire.Stderr,
		ExitCode:      wire.ExitCode,
		TimedOut:      wire.TimedOut,
		CompileOutput: wire.CompileOutput,
		WallTimeMs:    wire.Metrics.WallTimeMs,
		MemoryBytes:   wire.Metrics.MemoryBytes,
	}, nil
}
