package config

import (
	"strconv"
	"time"
)

// SandboxConfig points at the external sandboxed execution service.
// The timeout is the infrastructure backstop; per-test-case limits are
// enforced inside the assembled program itself.
type SandboxConfig struct {
	Url     string
	Timeout time.Duration
}

func NewSandboxConfig() *SandboxConfig {
	timeoutSec, err := strconv.Atoi(getEnv("SANDBOX_TIMEOUT_SEC", "30"))
	if err != nil {
		timeoutSec = 30
	}
	return &SandboxConfig{
		Url:     getEnv("SANDBOX_URL", "http://localhost:9090"),
		Timeout: time.Duration(timeoutSec) * time.Second,
	}
}
