// Package agent produces the narrative analysis and report for a completed
// triage. Remote language models are used when configured; every failure
// degrades to locally synthesized text.
package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"healthmate/internal/config"
)

// ErrEmptyResponse is returned by a model client that answered without text.
var ErrEmptyResponse = errors.New("agent: empty model response")

// Request carries a completed triage to the analyst.
type Request struct {
	// Profile is the flat field mapping of the patient profile.
	Profile        map[string]any `json:"profile"`
	RiskAssessment string         `json:"risk_assessment"`
	Urgency        string         `json:"urgency"`
}

// Result is always usable. Success is false when any part of it had to be
// produced locally after a remote failure.
type Result struct {
	Analysis string `json:"analysis"`
	Report   string `json:"report"`
	Model    string `json:"model"`
	Success  bool   `json:"success"`
}

// Analyst turns a triage into prose. Implementations never fail.
type Analyst interface {
	Analyze(ctx context.Context, req Request) Result
}

// New picks the remote analyst when it is enabled and both model keys are
// present, and the local analyst otherwise.
func New(cfg config.AnalysisConfig, logger *zap.Logger) Analyst {
	if logger == nil {
		logger = zap.NewNop()
	}
	local := NewLocalAnalyst()

	if !cfg.RemoteReady() {
		if cfg.Mode == config.AnalysisRemote {
			logger.Warn("remote analysis requested without both API keys, using local analyst")
		}
		return local
	}

	remote, err := NewRemoteAnalyst(cfg, local, logger)
	if err != nil {
		logger.Warn("remote analyst unavailable, using local analyst", zap.Error(err))
		return local
	}
	return remote
}
