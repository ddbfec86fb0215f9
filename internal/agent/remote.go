package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"healthmate/internal/config"
)

const limiterBurst = 5

// RemoteAnalyst runs the analysis on Grok and the report on Gemini. Either
// step falls back to the local analyst independently.
type RemoteAnalyst struct {
	grok   *grokClient
	gemini *geminiClient
	local  *LocalAnalyst
	logger *zap.Logger
}

func NewRemoteAnalyst(cfg config.AnalysisConfig, local *LocalAnalyst, logger *zap.Logger) (*RemoteAnalyst, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if local == nil {
		local = NewLocalAnalyst()
	}
	limit := rate.Limit(float64(cfg.RequestsPerMinute) / 60)

	grok, err := newGrokClient(cfg.GrokAPIKey, cfg.GrokBaseURL, cfg.GrokModel,
		rate.NewLimiter(limit, limiterBurst), cfg.Timeout())
	if err != nil {
		return nil, err
	}
	gemini, err := newGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel,
		rate.NewLimiter(limit, limiterBurst), cfg.Timeout())
	if err != nil {
		return nil, err
	}

	return &RemoteAnalyst{grok: grok, gemini: gemini, local: local, logger: logger}, nil
}

func (a *RemoteAnalyst) Analyze(ctx context.Context, req Request) Result {
	res := Result{Success: true}
	var models []string

	analysis, err := a.grok.complete(ctx, grokSystemPrompt, analysisPrompt(req))
	if err != nil {
		a.logger.Warn("grok analysis failed, using local analysis",
			zap.String("model", a.grok.model),
			zap.Error(err),
		)
		analysis = a.local.analysis(req)
		res.Success = false
		models = append(models, localModel)
	} else {
		models = append(models, a.grok.model)
	}

	report, err := a.gemini.generate(ctx, reportPrompt(req, analysis))
	if err != nil {
		a.logger.Warn("gemini report failed, using local report",
			zap.String("model", a.gemini.model),
			zap.Error(err),
		)
		report = a.local.report(req, analysis)
		res.Success = false
		if models[0] != localModel {
			models = append(models, localModel)
		}
	} else {
		models = append(models, a.gemini.model)
	}

	res.Analysis = analysis
	res.Report = report
	res.Model = strings.Join(models, " + ")
	return res
}
