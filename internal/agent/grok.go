package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"golang.org/x/time/rate"
)

const (
	grokTemperature = 0.7
	grokMaxTokens   = 2000
)

// grokClient talks to the OpenAI-compatible xAI chat completions API.
type grokClient struct {
	llm     llms.Model
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

func newGrokClient(apiKey, baseURL, model string, limiter *rate.Limiter, timeout time.Duration) (*grokClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("grok API key required")
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating grok client: %w", err)
	}
	return &grokClient{llm: llm, model: model, limiter: limiter, timeout: timeout}, nil
}

func (c *grokClient) complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	},
		llms.WithTemperature(grokTemperature),
		llms.WithMaxTokens(grokMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("grok request failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
