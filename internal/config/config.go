// Package config loads healthmate configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	"healthmate/internal/logging"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   logging.Config  `koanf:"logging"`
	Analysis  AnalysisConfig  `koanf:"analysis"`
	Knowledge KnowledgeConfig `koanf:"knowledge"`
	Telegram  TelegramConfig  `koanf:"telegram"`
}

type ServerConfig struct {
	Port                   int `koanf:"port"`
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig points at the Postgres archive. An empty URL disables it.
type DatabaseConfig struct {
	URL            string `koanf:"url"`
	MigrationsPath string `koanf:"migrations_path"`
}

const (
	AnalysisLocal  = "local"
	AnalysisRemote = "remote"
)

type AnalysisConfig struct {
	Mode              string `koanf:"mode"`
	GrokAPIKey        string `koanf:"grok_api_key"`
	GrokBaseURL       string `koanf:"grok_base_url"`
	GrokModel         string `koanf:"grok_model"`
	GeminiAPIKey      string `koanf:"gemini_api_key"`
	GeminiBaseURL     string `koanf:"gemini_base_url"`
	GeminiModel       string `koanf:"gemini_model"`
	TimeoutSeconds    int    `koanf:"timeout_seconds"`
	RequestsPerMinute int    `koanf:"requests_per_minute"`
}

func (a AnalysisConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// RemoteReady reports whether both remote models can be called.
func (a AnalysisConfig) RemoteReady() bool {
	return a.Mode == AnalysisRemote && a.GrokAPIKey != "" && a.GeminiAPIKey != ""
}

// KnowledgeConfig tunes guidance retrieval. Vector retrieval is enabled only
// when an embeddings endpoint is set.
type KnowledgeConfig struct {
	TopK              int    `koanf:"top_k"`
	EmbeddingsBaseURL string `koanf:"embeddings_base_url"`
	EmbeddingsModel   string `koanf:"embeddings_model"`
	EmbeddingsAPIKey  string `koanf:"embeddings_api_key"`
}

type TelegramConfig struct {
	BotToken     string `koanf:"bot_token"`
	DoctorChatID int64  `koanf:"doctor_chat_id"`
	APIBaseURL   string `koanf:"api_base_url"`
}

// Enabled reports whether doctor notifications can be delivered.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.DoctorChatID != 0
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = logging.DefaultConfig().Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = logging.DefaultConfig().Format
	}

	if cfg.Analysis.Mode == "" {
		cfg.Analysis.Mode = AnalysisLocal
	}
	if cfg.Analysis.GrokBaseURL == "" {
		cfg.Analysis.GrokBaseURL = "https://api.x.ai/v1"
	}
	if cfg.Analysis.GrokModel == "" {
		cfg.Analysis.GrokModel = "grok-2-1212"
	}
	if cfg.Analysis.GeminiBaseURL == "" {
		cfg.Analysis.GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Analysis.GeminiModel == "" {
		cfg.Analysis.GeminiModel = "gemini-pro"
	}
	if cfg.Analysis.TimeoutSeconds == 0 {
		cfg.Analysis.TimeoutSeconds = 30
	}
	if cfg.Analysis.RequestsPerMinute == 0 {
		cfg.Analysis.RequestsPerMinute = 30
	}

	if cfg.Knowledge.TopK == 0 {
		cfg.Knowledge.TopK = 3
	}
	if cfg.Knowledge.EmbeddingsModel == "" {
		cfg.Knowledge.EmbeddingsModel = "text-embedding-3-small"
	}

	if cfg.Telegram.APIBaseURL == "" {
		cfg.Telegram.APIBaseURL = "https://api.telegram.org"
	}
}

// Validate checks the loaded configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout_seconds must not be negative"))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	switch c.Analysis.Mode {
	case AnalysisLocal, AnalysisRemote:
	default:
		errs = append(errs, fmt.Errorf("analysis.mode must be %q or %q, got %q", AnalysisLocal, AnalysisRemote, c.Analysis.Mode))
	}
	if c.Analysis.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("analysis.timeout_seconds must be positive"))
	}
	if c.Analysis.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("analysis.requests_per_minute must be positive"))
	}
	if c.Knowledge.TopK <= 0 {
		errs = append(errs, fmt.Errorf("knowledge.top_k must be positive, got %d", c.Knowledge.TopK))
	}

	return errors.Join(errs...)
}
