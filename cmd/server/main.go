package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"healthmate/internal/agent"
	"healthmate/internal/config"
	"healthmate/internal/consultation"
	"healthmate/internal/knowledge"
	"healthmate/internal/logging"
	"healthmate/internal/platform/telegram"
	"healthmate/internal/report"
)

const dbConnectAttempts = 10

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults to $"+config.PathEnv+")")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "healthmate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logging.Sync(logger) }()

	// 1. Infrastructure
	repo := consultation.Repository(consultation.NopRepository{})
	if cfg.Database.URL != "" {
		db, err := connectDB(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Warn("database unavailable, triage records will not be archived", zap.Error(err))
		} else {
			defer db.Close()
			if err := runMigrations(cfg.Database); err != nil {
				logger.Warn("migrations failed", zap.Error(err))
			} else {
				logger.Info("migrations applied")
			}
			repo = consultation.NewRepository(db)
		}
	}

	// 2. Collaborators
	kb, err := newKnowledge(ctx, cfg.Knowledge, logger)
	if err != nil {
		return err
	}

	analyst := agent.New(cfg.Analysis, logger.Named("agent"))
	renderer := report.NewRenderer()

	var notifier consultation.DoctorNotifier
	if cfg.Telegram.Enabled() {
		tg := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIBaseURL)
		notifier = report.NewService(tg, cfg.Telegram.DoctorChatID, renderer, logger.Named("report"))
	} else {
		logger.Warn("telegram bot token or doctor chat id not set, doctor reports are disabled")
	}

	// 3. Services
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := consultation.NewService(consultation.Deps{
		Store:     consultation.NewStore(),
		Repo:      repo,
		Analyst:   analyst,
		Knowledge: kb,
		Notifier:  notifier,
		Renderer:  renderer,
		Metrics:   consultation.NewMetrics(reg),
		Logger:    logger.Named("consultation"),
	})
	handler := consultation.NewHandler(svc, logger.Named("http"))

	// 4. Router
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newRouter(handler, reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	svc.Wait()
	logger.Info("server stopped")
	return nil
}

func connectDB(ctx context.Context, url string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	for i := 1; i <= dbConnectAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Info("connected to database")
			return db, nil
		}
		logger.Info("waiting for database", zap.Int("attempt", i), zap.Int("max_attempts", dbConnectAttempts))
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	db.Close()
	return nil, fmt.Errorf("could not connect to database: %w", err)
}

func runMigrations(cfg config.DatabaseConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.URL)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// newKnowledge prefers vector retrieval when an embeddings endpoint is
// configured. Indexing failures leave keyword retrieval in place.
func newKnowledge(ctx context.Context, cfg config.KnowledgeConfig, logger *zap.Logger) (*knowledge.Service, error) {
	docs := knowledge.Catalog()
	var primary knowledge.Retriever

	if cfg.EmbeddingsBaseURL != "" {
		embedder, err := knowledge.NewOpenAIEmbedder(cfg.EmbeddingsBaseURL, cfg.EmbeddingsModel, cfg.EmbeddingsAPIKey)
		if err == nil {
			var vr *knowledge.VectorRetriever
			vr, err = knowledge.NewVectorRetriever(ctx, embedder, docs)
			if err == nil {
				primary = vr
			}
		}
		if err != nil {
			logger.Warn("vector index unavailable, using keyword retrieval", zap.Error(err))
		} else {
			logger.Info("vector index built", zap.Int("documents", len(docs)))
		}
	}

	return knowledge.NewService(docs, primary, cfg.TopK, logger.Named("knowledge"))
}
