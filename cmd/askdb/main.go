package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/cli"
	"github.com/askdb/askdb/internal/completion"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/observability"
	"github.com/askdb/askdb/internal/safety"
	"github.com/askdb/askdb/internal/store"
)

func main() {
	cfg, err := config.LoadFromEnv("askdb")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, store.Config{
		Driver:          cfg.Store.Driver,
		Path:            cfg.Store.Path,
		DSN:             cfg.Store.DSN,
		Table:           cfg.Chat.DefaultTable,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxIdleTime: cfg.Store.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	seeded, err := db.Seed(ctx)
	if err != nil {
		logger.Error("failed to seed store", slog.Any("error", err))
		os.Exit(1)
	}
	if seeded {
		logger.Info("seeded store with sample signups", slog.String("driver", cfg.Store.Driver))
	}

	client, err := completion.NewOpenAIClient(completion.OpenAIConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}

	conversation := agent.New(db, client, safety.NewValidator(cfg.Chat.AllowedTables), logger, agent.Config{
		MemoryContextTurns: cfg.Chat.MemoryContextTurns,
		DirectContextTurns: cfg.Chat.DirectContextTurns,
		SampleRows:         cfg.Chat.SampleRows,
		AnswerRowLimit:     cfg.Chat.AnswerRowLimit,
		DefaultTable:       cfg.Chat.DefaultTable,
	})

	var metricsServer *http.Server
	if cfg.Observability.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{Addr: cfg.Observability.MetricsAddr, Handler: mux}
		go func() {
			logger.Info("starting metrics server", slog.String("addr", cfg.Observability.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", slog.Any("error", err))
			}
		}()
	}

	code := cli.Run(ctx, cli.Options{
		Conversation: conversation,
		HistoryFile:  cfg.Chat.HistoryFile,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	})

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		}
	}

	os.Exit(code)
}
