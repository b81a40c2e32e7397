package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	verification "brightmatter/contexts/campaign-escrow/verification-service"
	postgresadapter "brightmatter/contexts/campaign-escrow/verification-service/adapters/postgres"
	"brightmatter/contexts/campaign-escrow/verification-service/application/workers"
	"brightmatter/internal/platform/config"
	"brightmatter/internal/platform/db"
	"brightmatter/internal/platform/httpserver"
	"brightmatter/internal/platform/settlement"
	"brightmatter/internal/platform/socialmetrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	verifier     workers.DeadlineVerifier
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	module, pg, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	module, pg, err := buildModule(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres:     pg,
		verifier:     module.DeadlineVerifier,
		pollInterval: cfg.VerifyPollInterval,
		logger:       logger,
	}, nil
}

func buildModule(cfg config.Config, logger *slog.Logger) (verification.Module, *db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return verification.Module{}, nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return verification.Module{}, nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := verification.NewModule(verification.Dependencies{
		Campaigns:          repo,
		Participants:       repo,
		Submissions:        repo,
		Receipts:           repo,
		Settlement:         settlement.NewLedger(logger),
		Metrics:            socialmetrics.NewProvider(logger),
		Clock:              postgresadapter.SystemClock{},
		IDGenerator:        postgresadapter.UUIDGenerator{},
		SettlementTimeout:  cfg.SettlementTimeout,
		MaxLikesPerComment: cfg.MaxLikesPerComment,
		VerifyBatchSize:    cfg.VerifyBatchSize,
		Logger:             logger,
	})
	return module, pg, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.verifier.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
