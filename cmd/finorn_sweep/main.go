// Command finorn_sweep runs one contract expiry sweep and exits. It is meant for schedulers that
// start a process rather than call the HTTP trigger.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/finorn_backend/internal/core/services"
	"github.com/SscSPs/finorn_backend/internal/platform/bootstrap"
	"github.com/SscSPs/finorn_backend/internal/platform/config"
	"github.com/SscSPs/finorn_backend/internal/platform/links"
	"github.com/SscSPs/finorn_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/finorn_backend/pkg/database"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return 1
	}
	logger := bootstrap.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return 1
	}
	defer database.ClosePgxPool(dbPool)

	adapters, err := bootstrap.NewAdapters(ctx, cfg, links.NewBuilder(cfg.ClientOrigin, cfg.AppURL), logger)
	if err != nil {
		logger.Error("Failed to initialize adapters", slog.String("error", err.Error()))
		return 1
	}
	defer adapters.Close()

	container := services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(dbPool), adapters.Collaborators)

	result, err := container.Sweep.RunSweep(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("Contract sweep failed", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("Contract sweep finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("notifications_sent", result.NotificationsSent),
		slog.Int("renewed", result.Renewed),
		slog.Int("expired", result.Expired),
		slog.Int64("invoices_marked_overdue", result.InvoicesMarkedOverdue),
		slog.Bool("skipped", result.Skipped),
		slog.Int("errors", len(result.Errors)))
	if len(result.Errors) > 0 {
		return 1
	}
	return 0
}
