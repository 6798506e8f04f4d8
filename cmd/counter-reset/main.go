package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	driverspostgres "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/persistence/postgres"
	driversapp "github.com/freshfold/laundry-api/internal/domains/drivers/application"
	platformobservability "github.com/freshfold/laundry-api/internal/platform/observability"
	platformpostgres "github.com/freshfold/laundry-api/internal/platform/postgres"
)

var errNoDatabase = errors.New("POSTGRES_DSN not set or connection failed")

type connectFunc func(ctx context.Context, logger *slog.Logger) (*gorm.DB, func())

func main() {
	settings, settingsErr := platformobservability.LoadSettings("laundry-counter-reset")
	logger := platformobservability.NewLogger(os.Stdout, settings)
	if settingsErr != nil {
		logger.Warn("invalid telemetry settings, using defaults", slog.String("error", settingsErr.Error()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := run(ctx, logger, platformpostgres.ConnectFromEnv)
	cancel()
	if err != nil {
		logger.Error("driver counter reset failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run starts a new working day for every driver. The connection is released
// before run returns, whatever the outcome.
func run(ctx context.Context, logger *slog.Logger, connect connectFunc) error {
	db, cleanup := connect(ctx, logger)
	defer cleanup()
	if db == nil {
		return errNoDatabase
	}
	changed, err := driversapp.NewService(driverspostgres.NewRepository(db)).ResetDailyCounters(ctx)
	if err != nil {
		return fmt.Errorf("reset driver counters: %w", err)
	}
	logger.Info("driver counter reset completed", slog.Int64("drivers", changed))
	return nil
}
