package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	laundryserver "github.com/freshfold/laundry-api/go"

	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
	ordersworkflows "github.com/freshfold/laundry-api/internal/domains/orders/adapters/workflows"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
	platformobservability "github.com/freshfold/laundry-api/internal/platform/observability"
)

// Run boots the laundry HTTP API with observability, stores, events, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "laundry-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	stores, cleanupStores := BuildStores(ctx, cfg, logger)
	defer cleanupStores()
	publisher, cleanupPublisher := BuildPublisher(cfg, logger)
	defer cleanupPublisher()
	services := BuildServices(cfg, stores, publisher, instruments)

	orderWorkflows, closeWorkflows := BuildOrderWorkflows(cfg, stores, services, instruments)
	defer closeWorkflows()

	if cfg.CounterResetIntervalMinutes > 0 {
		resetCtx, stopReset := context.WithCancel(ctx)
		defer stopReset()
		go runCounterReset(resetCtx, services.Drivers, time.Duration(cfg.CounterResetIntervalMinutes)*time.Minute, logger)
	}

	router := NewRouter(serviceName, services, orderWorkflows, instruments.TracerProvider)
	addr := cfg.Addr()
	logger.Info("Laundry API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("Laundry API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// BuildOrderWorkflows runs payment collection through Temporal when the
// stores are durable and a client connects. Temporal activities write to
// Postgres, so in-memory stores always collect inline.
func BuildOrderWorkflows(cfg Config, stores Stores, services Services, instruments *platformobservability.Instruments) (ordersports.WorkflowOrchestrator, func()) {
	logger := effectiveLogger(instruments)
	inline := ordersworkflows.NewInlineOrderWorkflows(services.Orders)
	if !stores.Durable {
		logger.Warn("in-memory stores in use, collecting payments inline")
		return inline, func() {}
	}
	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, collecting payments inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return ordersworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

// NewRouter builds the HTTP engine with request tracing installed ahead of
// the API routes.
func NewRouter(serviceName string, services Services, workflows ordersports.WorkflowOrchestrator, tracerProvider trace.TracerProvider) *gin.Engine {
	var options []otelgin.Option
	if tracerProvider != nil {
		options = append(options, otelgin.WithTracerProvider(tracerProvider))
	}
	handlers := laundryserver.ApiHandleFunctions{
		OrderAPI:  laundryserver.NewOrderAPI(services.Orders, workflows),
		TaskAPI:   laundryserver.NewTaskAPI(services.Orders),
		DriverAPI: laundryserver.NewDriverAPI(services.Drivers),
		LedgerAPI: laundryserver.NewLedgerAPI(services.Ledger),
		FlowAPI:   laundryserver.NewFlowAPI(services.Orders),
	}
	return laundryserver.NewRouter(handlers, otelgin.Middleware(serviceName, options...))
}

// runCounterReset starts a new working day for drivers on every tick until ctx ends.
func runCounterReset(ctx context.Context, drivers driverports.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := drivers.ResetDailyCounters(ctx); err != nil {
				logger.Warn("driver counter reset failed", slog.String("error", err.Error()))
			}
		}
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
