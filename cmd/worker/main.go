package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/freshfold/laundry-api/internal/app/api"
	platformobservability "github.com/freshfold/laundry-api/internal/platform/observability"
	orderactivities "github.com/freshfold/laundry-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/freshfold/laundry-api/internal/platform/temporal/workflows/orders"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("Temporal worker failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run serves the payment-completion task queue until interrupted. Deferred
// cleanups always run before it returns.
func run(ctx context.Context) error {
	const serviceName = "laundry-worker"
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

	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	stores, cleanupStores := api.BuildStores(ctx, cfg, logger)
	defer cleanupStores()
	if !stores.Durable {
		return errors.New("worker needs postgres: payments collected on in-memory stores never reach the API")
	}
	publisher, cleanupPublisher := api.BuildPublisher(cfg, logger)
	defer cleanupPublisher()
	services := api.BuildServices(cfg, stores, publisher, instruments)
	paymentActivities := orderactivities.NewActivities(services.Orders)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return fmt.Errorf("failed to configure Temporal tracing interceptor: %w", err)
	}
	clientOptions := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.PaymentCompletionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.PaymentCompletionWorkflow, workflow.RegisterOptions{Name: orderworkflows.PaymentCompletionWorkflowName})
	w.RegisterActivityWithOptions(paymentActivities.CollectPaymentAndComplete, activity.RegisterOptions{Name: orderactivities.CollectPaymentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.PaymentCompletionTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("temporal worker exited: %w", err)
	}
	logger.Info("Temporal worker stopped")
	return nil
}
