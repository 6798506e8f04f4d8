package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/freshfold/laundry-api/internal/clients/http/notifier"
	ledgermemory "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/memory"
	ledgerpostgres "github.com/freshfold/laundry-api/internal/domains/cashledger/adapters/persistence/postgres"
	ledgerapp "github.com/freshfold/laundry-api/internal/domains/cashledger/application"
	ledgerports "github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
	driversmemory "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/memory"
	driversobs "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/observability"
	driverspostgres "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/persistence/postgres"
	driversapp "github.com/freshfold/laundry-api/internal/domains/drivers/application"
	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
	"github.com/freshfold/laundry-api/internal/domains/orders/adapters/events"
	ordersmemory "github.com/freshfold/laundry-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/freshfold/laundry-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/freshfold/laundry-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/freshfold/laundry-api/internal/domains/orders/application"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
	"github.com/freshfold/laundry-api/internal/platform/migrations"
	platformobservability "github.com/freshfold/laundry-api/internal/platform/observability"
	platformpostgres "github.com/freshfold/laundry-api/internal/platform/postgres"
)

// Stores groups the persistence adapters every service is built from.
type Stores struct {
	Orders  ordersports.Repository
	Flow    ordersports.FlowStore
	UoW     ordersports.UnitOfWork
	Drivers driverports.Repository
	Ledger  ledgerports.Repository
	// Durable is set when the stores are shared with other processes.
	Durable bool
}

// Services is the wired application layer handed to transports.
type Services struct {
	Orders  ordersports.Service
	Drivers driverports.Service
	Ledger  ledgerports.Service
}

// BuildStores returns Postgres-backed stores when a DSN is configured and
// reachable, and in-memory stores otherwise.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (Stores, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return memoryStores(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return memoryStores(), func() {}
	}
	logger.Info("stores configured with postgres")
	return postgresStores(db), func() { _ = sqlDB.Close() }
}

func memoryStores() Stores {
	orders := ordersmemory.NewRepository()
	drivers := driversmemory.NewRepository()
	ledger := ledgermemory.NewRepository()
	return Stores{
		Orders:  orders,
		Flow:    ordersmemory.NewFlowStore(),
		UoW:     ordersmemory.NewUnitOfWork(orders, drivers, ledger),
		Drivers: drivers,
		Ledger:  ledger,
	}
}

func postgresStores(db *gorm.DB) Stores {
	return Stores{
		Orders:  orderspostgres.NewRepository(db),
		Flow:    orderspostgres.NewFlowStore(db),
		UoW:     orderspostgres.NewUnitOfWork(db),
		Drivers: driverspostgres.NewRepository(db),
		Ledger:  ledgerpostgres.NewRepository(db),
		Durable: true,
	}
}

// BuildPublisher fans lifecycle events out to Kafka and the notification
// partner when they are configured. The returned cleanup flushes the writer.
func BuildPublisher(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	var fanout events.FanOut
	cleanup := func() {}
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Warn("kafka publisher unavailable", slog.String("error", err.Error()))
		} else {
			fanout = append(fanout, publisher)
			cleanup = func() {
				if err := publisher.Close(); err != nil {
					logger.Warn("failed to close kafka publisher", slog.String("error", err.Error()))
				}
			}
			logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaTopic))
		}
	}
	if cfg.NotifierBaseURL != "" {
		client, err := notifier.NewClient(cfg.NotifierBaseURL, &http.Client{Timeout: 10 * time.Second})
		if err != nil {
			logger.Warn("notifier client unavailable", slog.String("error", err.Error()))
		} else {
			fanout = append(fanout, events.NewNotifierPublisher(client))
			logger.Info("customer notifications enabled", slog.String("baseURL", cfg.NotifierBaseURL))
		}
	}
	if len(fanout) == 0 {
		return ordersports.NoopPublisher, cleanup
	}
	return fanout, cleanup
}

// BuildServices wires the application services over the given stores and
// decorates them with tracing, logging, and metrics.
func BuildServices(cfg Config, stores Stores, publisher ordersports.EventPublisher, instruments *platformobservability.Instruments) Services {
	logger := instruments.Logger
	coreOrders := ordersapp.NewService(
		stores.Orders,
		stores.UoW,
		stores.Flow,
		ordersapp.WithPublisher(publisher),
		ordersapp.WithReassignPolicy(domain.ParseReassignPolicy(cfg.ReassignPolicy)),
		ordersapp.WithLogger(logger),
	)
	return Services{
		Orders: ordersobs.New(
			coreOrders,
			ordersobs.WithLogger(logger),
			ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
			ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
		Drivers: driversobs.New(
			driversapp.NewService(stores.Drivers),
			driversobs.WithLogger(logger),
			driversobs.WithTracer(instruments.Tracer("internal.drivers.application")),
			driversobs.WithMeter(instruments.Meter("internal.drivers.application")),
		),
		Ledger: ledgerapp.NewService(stores.Ledger),
	}
}
