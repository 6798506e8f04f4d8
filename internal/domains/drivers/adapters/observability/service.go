package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
	"github.com/freshfold/laundry-api/internal/domains/drivers/ports"
)

const tracerName = "github.com/freshfold/laundry-api/internal/domains/drivers/adapters/observability/service"

// Service decorates the driver registry with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	lookups metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.lookups, _ = m.Int64Counter("drivers.registry.lookups", metric.WithDescription("Number of driver registry reads"))
	}
}

// New wraps the core driver registry.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Register(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	var id string
	if driver != nil {
		id = driver.ID
	}
	ctx, span := s.tracer.Start(ctx, "DriverService.Register", trace.WithAttributes(attribute.String("driver.id", id)))
	defer span.End()

	s.logInfo(ctx, "registering driver", slog.String("driver.id", id))
	result, err := s.inner.Register(ctx, driver)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register driver", slog.String("driver.id", id))
	}
	s.logInfo(ctx, "driver registered", slog.String("driver.id", result.ID), slog.String("driver.status", string(result.Status)))
	return result, nil
}

func (s *Service) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.GetDriver", trace.WithAttributes(attribute.String("driver.id", id)))
	defer span.End()

	s.recordLookup(ctx, "get")
	result, err := s.inner.GetDriver(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load driver", slog.String("driver.id", id))
	}
	return result, nil
}

func (s *Service) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.ListDrivers")
	defer span.End()

	s.recordLookup(ctx, "list")
	result, err := s.inner.ListDrivers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list drivers")
	}
	span.SetAttributes(attribute.Int("driver.count", len(result)))
	return result, nil
}

func (s *Service) Candidates(ctx context.Context) ([]*domain.Driver, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.Candidates")
	defer span.End()

	s.recordLookup(ctx, "candidates")
	result, err := s.inner.Candidates(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rank drivers")
	}
	span.SetAttributes(attribute.Int("driver.count", len(result)))
	return result, nil
}

func (s *Service) ResetDailyCounters(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "DriverService.ResetDailyCounters")
	defer span.End()

	changed, err := s.inner.ResetDailyCounters(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to reset driver counters")
	}
	span.SetAttributes(attribute.Int64("driver.reset", changed))
	s.logInfo(ctx, "driver counters reset", slog.Int64("driver.reset", changed))
	return changed, nil
}

func (s *Service) recordLookup(ctx context.Context, kind string) {
	if s.lookups != nil {
		s.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("lookup", kind)))
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
