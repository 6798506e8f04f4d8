package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

const tracerName = "github.com/freshfold/laundry-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order lifecycle with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
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
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order lifecycle service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
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

func (s *Service) CreateOrder(ctx context.Context, input orderstypes.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.items", len(input.Items)), attribute.Bool("order.pickup", input.Pickup != nil), attribute.Bool("order.delivery", input.Delivery != nil)))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int("order.items", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	span.SetAttributes(attribute.String("order.id", result.ID), attribute.String("order.ticket", result.TicketCode))
	s.metrics.recordTransition(ctx, "create", result.Status)
	s.logInfo(ctx, "order created", orderAttrs(result)...)
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, input orderstypes.ListOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(attribute.StringSlice("order.statuses", input.Statuses)))
	defer span.End()

	result, err := s.inner.ListOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) Advance(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error) {
	return s.transition(ctx, "advance", ref, s.inner.Advance)
}

func (s *Service) Regress(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error) {
	return s.transition(ctx, "regress", ref, s.inner.Regress)
}

func (s *Service) MarkHandedOffAtStore(ctx context.Context, ref orderstypes.OrderRef) (*domain.Order, error) {
	return s.transition(ctx, "handoff", ref, s.inner.MarkHandedOffAtStore)
}

func (s *Service) CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CollectPaymentAndComplete",
		trace.WithAttributes(attribute.String("order.id", input.Order.ID), attribute.String("payment.amount", input.Amount.String())))
	defer span.End()

	s.logInfo(ctx, "collecting payment", slog.String("order.id", input.Order.ID), slog.String("payment.amount", input.Amount.String()))
	result, err := s.inner.CollectPaymentAndComplete(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to collect payment", slog.String("order.id", input.Order.ID))
	}
	s.metrics.recordPayment(ctx, input.Method)
	s.metrics.recordTransition(ctx, "collect", result.Status)
	s.logInfo(ctx, "payment collected", orderAttrs(result)...)
	return result, nil
}

func (s *Service) AssignDriver(ctx context.Context, input orderstypes.AssignDriverInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.AssignDriver", trace.WithAttributes(taskAttributes(input.Task)...))
	defer span.End()
	span.SetAttributes(attribute.String("driver.id", input.DriverID))

	s.logInfo(ctx, "assigning driver", slog.String("order.id", input.Task.OrderID), slog.String("task.kind", string(input.Task.Kind)), slog.String("driver.id", input.DriverID))
	result, err := s.inner.AssignDriver(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to assign driver", slog.String("order.id", input.Task.OrderID), slog.String("driver.id", input.DriverID))
	}
	s.metrics.recordTask(ctx, "assign", input.Task.Kind)
	return result, nil
}

func (s *Service) StartTask(ctx context.Context, ref orderstypes.TaskRef) (*domain.Order, error) {
	return s.task(ctx, "start", ref, s.inner.StartTask)
}

func (s *Service) CompleteTask(ctx context.Context, ref orderstypes.TaskRef) (*domain.Order, error) {
	return s.task(ctx, "complete", ref, s.inner.CompleteTask)
}

func (s *Service) ListTasks(ctx context.Context, input orderstypes.ListTasksInput) ([]domain.Task, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListTasks",
		trace.WithAttributes(attribute.String("task.kind", input.Kind), attribute.String("driver.id", input.DriverID)))
	defer span.End()

	result, err := s.inner.ListTasks(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list tasks")
	}
	span.SetAttributes(attribute.Int("task.count", len(result)))
	return result, nil
}

func (s *Service) FlowSteps(ctx context.Context) ([]domain.Step, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FlowSteps")
	defer span.End()

	result, err := s.inner.FlowSteps(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to read flow")
	}
	return result, nil
}

func (s *Service) ReplaceFlow(ctx context.Context, steps []domain.Step) ([]domain.Step, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ReplaceFlow", trace.WithAttributes(attribute.Int("flow.steps", len(steps))))
	defer span.End()

	s.logInfo(ctx, "replacing flow", slog.Int("flow.steps", len(steps)))
	result, err := s.inner.ReplaceFlow(ctx, steps)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to replace flow")
	}
	s.logInfo(ctx, "flow replaced", slog.Int("flow.steps", len(result)))
	return result, nil
}

func (s *Service) transition(ctx context.Context, action string, ref orderstypes.OrderRef, call func(context.Context, orderstypes.OrderRef) (*domain.Order, error)) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService."+action,
		trace.WithAttributes(attribute.String("order.id", ref.ID), attribute.Int64("order.version", ref.Version)))
	defer span.End()

	result, err := call(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order "+action+" refused", slog.String("order.id", ref.ID))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)))
	s.metrics.recordTransition(ctx, action, result.Status)
	s.logInfo(ctx, "order "+action, orderAttrs(result)...)
	return result, nil
}

func (s *Service) task(ctx context.Context, action string, ref orderstypes.TaskRef, call func(context.Context, orderstypes.TaskRef) (*domain.Order, error)) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Task."+action, trace.WithAttributes(taskAttributes(ref)...))
	defer span.End()

	result, err := call(ctx, ref)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "task "+action+" refused", slog.String("order.id", ref.OrderID), slog.String("task.kind", string(ref.Kind)))
	}
	s.metrics.recordTask(ctx, action, ref.Kind)
	s.logInfo(ctx, "task "+action, append(orderAttrs(result), slog.String("task.kind", string(ref.Kind)))...)
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func orderAttrs(order *domain.Order) []slog.Attr {
	return []slog.Attr{
		slog.String("order.id", order.ID),
		slog.String("order.ticket", order.TicketCode),
		slog.String("order.status", string(order.Status)),
		slog.Int64("order.version", order.Version),
	}
}

func taskAttributes(ref orderstypes.TaskRef) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("order.id", ref.OrderID),
		attribute.String("task.kind", string(ref.Kind)),
	}
}

type serviceMetrics struct {
	transitions metric.Int64Counter
	payments    metric.Int64Counter
	tasks       metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("orders.lifecycle.transitions", metric.WithDescription("Number of order status transitions"))
	payments, _ := m.Int64Counter("orders.lifecycle.payments", metric.WithDescription("Number of collected order payments"))
	tasks, _ := m.Int64Counter("orders.lifecycle.tasks", metric.WithDescription("Number of driver task actions"))
	return serviceMetrics{transitions: transitions, payments: payments, tasks: tasks}
}

func (m serviceMetrics) recordTransition(ctx context.Context, action string, status domain.StepKey) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action), attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordPayment(ctx context.Context, method string) {
	if m.payments != nil {
		m.payments.Add(ctx, 1, metric.WithAttributes(attribute.String("payment.method", method)))
	}
}

func (m serviceMetrics) recordTask(ctx context.Context, action string, kind domain.TaskKind) {
	if m.tasks != nil {
		m.tasks.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action), attribute.String("task.kind", string(kind))))
	}
}

var _ ports.Service = (*Service)(nil)
