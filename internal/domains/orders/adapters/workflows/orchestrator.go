package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/freshfold/laundry-api/internal/domains/orders/application"
	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
	orderactivities "github.com/freshfold/laundry-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/freshfold/laundry-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.PaymentCompletionTaskQueue}
}

// CollectPaymentAndComplete runs the payment workflow and waits for its result.
// A second request for an order whose workflow is still running attaches to that run.
func (o *TemporalOrderWorkflows) CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	if input.Order.ID == "" {
		return nil, fmt.Errorf("%w: order id is required", ordersapp.ErrInvalidInput)
	}
	workflowID := PaymentWorkflowID(input.Order.ID)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.PaymentCompletionWorkflow,
		orderworkflows.PaymentCompletionWorkflowInput{Command: input, TraceID: workflowTraceComponent(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, FromWorkflowError(err)
	}
	return &order, nil
}

// PaymentWorkflowID is deterministic per order so concurrent requests share one run.
func PaymentWorkflowID(orderID string) string {
	return "order-payment-" + orderID
}

// FromWorkflowError restores the application error a workflow failed with.
func FromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return fmt.Errorf("%w: %w", ordersapp.ErrPersistence, err)
	}
	switch appErr.Type() {
	case orderactivities.ErrTypeInvalidTransition:
		var details orderactivities.TransitionDetails
		if appErr.HasDetails() && appErr.Details(&details) == nil {
			return &ordersapp.TransitionError{Reason: ordersapp.Reason(details.Reason), Status: details.Status}
		}
		return fmt.Errorf("%w: %s", ordersapp.ErrInvalidTransition, appErr.Message())
	case orderactivities.ErrTypePaymentRequired:
		return ordersapp.ErrPaymentRequired
	case orderactivities.ErrTypeInvalidInput:
		return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, appErr.Message())
	case orderactivities.ErrTypeNotFound:
		return ports.ErrNotFound
	case orderactivities.ErrTypeVersionConflict:
		return ports.ErrVersionConflict
	default:
		return fmt.Errorf("%w: %w", ordersapp.ErrPersistence, err)
	}
}

// InlineOrderWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// CollectPaymentAndComplete delegates to the application service without durable orchestration.
func (o *InlineOrderWorkflows) CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CollectPaymentAndComplete(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
