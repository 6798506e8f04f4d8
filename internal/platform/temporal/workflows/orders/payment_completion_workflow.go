package orders

import (
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/platform/temporal/sequences"
)

const (
	// PaymentCompletionWorkflowName is the public identifier for registering the workflow.
	PaymentCompletionWorkflowName = "orders.workflows.PaymentCompletion"
	// PaymentCompletionTaskQueue is the queue consumed by the worker processing order payments.
	PaymentCompletionTaskQueue = "ORDER_PAYMENT_COMPLETION"
)

// PaymentCompletionWorkflowInput carries the payment command plus the caller's trace id.
type PaymentCompletionWorkflowInput struct {
	Command orderstypes.PaymentInput
	TraceID string
}

// PaymentCompletionWorkflow collects the outstanding balance and hands the order off.
func PaymentCompletionWorkflow(ctx workflow.Context, input PaymentCompletionWorkflowInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.Order.ID
	logger.Info("PaymentCompletionWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	order, err := sequences.RunOrderPaymentSequence(ctx, input.Command)
	if err != nil {
		logger.Error("PaymentCompletionWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("PaymentCompletionWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID, "status", string(order.Status))...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
