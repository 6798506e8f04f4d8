package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	orderactivities "github.com/freshfold/laundry-api/internal/platform/temporal/activities/orders"
)

// RunOrderPaymentSequence executes the payment-and-complete activity. The
// activity is idempotent per order, so every retry is safe.
func RunOrderPaymentSequence(ctx workflow.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Order.ID
	logger.Info("order payment sequence started", "orderId", orderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.ErrTypeInvalidInput,
				orderactivities.ErrTypeInvalidTransition,
				orderactivities.ErrTypePaymentRequired,
				orderactivities.ErrTypeNotFound,
				orderactivities.ErrTypeVersionConflict,
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var order domain.Order
	err := workflow.ExecuteActivity(ctx, orderactivities.CollectPaymentActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order payment sequence failed", "orderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("order payment sequence completed", "orderId", order.ID, "status", string(order.Status))
	return &order, nil
}
