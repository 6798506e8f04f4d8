package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/freshfold/laundry-api/internal/domains/orders/application"
	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	ordersports "github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

const (
	// CollectPaymentActivityName settles the balance and hands the order off in one unit of work.
	CollectPaymentActivityName = "orders.activities.CollectPaymentAndComplete"
)

// Application error types carried across the workflow boundary. Every type
// listed here is non-retryable; anything else is retried by the sequence.
const (
	ErrTypeInvalidInput      = "InvalidInput"
	ErrTypeInvalidTransition = "InvalidTransition"
	ErrTypePaymentRequired   = "PaymentRequired"
	ErrTypeNotFound          = "OrderNotFound"
	ErrTypeVersionConflict   = "VersionConflict"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order lifecycle service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// TransitionDetails travel with an InvalidTransition failure.
type TransitionDetails struct {
	Reason string
	Status domain.StepKey
}

// CollectPaymentAndComplete runs the compound payment operation. A retry after
// a successful attempt returns the current order and appends no ledger entry.
func (a *Activities) CollectPaymentAndComplete(ctx context.Context, input orderstypes.PaymentInput) (*domain.Order, error) {
	logger := activity.GetLogger(ctx)
	orderID := input.Order.ID
	if a == nil || a.service == nil {
		logger.Error("order payment activity not initialized", "orderId", orderID)
		return nil, errors.New("order payment activity not initialized")
	}
	logger.Info("CollectPaymentAndComplete activity started", "orderId", orderID, "amount", input.Amount.String())
	order, err := a.service.CollectPaymentAndComplete(ctx, input)
	if err != nil {
		logger.Error("CollectPaymentAndComplete activity failed", "orderId", orderID, "error", err)
		return nil, Classify(err)
	}
	logger.Info("CollectPaymentAndComplete activity completed", "orderId", order.ID, "status", string(order.Status))
	return order, nil
}

// Classify marks caller errors as non-retryable application errors so the
// workflow stops on them; store failures stay retryable.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var transition *ordersapp.TransitionError
	switch {
	case errors.As(err, &transition):
		details := TransitionDetails{Reason: string(transition.Reason), Status: transition.Status}
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidTransition, err, details)
	case errors.Is(err, ordersapp.ErrPaymentRequired):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypePaymentRequired, err)
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, ordersports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.Is(err, ordersports.ErrVersionConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeVersionConflict, err)
	default:
		return err
	}
}
