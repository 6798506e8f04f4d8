package application

import (
	"errors"
	"fmt"

	ledgerports "github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
	driverdomain "github.com/freshfold/laundry-api/internal/domains/drivers/domain"
	driverports "github.com/freshfold/laundry-api/internal/domains/drivers/ports"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrInvalidTransition signals the requested move is not legal from the current state.
	ErrInvalidTransition = errors.New("invalid order transition")
	// ErrPaymentRequired directs callers to CollectPaymentAndComplete.
	ErrPaymentRequired = domain.ErrPaymentRequired
	// ErrDriverUnavailable is returned when assigning an offline driver.
	ErrDriverUnavailable = errors.New("driver unavailable for assignment")
	// ErrPersistence wraps store failures; the operation left no partial state and may be retried.
	ErrPersistence = errors.New("order persistence failed")
)

// Reason codes attached to invalid transitions.
type Reason string

const (
	ReasonNoNextStep            Reason = "no_next_step"
	ReasonNoPreviousStep        Reason = "no_previous_step"
	ReasonHandoffStep           Reason = "handoff_requires_dedicated_operation"
	ReasonAwaitingPickup        Reason = "awaiting_pickup"
	ReasonNotReady              Reason = "order_not_ready"
	ReasonDeliveryRequired      Reason = "delivery_required"
	ReasonNoPickup              Reason = "order_has_no_pickup"
	ReasonNoDelivery            Reason = "order_has_no_delivery"
	ReasonTaskNotPending        Reason = "task_not_pending"
	ReasonTaskNotUnderway       Reason = "task_not_underway"
	ReasonNoDriver              Reason = "task_has_no_driver"
	ReasonDriverAlreadyAssigned Reason = "task_already_assigned"
	ReasonDeliveryIncomplete    Reason = "delivery_incomplete"
)

// TransitionError reports a refused transition; the order was not touched.
type TransitionError struct {
	Reason Reason
	Status domain.StepKey
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s (status %s)", ErrInvalidTransition, e.Reason, e.Status)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func refuse(reason Reason, order *domain.Order) error {
	return &TransitionError{Reason: reason, Status: order.Status}
}

// legError turns a sub-workflow domain error into a transition refusal.
func legError(err error, order *domain.Order) error {
	switch {
	case errors.Is(err, domain.ErrLegNotPending):
		return refuse(ReasonTaskNotPending, order)
	case errors.Is(err, domain.ErrLegNotUnderway):
		return refuse(ReasonTaskNotUnderway, order)
	case errors.Is(err, domain.ErrNoDriverAssigned):
		return refuse(ReasonNoDriver, order)
	case errors.Is(err, domain.ErrDriverAlreadyAssigned):
		return refuse(ReasonDriverAlreadyAssigned, order)
	case errors.Is(err, domain.ErrDeliveryIncomplete):
		return refuse(ReasonDeliveryIncomplete, order)
	default:
		return mapError(err)
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var transition *TransitionError
	if errors.As(err, &transition) {
		return err
	}
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrPaymentRequired),
		errors.Is(err, ErrDriverUnavailable),
		errors.Is(err, ErrPersistence),
		errors.Is(err, ports.ErrNotFound),
		errors.Is(err, ports.ErrVersionConflict),
		errors.Is(err, driverports.ErrNotFound):
		return err
	case errors.Is(err, driverdomain.ErrOffline):
		return fmt.Errorf("%w: %w", ErrDriverUnavailable, err)
	case errors.Is(err, domain.ErrEmptyCustomer),
		errors.Is(err, domain.ErrNoItems),
		errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientPayment),
		errors.Is(err, domain.ErrUnknownStep),
		errors.Is(err, domain.ErrDuplicateStep),
		errors.Is(err, domain.ErrStepOutOfPlace),
		errors.Is(err, domain.ErrUnknownTaskKind),
		errors.Is(err, domain.ErrEmptyDriver):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ledgerports.ErrIdempotencyConflict):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
}
