package types

import (
	"github.com/shopspring/decimal"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// OrderRef points at an order. A non-zero Version makes the call fail when
// the stored order moved on since the caller read it.
type OrderRef struct {
	ID      string
	Version int64
}

// TaskRef points at the pickup or delivery sub-workflow of an order.
type TaskRef struct {
	OrderID string
	Kind    domain.TaskKind
	Version int64
}

// Order returns the order part of the reference.
func (r TaskRef) Order() OrderRef {
	return OrderRef{ID: r.OrderID, Version: r.Version}
}

// CustomerInput identifies who brought the laundry.
type CustomerInput struct {
	ID      string
	Name    string
	Phone   string
	Address string
}

// ItemInput is one requested line item.
type ItemInput struct {
	Name      string
	Unit      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Extras    []string
}

// LegInput requests a pickup or delivery trip.
type LegInput struct {
	Slot    string
	Address string
}

// CreateOrderInput carries the intake form. Fees and discount are folded
// into the total once, at creation.
type CreateOrderInput struct {
	Customer    CustomerInput
	Items       []ItemInput
	Pickup      *LegInput
	Delivery    *LegInput
	PickupFee   decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Deposit     decimal.Decimal
	Method      string
}

// ListOrdersInput filters order listings by status.
type ListOrdersInput struct {
	Statuses []string
}

// ListTasksInput filters projected tasks.
type ListTasksInput struct {
	Kind     string
	DriverID string
	OpenOnly bool
}

// PaymentInput collects the outstanding balance and hands the order off.
type PaymentInput struct {
	Order  OrderRef
	Amount decimal.Decimal
	Method string
}

// AssignDriverInput binds a driver to a task.
type AssignDriverInput struct {
	Task     TaskRef
	DriverID string
}
