package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnitType tells how a line item is priced.
type UnitType string

const (
	UnitPiece  UnitType = "piece"
	UnitWeight UnitType = "weight"
)

var (
	ErrEmptyCustomer       = errors.New("customer name and phone are required")
	ErrNoItems             = errors.New("order needs at least one item")
	ErrInvalidItem         = errors.New("line item is invalid")
	ErrInvalidQuantity     = errors.New("quantity does not match the unit granularity")
	ErrInvalidAmount       = errors.New("amount must not be negative")
	ErrInsufficientPayment = errors.New("collected amount does not cover the outstanding balance")
	ErrPaymentRequired     = errors.New("payment required before hand-off")
	ErrDeliveryIncomplete  = errors.New("delivery sub-workflow has not finished")
)

var (
	pieceStep  = decimal.NewFromInt(1)
	weightStep = decimal.NewFromFloat(0.5)
)

// Customer references the person who owns the order.
type Customer struct {
	ID      string
	Name    string
	Phone   string
	Address string
}

// LineItem is one priced entry of an order.
type LineItem struct {
	Name      string
	Unit      UnitType
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Extras    []string
}

// Validate checks the item against its unit granularity.
func (i LineItem) Validate() error {
	if strings.TrimSpace(i.Name) == "" || i.UnitPrice.IsNegative() {
		return ErrInvalidItem
	}
	var step decimal.Decimal
	switch i.Unit {
	case UnitPiece:
		step = pieceStep
	case UnitWeight:
		step = weightStep
	default:
		return ErrInvalidItem
	}
	if i.Quantity.LessThan(step) || !i.Quantity.Mod(step).IsZero() {
		return ErrInvalidQuantity
	}
	return nil
}

// Subtotal is quantity times unit price.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Order is the aggregate root of the fulfillment lifecycle.
// A nil Pickup or Delivery means that sub-workflow does not exist.
type Order struct {
	ID          string
	TicketCode  string
	Customer    Customer
	Items       []LineItem
	Status      StepKey
	Pickup      *PickupService
	Delivery    *DeliveryService
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	IsPaid      bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeliveredAt *time.Time
}

// NeedsPickup reports whether the order has a pickup sub-workflow.
func (o *Order) NeedsPickup() bool { return o.Pickup != nil }

// NeedsDelivery reports whether the order has a delivery sub-workflow.
func (o *Order) NeedsDelivery() bool { return o.Delivery != nil }

// Validate enforces the aggregate invariants that hold at any time.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.Customer.Name) == "" || strings.TrimSpace(o.Customer.Phone) == "" {
		return ErrEmptyCustomer
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if !IsKnownStep(o.Status) {
		return ErrUnknownStep
	}
	if o.TotalAmount.IsNegative() || o.PaidAmount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Outstanding is the unpaid part of the total, never negative.
func (o *Order) Outstanding() decimal.Decimal {
	rest := o.TotalAmount.Sub(o.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// RecordPayment adds amount to the paid balance.
func (o *Order) RecordPayment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	o.PaidAmount = o.PaidAmount.Add(amount)
	o.IsPaid = o.PaidAmount.GreaterThanOrEqual(o.TotalAmount)
	return nil
}

// SettleInFull marks the total as paid and returns the amount that was missing.
func (o *Order) SettleInFull() decimal.Decimal {
	shortfall := o.Outstanding()
	o.PaidAmount = o.TotalAmount
	o.IsPaid = true
	return shortfall
}

// MoveTo sets the main status. Hand-off to the customer requires payment
// and, for delivery orders, a finished delivery sub-workflow.
func (o *Order) MoveTo(status StepKey, at time.Time) error {
	if !IsKnownStep(status) {
		return ErrUnknownStep
	}
	if status == StepDelivered {
		if o.Delivery != nil && o.Delivery.Status != DeliveryDelivered {
			return ErrDeliveryIncomplete
		}
		if !o.IsPaid {
			return ErrPaymentRequired
		}
		delivered := at
		o.DeliveredAt = &delivered
	}
	o.Status = status
	o.UpdatedAt = at
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if len(o.Items) > 0 {
		clone.Items = make([]LineItem, len(o.Items))
		for i, item := range o.Items {
			item.Extras = append([]string(nil), item.Extras...)
			clone.Items[i] = item
		}
	}
	if o.Pickup != nil {
		pickup := *o.Pickup
		clone.Pickup = &pickup
	}
	if o.Delivery != nil {
		delivery := *o.Delivery
		clone.Delivery = &delivery
	}
	if o.DeliveredAt != nil {
		at := *o.DeliveredAt
		clone.DeliveredAt = &at
	}
	return &clone
}
