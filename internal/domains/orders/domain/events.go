package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	OrderID    string
	TicketCode string
	Timestamp  time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the order the event belongs to.
func (e BaseEvent) AggregateID() string {
	return e.OrderID
}

// NewBaseEvent stamps an event for order at the given time.
func NewBaseEvent(order *Order, at time.Time) BaseEvent {
	return BaseEvent{OrderID: order.ID, TicketCode: order.TicketCode, Timestamp: at}
}

// OrderCreated is raised when an order is taken in.
type OrderCreated struct {
	BaseEvent
	Status        StepKey
	TotalAmount   decimal.Decimal
	NeedsPickup   bool
	NeedsDelivery bool
}

// EventName returns the event type identifier.
func (e OrderCreated) EventName() string {
	return "orders.order.created"
}

// OrderStatusChanged is raised whenever the main pipeline status moves.
type OrderStatusChanged struct {
	BaseEvent
	FromStatus    StepKey
	ToStatus      StepKey
	CustomerPhone string
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.order.status_changed"
}

// TaskAssigned is raised when a driver is bound to a pickup or delivery.
type TaskAssigned struct {
	BaseEvent
	Kind             TaskKind
	DriverID         string
	PreviousDriverID string
}

// EventName returns the event type identifier.
func (e TaskAssigned) EventName() string {
	return "orders.task.assigned"
}

// TaskStarted is raised when a driver sets off.
type TaskStarted struct {
	BaseEvent
	Kind          TaskKind
	DriverID      string
	CustomerPhone string
}

// EventName returns the event type identifier.
func (e TaskStarted) EventName() string {
	return "orders.task.started"
}

// TaskCompleted is raised when a driver finishes a trip.
type TaskCompleted struct {
	BaseEvent
	Kind     TaskKind
	DriverID string
}

// EventName returns the event type identifier.
func (e TaskCompleted) EventName() string {
	return "orders.task.completed"
}

// PaymentCollected is raised when an outstanding balance is settled.
type PaymentCollected struct {
	BaseEvent
	Amount decimal.Decimal
	Method string
}

// EventName returns the event type identifier.
func (e PaymentCollected) EventName() string {
	return "orders.payment.collected"
}
