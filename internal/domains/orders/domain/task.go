package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TaskKind distinguishes the two driver sub-workflows.
type TaskKind string

const (
	TaskPickup   TaskKind = "pickup"
	TaskDelivery TaskKind = "delivery"
)

var ErrUnknownTaskKind = errors.New("unknown task kind")

// ParseTaskKind validates a task kind coming from a caller.
func ParseTaskKind(raw string) (TaskKind, error) {
	switch TaskKind(raw) {
	case TaskPickup, TaskDelivery:
		return TaskKind(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTaskKind, raw)
	}
}

// Task is a projected unit of driver work derived from an order.
type Task struct {
	Kind          TaskKind
	OrderID       string
	TicketCode    string
	OrderVersion  int64
	OrderStatus   StepKey
	CustomerName  string
	CustomerPhone string
	Address       string
	Slot          string
	Status        string
	DriverID      string
	IsPaid        bool
	Outstanding   decimal.Decimal
}

// Open reports whether the task still needs driver action.
func (t Task) Open() bool {
	return t.Status != string(PickupReceived) && t.Status != string(DeliveryDelivered)
}

// ProjectTasks derives pickup and delivery tasks from orders. Pickups are
// actionable from creation; deliveries once the order reached the ready step
// or a driver was assigned early.
func ProjectTasks(orders []*Order, policy FlowPolicy) []Task {
	var tasks []Task
	for _, order := range orders {
		if order == nil {
			continue
		}
		if order.Pickup != nil {
			status := order.Pickup.Status
			if status == "" {
				status = PickupPending
			}
			tasks = append(tasks, newTask(order, TaskPickup, string(status), order.Pickup.Address, order.Pickup.Slot, order.Pickup.DriverID))
		}
		if order.Delivery != nil {
			if !policy.Reached(order.Status, StepReadyDelivery) && order.Delivery.DriverID == "" {
				continue
			}
			status := order.Delivery.Status
			if status == "" {
				status = DeliveryPending
			}
			tasks = append(tasks, newTask(order, TaskDelivery, string(status), order.Delivery.Address, order.Delivery.Slot, order.Delivery.DriverID))
		}
	}
	return tasks
}

func newTask(order *Order, kind TaskKind, status, address, slot, driverID string) Task {
	if address == "" {
		address = order.Customer.Address
	}
	return Task{
		Kind:          kind,
		OrderID:       order.ID,
		TicketCode:    order.TicketCode,
		OrderVersion:  order.Version,
		OrderStatus:   order.Status,
		CustomerName:  order.Customer.Name,
		CustomerPhone: order.Customer.Phone,
		Address:       address,
		Slot:          slot,
		Status:        status,
		DriverID:      driverID,
		IsPaid:        order.IsPaid,
		Outstanding:   order.Outstanding(),
	}
}
