package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	orderstypes "github.com/freshfold/laundry-api/internal/domains/orders/application/types"
	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
)

// Customer is the HTTP representation of the order owner.
type Customer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address,omitempty"`
}

// Item is one line of the intake form.
type Item struct {
	Name      string          `json:"name" binding:"required"`
	Unit      string          `json:"unit" binding:"required,oneof=piece weight"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Extras    []string        `json:"extras,omitempty"`
}

// LegRequest asks for a pickup or delivery trip.
type LegRequest struct {
	Slot    string `json:"slot,omitempty"`
	Address string `json:"address,omitempty"`
}

// CreateOrder is the inbound intake payload.
type CreateOrder struct {
	Customer    Customer        `json:"customer" binding:"required"`
	Items       []Item          `json:"items" binding:"required,min=1,dive"`
	Pickup      *LegRequest     `json:"pickup,omitempty"`
	Delivery    *LegRequest     `json:"delivery,omitempty"`
	PickupFee   decimal.Decimal `json:"pickupFee"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Deposit     decimal.Decimal `json:"deposit"`
	Method      string          `json:"paymentMethod,omitempty"`
}

// Payment is the body of the collect-and-complete call.
type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method,omitempty"`
}

// Assignment binds a driver to a task.
type Assignment struct {
	DriverID string `json:"driverId" binding:"required"`
}

// Leg is the HTTP representation of a pickup or delivery sub-workflow.
type Leg struct {
	Status   string `json:"status"`
	Slot     string `json:"slot,omitempty"`
	Address  string `json:"address,omitempty"`
	DriverID string `json:"driverId,omitempty"`
}

// Order is the HTTP representation of an order.
type Order struct {
	ID          string          `json:"id"`
	TicketCode  string          `json:"ticketCode"`
	Customer    Customer        `json:"customer"`
	Items       []Item          `json:"items"`
	Status      string          `json:"status"`
	Pickup      *Leg            `json:"pickup,omitempty"`
	Delivery    *Leg            `json:"delivery,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Outstanding decimal.Decimal `json:"outstanding"`
	IsPaid      bool            `json:"isPaid"`
	Version     int64           `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
}

// Task is the HTTP representation of projected driver work.
type Task struct {
	Kind          string          `json:"kind"`
	OrderID       string          `json:"orderId"`
	TicketCode    string          `json:"ticketCode"`
	OrderVersion  int64           `json:"orderVersion"`
	OrderStatus   string          `json:"orderStatus"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Address       string          `json:"address,omitempty"`
	Slot          string          `json:"slot,omitempty"`
	Status        string          `json:"status"`
	DriverID      string          `json:"driverId,omitempty"`
	IsPaid        bool            `json:"isPaid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// Step is one pipeline stage as exposed over HTTP.
type Step struct {
	Key      string `json:"key" binding:"required"`
	Active   bool   `json:"active"`
	Required bool   `json:"required"`
	Order    int    `json:"order"`
}

// ToCreateOrderInput maps the intake payload to the application command.
func ToCreateOrderInput(in CreateOrder) orderstypes.CreateOrderInput {
	items := make([]orderstypes.ItemInput, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, orderstypes.ItemInput{
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Extras:    item.Extras,
		})
	}
	return orderstypes.CreateOrderInput{
		Customer: orderstypes.CustomerInput{
			ID:      in.Customer.ID,
			Name:    in.Customer.Name,
			Phone:   in.Customer.Phone,
			Address: in.Customer.Address,
		},
		Items:       items,
		Pickup:      toLegInput(in.Pickup),
		Delivery:    toLegInput(in.Delivery),
		PickupFee:   in.PickupFee,
		DeliveryFee: in.DeliveryFee,
		Discount:    in.Discount,
		Deposit:     in.Deposit,
		Method:      in.Method,
	}
}

func toLegInput(leg *LegRequest) *orderstypes.LegInput {
	if leg == nil {
		return nil
	}
	return &orderstypes.LegInput{Slot: leg.Slot, Address: leg.Address}
}

// FromDomainOrder converts an order aggregate to its HTTP representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]Item, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, Item{
			Name:      item.Name,
			Unit:      string(item.Unit),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Extras:    item.Extras,
		})
	}
	out := Order{
		ID:         order.ID,
		TicketCode: order.TicketCode,
		Customer: Customer{
			ID:      order.Customer.ID,
			Name:    order.Customer.Name,
			Phone:   order.Customer.Phone,
			Address: order.Customer.Address,
		},
		Items:       items,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		PaidAmount:  order.PaidAmount,
		Outstanding: order.Outstanding(),
		IsPaid:      order.IsPaid,
		Version:     order.Version,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		DeliveredAt: order.DeliveredAt,
	}
	if p := order.Pickup; p != nil {
		out.Pickup = &Leg{Status: string(p.Status), Slot: p.Slot, Address: p.Address, DriverID: p.DriverID}
	}
	if d := order.Delivery; d != nil {
		out.Delivery = &Leg{Status: string(d.Status), Slot: d.Slot, Address: d.Address, DriverID: d.DriverID}
	}
	return out
}

// FromDomainOrders converts a list of orders.
func FromDomainOrders(orders []*domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

// FromDomainTasks converts projected tasks.
func FromDomainTasks(tasks []domain.Task) []Task {
	result := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, Task{
			Kind:          string(t.Kind),
			OrderID:       t.OrderID,
			TicketCode:    t.TicketCode,
			OrderVersion:  t.OrderVersion,
			OrderStatus:   string(t.OrderStatus),
			CustomerName:  t.CustomerName,
			CustomerPhone: t.CustomerPhone,
			Address:       t.Address,
			Slot:          t.Slot,
			Status:        t.Status,
			DriverID:      t.DriverID,
			IsPaid:        t.IsPaid,
			Outstanding:   t.Outstanding,
		})
	}
	return result
}

// ToDomainSteps maps a flow configuration payload.
func ToDomainSteps(steps []Step) []domain.Step {
	result := make([]domain.Step, 0, len(steps))
	for _, s := range steps {
		result = append(result, domain.Step{Key: domain.StepKey(s.Key), Active: s.Active, Required: s.Required, Order: s.Order})
	}
	return result
}

// FromDomainSteps converts the normalized flow.
func FromDomainSteps(steps []domain.Step) []Step {
	result := make([]Step, 0, len(steps))
	for _, s := range steps {
		result = append(result, Step{Key: string(s.Key), Active: s.Active, Required: s.Required, Order: s.Order})
	}
	return result
}
