package domain

import (
	"errors"
	"strings"
)

// PickupStatus is the state of a driver trip fetching laundry from the customer.
type PickupStatus string

const (
	PickupPending  PickupStatus = "pending_pickup"
	PickupOnWay    PickupStatus = "on_way_to_store"
	PickupReceived PickupStatus = "received"
)

// DeliveryStatus is the state of a driver trip returning laundry to the customer.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending_delivery"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
)

// ReassignPolicy decides whether a pending task that already has a driver
// may be handed to another one.
type ReassignPolicy string

const (
	ReassignRefuse ReassignPolicy = "refuse"
	ReassignAllow  ReassignPolicy = "allow"
)

// ParseReassignPolicy maps configuration text to a policy, defaulting to refuse.
func ParseReassignPolicy(raw string) ReassignPolicy {
	if ReassignPolicy(strings.ToLower(strings.TrimSpace(raw))) == ReassignAllow {
		return ReassignAllow
	}
	return ReassignRefuse
}

var (
	ErrLegNotPending         = errors.New("task already left its initial state")
	ErrLegNotUnderway        = errors.New("task is not underway")
	ErrNoDriverAssigned      = errors.New("task has no driver assigned")
	ErrDriverAlreadyAssigned = errors.New("task already has a driver")
	ErrEmptyDriver           = errors.New("driver id is required")
)

// PickupService tracks the pickup trip of an order.
type PickupService struct {
	Status   PickupStatus
	Slot     string
	Address  string
	DriverID string
}

// NewPickupService builds a pickup leg in its initial state.
func NewPickupService(slot, address string) *PickupService {
	return &PickupService{Status: PickupPending, Slot: slot, Address: address}
}

// Assign binds driverID and returns the driver it replaced, if any.
func (p *PickupService) Assign(driverID string, policy ReassignPolicy) (string, error) {
	return assignLeg(p.Status == PickupPending, &p.DriverID, driverID, policy)
}

// Start sends the driver on the way.
func (p *PickupService) Start() error {
	if p.Status != PickupPending {
		return ErrLegNotPending
	}
	if p.DriverID == "" {
		return ErrNoDriverAssigned
	}
	p.Status = PickupOnWay
	return nil
}

// Complete marks the laundry as received in store.
func (p *PickupService) Complete() error {
	if p.Status != PickupOnWay {
		return ErrLegNotUnderway
	}
	p.Status = PickupReceived
	return nil
}

// DeliveryService tracks the delivery trip of an order.
type DeliveryService struct {
	Status   DeliveryStatus
	Slot     string
	Address  string
	DriverID string
}

// NewDeliveryService builds a delivery leg in its initial state.
func NewDeliveryService(slot, address string) *DeliveryService {
	return &DeliveryService{Status: DeliveryPending, Slot: slot, Address: address}
}

// Assign binds driverID and returns the driver it replaced, if any.
func (d *DeliveryService) Assign(driverID string, policy ReassignPolicy) (string, error) {
	return assignLeg(d.Status == DeliveryPending, &d.DriverID, driverID, policy)
}

// Start puts the order in transit.
func (d *DeliveryService) Start() error {
	if d.Status != DeliveryPending {
		return ErrLegNotPending
	}
	if d.DriverID == "" {
		return ErrNoDriverAssigned
	}
	d.Status = DeliveryInTransit
	return nil
}

// Complete marks the order as handed to the customer.
func (d *DeliveryService) Complete() error {
	if d.Status != DeliveryInTransit {
		return ErrLegNotUnderway
	}
	d.Status = DeliveryDelivered
	return nil
}

func assignLeg(pending bool, current *string, driverID string, policy ReassignPolicy) (string, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return "", ErrEmptyDriver
	}
	if !pending {
		return "", ErrLegNotPending
	}
	previous := *current
	if previous != "" && policy != ReassignAllow {
		return previous, ErrDriverAlreadyAssigned
	}
	*current = driverID
	return previous, nil
}
