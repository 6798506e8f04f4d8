package domain

import (
	"errors"
	"strings"
)

// Status represents the live availability of a driver.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusDelivering Status = "delivering"
	StatusOffline    Status = "offline"
)

var (
	ErrEmptyID       = errors.New("driver id is required")
	ErrEmptyName     = errors.New("driver name is required")
	ErrInvalidStatus = errors.New("driver status is invalid")
	ErrOffline       = errors.New("driver is offline")
)

// Driver is a courier who performs pickups and deliveries.
type Driver struct {
	ID             string
	Name           string
	Phone          string
	Status         Status
	CurrentOrders  int
	CompletedToday int
}

// NewDriver validates and builds an available driver with zeroed counters.
func NewDriver(id, name, phone string) (*Driver, error) {
	d := &Driver{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), Phone: strings.TrimSpace(phone), Status: StatusAvailable}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate enforces invariants on the aggregate.
func (d *Driver) Validate() error {
	if d.ID == "" {
		return ErrEmptyID
	}
	if d.Name == "" {
		return ErrEmptyName
	}
	if !IsValidStatus(d.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsValidStatus reports whether status is a known driver status.
func IsValidStatus(status Status) bool {
	switch status {
	case StatusAvailable, StatusDelivering, StatusOffline:
		return true
	default:
		return false
	}
}

// Assignable reports whether the driver may receive new tasks.
func (d *Driver) Assignable() bool {
	return d.Status != StatusOffline
}

// TakeAssignment counts a new active task; the first one marks the driver busy.
func (d *Driver) TakeAssignment() error {
	if !d.Assignable() {
		return ErrOffline
	}
	d.CurrentOrders++
	if d.Status == StatusAvailable {
		d.Status = StatusDelivering
	}
	return nil
}

// ReleaseAssignment drops an active task that moved to another driver.
func (d *Driver) ReleaseAssignment() {
	d.decrement()
}

// CompleteAssignment records a finished task.
func (d *Driver) CompleteAssignment() {
	d.decrement()
	d.CompletedToday++
}

// ResetDailyCounters starts a new working day.
func (d *Driver) ResetDailyCounters() {
	d.CompletedToday = 0
}

func (d *Driver) decrement() {
	if d.CurrentOrders > 0 {
		d.CurrentOrders--
	}
	if d.CurrentOrders == 0 && d.Status == StatusDelivering {
		d.Status = StatusAvailable
	}
}
