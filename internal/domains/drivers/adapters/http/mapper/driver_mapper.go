package mapper

import (
	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
)

// Driver is the HTTP representation of a courier.
type Driver struct {
	ID             string `json:"id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone,omitempty"`
	Status         string `json:"status,omitempty" binding:"omitempty,oneof=available delivering offline"`
	CurrentOrders  int    `json:"currentOrders"`
	CompletedToday int    `json:"completedToday"`
}

// ToDomainDriver maps a registration payload. Counters are owned by the
// order lifecycle and are not taken from the request.
func ToDomainDriver(d Driver) *domain.Driver {
	return &domain.Driver{ID: d.ID, Name: d.Name, Phone: d.Phone, Status: domain.Status(d.Status)}
}

func FromDomainDriver(d *domain.Driver) Driver {
	if d == nil {
		return Driver{}
	}
	return Driver{
		ID:             d.ID,
		Name:           d.Name,
		Phone:          d.Phone,
		Status:         string(d.Status),
		CurrentOrders:  d.CurrentOrders,
		CompletedToday: d.CompletedToday,
	}
}

func FromDomainDrivers(drivers []*domain.Driver) []Driver {
	result := make([]Driver, 0, len(drivers))
	for _, d := range drivers {
		result = append(result, FromDomainDriver(d))
	}
	return result
}
