package application

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/freshfold/laundry-api/internal/domains/drivers/domain"
	"github.com/freshfold/laundry-api/internal/domains/drivers/ports"
)

// ErrInvalidInput signals the request violated a driver invariant.
var ErrInvalidInput = errors.New("invalid driver input")

// Service is the driver registry. Apart from the daily reset it never changes
// status or counters of an existing driver; the order lifecycle owns those.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

var _ ports.Service = (*Service)(nil)

// Register adds a driver, or updates name and phone of a known one while
// keeping its live status and counters.
func (s *Service) Register(ctx context.Context, driver *domain.Driver) (*domain.Driver, error) {
	if driver == nil {
		return nil, fmt.Errorf("%w: driver is required", ErrInvalidInput)
	}
	candidate, err := domain.NewDriver(driver.ID, driver.Name, driver.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	if driver.Status == domain.StatusOffline {
		candidate.Status = domain.StatusOffline
	}
	existing, err := s.repo.GetByID(ctx, candidate.ID)
	switch {
	case err == nil:
		existing.Name = candidate.Name
		existing.Phone = candidate.Phone
		candidate = existing
	case !errors.Is(err, ports.ErrNotFound):
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, candidate)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetDriver(ctx context.Context, id string) (*domain.Driver, error) {
	driver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return driver, nil
}

func (s *Service) ListDrivers(ctx context.Context) ([]*domain.Driver, error) {
	drivers, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return drivers, nil
}

// Candidates lists drivers that may receive a task: offline drivers are left
// out, available drivers come first, then the least loaded.
func (s *Service) Candidates(ctx context.Context) ([]*domain.Driver, error) {
	drivers, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	candidates := make([]*domain.Driver, 0, len(drivers))
	for _, driver := range drivers {
		if driver.Assignable() {
			candidates = append(candidates, driver)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if (a.Status == domain.StatusAvailable) != (b.Status == domain.StatusAvailable) {
			return a.Status == domain.StatusAvailable
		}
		if a.CurrentOrders != b.CurrentOrders {
			return a.CurrentOrders < b.CurrentOrders
		}
		return a.Name < b.Name
	})
	return candidates, nil
}

// ResetDailyCounters starts a new working day for every driver and reports
// how many drivers had completed trips.
func (s *Service) ResetDailyCounters(ctx context.Context) (int64, error) {
	return s.repo.ResetDailyCounters(ctx)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyID) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
