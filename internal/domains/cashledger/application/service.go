package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
	"github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
)

// ErrInvalidInput signals a malformed ledger query.
var ErrInvalidInput = errors.New("invalid ledger query")

// Service answers cash register queries. Entries are written by the order lifecycle only.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

var _ ports.Service = (*Service)(nil)

func (s *Service) ListEntries(ctx context.Context, filter ports.ListFilter) ([]*domain.Entry, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// Summary totals income and expense over the filtered entries.
func (s *Service) Summary(ctx context.Context, filter ports.ListFilter) (domain.Summary, error) {
	entries, err := s.ListEntries(ctx, filter)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(entries), nil
}

func validateFilter(filter ports.ListFilter) error {
	if filter.Type != "" && filter.Type != domain.EntryIncome && filter.Type != domain.EntryExpense {
		return fmt.Errorf("%w: %w", ErrInvalidInput, domain.ErrInvalidType)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return fmt.Errorf("%w: range end precedes start", ErrInvalidInput)
	}
	return nil
}
