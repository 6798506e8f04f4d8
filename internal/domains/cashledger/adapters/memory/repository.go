package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/freshfold/laundry-api/internal/domains/cashledger/domain"
	"github.com/freshfold/laundry-api/internal/domains/cashledger/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an append-only in-memory cash register.
type Repository struct {
	mu      sync.RWMutex
	entries []*domain.Entry
	byKey   map[string]int
}

func NewRepository() *Repository {
	return &Repository{byKey: map[string]int{}}
}

func (r *Repository) Append(_ context.Context, entry *domain.Entry) (*domain.Entry, error) {
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.IdempotencyKey != "" {
		if idx, ok := r.byKey[entry.IdempotencyKey]; ok {
			existing := r.entries[idx]
			if !existing.SameRequest(entry) {
				return nil, ports.ErrIdempotencyConflict
			}
			clone := *existing
			return &clone, nil
		}
	}
	clone := *entry
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	r.entries = append(r.entries, &clone)
	if clone.IdempotencyKey != "" {
		r.byKey[clone.IdempotencyKey] = len(r.entries) - 1
	}
	out := clone
	return &out, nil
}

func (r *Repository) GetByKey(_ context.Context, key string) (*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byKey[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r.entries[idx]
	return &clone, nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if !matches(entry, filter) {
			continue
		}
		clone := *entry
		list = append(list, &clone)
	}
	return list, nil
}

// Snapshot captures the current state; calling the returned func restores it.
func (r *Repository) Snapshot() func() {
	r.mu.RLock()
	entries := append([]*domain.Entry{}, r.entries...)
	byKey := make(map[string]int, len(r.byKey))
	for key, idx := range r.byKey {
		byKey[key] = idx
	}
	r.mu.RUnlock()
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.entries = entries
		r.byKey = byKey
	}
}

func matches(entry *domain.Entry, filter ports.ListFilter) bool {
	if filter.OrderID != "" && entry.OrderID != filter.OrderID {
		return false
	}
	if filter.Type != "" && entry.Type != filter.Type {
		return false
	}
	if !filter.From.IsZero() && entry.CreatedAt.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && !entry.CreatedAt.Before(filter.To) {
		return false
	}
	return true
}
