package memory

import (
	"context"
	"sync"

	"github.com/freshfold/laundry-api/internal/domains/orders/domain"
	"github.com/freshfold/laundry-api/internal/domains/orders/ports"
)

var _ ports.FlowStore = (*FlowStore)(nil)

// FlowStore keeps the pipeline configuration in memory.
type FlowStore struct {
	mu    sync.RWMutex
	steps []domain.Step
}

// NewFlowStore seeds the store with steps, or the default pipeline when none are given.
func NewFlowStore(steps ...domain.Step) *FlowStore {
	if len(steps) == 0 {
		steps = domain.DefaultSteps()
	}
	return &FlowStore{steps: append([]domain.Step{}, steps...)}
}

func (s *FlowStore) Steps(context.Context) ([]domain.Step, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Step{}, s.steps...), nil
}

func (s *FlowStore) Replace(_ context.Context, steps []domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append([]domain.Step{}, steps...)
	return nil
}
