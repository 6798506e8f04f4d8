package domain

import (
	"errors"
	"fmt"
	"sort"
)

// StepKey names one stage of the order pipeline.
type StepKey string

const (
	StepPendingPickup StepKey = "pending_pickup"
	StepInStore       StepKey = "in_store"
	StepWashing       StepKey = "washing"
	StepDrying        StepKey = "drying"
	StepIroning       StepKey = "ironing"
	StepReadyDelivery StepKey = "ready_delivery"
	StepInTransit     StepKey = "in_transit"
	StepDelivered     StepKey = "delivered"
)

// vocabulary is the fixed set of known steps in their default order.
var vocabulary = []StepKey{
	StepPendingPickup,
	StepInStore,
	StepWashing,
	StepDrying,
	StepIroning,
	StepReadyDelivery,
	StepInTransit,
	StepDelivered,
}

var (
	ErrUnknownStep    = errors.New("unknown pipeline step")
	ErrDuplicateStep  = errors.New("pipeline step configured twice")
	ErrStepOutOfPlace = errors.New("pipeline step out of place")
)

// leadingAnchors and trailingAnchors pin the steps configuration may not move:
// pickup and intake open the pipeline, the handoff steps close it.
var (
	leadingAnchors  = []StepKey{StepPendingPickup, StepInStore}
	trailingAnchors = []StepKey{StepReadyDelivery, StepInTransit, StepDelivered}
)

// Vocabulary returns the known step keys in default order.
func Vocabulary() []StepKey {
	return append([]StepKey{}, vocabulary...)
}

// IsKnownStep reports whether key belongs to the step vocabulary.
func IsKnownStep(key StepKey) bool {
	return vocabularyIndex(key) >= 0
}

// IsRequiredStep reports whether configuration may never deactivate key.
func IsRequiredStep(key StepKey) bool {
	switch key {
	case StepInStore, StepReadyDelivery, StepDelivered:
		return true
	default:
		return false
	}
}

// IsHandoffStep reports whether key means the order left the store.
func IsHandoffStep(key StepKey) bool {
	return key == StepInTransit || key == StepDelivered
}

// Step is one configured pipeline stage.
type Step struct {
	Key      StepKey
	Active   bool
	Required bool
	Order    int
}

// DefaultSteps returns the full vocabulary with every step active.
func DefaultSteps() []Step {
	steps := make([]Step, 0, len(vocabulary))
	for i, key := range vocabulary {
		steps = append(steps, Step{Key: key, Active: true, Required: IsRequiredStep(key), Order: (i + 1) * 10})
	}
	return steps
}

// FlowPolicy answers next/previous questions over a normalized step list.
// It is an immutable value; build a new one when configuration changes.
type FlowPolicy struct {
	steps []Step
}

// NewFlowPolicy validates configured steps and normalizes them: required
// steps are forced active and vocabulary keys absent from the configuration
// are restored at their default position. Only the processing steps between
// in_store and ready_delivery may be reordered.
func NewFlowPolicy(configured []Step) (FlowPolicy, error) {
	seen := make(map[StepKey]struct{}, len(configured))
	steps := make([]Step, 0, len(vocabulary))
	for _, step := range configured {
		if !IsKnownStep(step.Key) {
			return FlowPolicy{}, fmt.Errorf("%w: %q", ErrUnknownStep, step.Key)
		}
		if _, dup := seen[step.Key]; dup {
			return FlowPolicy{}, fmt.Errorf("%w: %q", ErrDuplicateStep, step.Key)
		}
		seen[step.Key] = struct{}{}
		if IsRequiredStep(step.Key) {
			step.Required = true
			step.Active = true
		}
		steps = append(steps, step)
	}
	for _, def := range DefaultSteps() {
		if _, ok := seen[def.Key]; ok {
			continue
		}
		def.Active = def.Required
		steps = append(steps, def)
	}
	sort.SliceStable(steps, func(i, j int) bool {
		if steps[i].Order != steps[j].Order {
			return steps[i].Order < steps[j].Order
		}
		return vocabularyIndex(steps[i].Key) < vocabularyIndex(steps[j].Key)
	})
	for i, key := range leadingAnchors {
		if steps[i].Key != key {
			return FlowPolicy{}, fmt.Errorf("%w: %q must be step %d", ErrStepOutOfPlace, key, i+1)
		}
	}
	tail := len(steps) - len(trailingAnchors)
	for i, key := range trailingAnchors {
		if steps[tail+i].Key != key {
			return FlowPolicy{}, fmt.Errorf("%w: %q must be step %d", ErrStepOutOfPlace, key, tail+i+1)
		}
	}
	return FlowPolicy{steps: steps}, nil
}

// DefaultFlowPolicy is the policy over DefaultSteps.
func DefaultFlowPolicy() FlowPolicy {
	policy, _ := NewFlowPolicy(DefaultSteps())
	return policy
}

// Steps returns a copy of the normalized steps ordered by position.
func (p FlowPolicy) Steps() []Step {
	return append([]Step{}, p.steps...)
}

// NextStep returns the nearest active step after current.
func (p FlowPolicy) NextStep(current StepKey) (StepKey, bool) {
	idx := p.indexOf(current)
	if idx < 0 {
		return "", false
	}
	for i := idx + 1; i < len(p.steps); i++ {
		if p.steps[i].Active {
			return p.steps[i].Key, true
		}
	}
	return "", false
}

// PreviousStep returns the nearest active step before current.
func (p FlowPolicy) PreviousStep(current StepKey) (StepKey, bool) {
	idx := p.indexOf(current)
	if idx < 0 {
		return "", false
	}
	for i := idx - 1; i >= 0; i-- {
		if p.steps[i].Active {
			return p.steps[i].Key, true
		}
	}
	return "", false
}

// IsActive reports whether key is an active step.
func (p FlowPolicy) IsActive(key StepKey) bool {
	idx := p.indexOf(key)
	return idx >= 0 && p.steps[idx].Active
}

// Reached reports whether status sits at or after target in the pipeline.
func (p FlowPolicy) Reached(status, target StepKey) bool {
	si, ti := p.indexOf(status), p.indexOf(target)
	if si < 0 || ti < 0 {
		return false
	}
	return si >= ti
}

// InitialStatus picks the entry step for a new order.
func (p FlowPolicy) InitialStatus(needsPickup bool) StepKey {
	if needsPickup && p.IsActive(StepPendingPickup) {
		return StepPendingPickup
	}
	return StepInStore
}

func (p FlowPolicy) indexOf(key StepKey) int {
	for i, step := range p.steps {
		if step.Key == key {
			return i
		}
	}
	return -1
}

func vocabularyIndex(key StepKey) int {
	for i, known := range vocabulary {
		if known == key {
			return i
		}
	}
	return -1
}
