package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlowPolicy_DefaultWalksWholeVocabulary(t *testing.T) {
	policy := DefaultFlowPolicy()
	var walked []StepKey
	for current, ok := StepPendingPickup, true; ok; current, ok = policy.NextStep(current) {
		walked = append(walked, current)
	}
	require.Equal(t, Vocabulary(), walked)
}

func TestFlowPolicy_SkipsInactiveSteps(t *testing.T) {
	steps := DefaultSteps()
	for i := range steps {
		if steps[i].Key == StepWashing || steps[i].Key == StepIroning {
			steps[i].Active = false
		}
	}
	policy, err := NewFlowPolicy(steps)
	require.NoError(t, err)

	next, ok := policy.NextStep(StepInStore)
	require.True(t, ok)
	require.Equal(t, StepDrying, next)

	next, ok = policy.NextStep(StepDrying)
	require.True(t, ok)
	require.Equal(t, StepReadyDelivery, next)

	prev, ok := policy.PreviousStep(StepDrying)
	require.True(t, ok)
	require.Equal(t, StepInStore, prev)

	// an order parked on a disabled step still moves by position
	next, ok = policy.NextStep(StepWashing)
	require.True(t, ok)
	require.Equal(t, StepDrying, next)
}

func TestFlowPolicy_UnknownAndEdges(t *testing.T) {
	policy := DefaultFlowPolicy()

	_, ok := policy.NextStep("folding")
	require.False(t, ok)
	_, ok = policy.PreviousStep("")
	require.False(t, ok)
	_, ok = policy.NextStep(StepDelivered)
	require.False(t, ok)
	_, ok = policy.PreviousStep(StepPendingPickup)
	require.False(t, ok)
}

func TestNewFlowPolicy_ForcesRequiredAndRestoresMissing(t *testing.T) {
	policy, err := NewFlowPolicy([]Step{
		{Key: StepReadyDelivery, Active: false, Order: 50},
		{Key: StepWashing, Active: true, Order: 20},
	})
	require.NoError(t, err)

	steps := policy.Steps()
	require.Len(t, steps, len(Vocabulary()))
	require.True(t, policy.IsActive(StepReadyDelivery))
	require.True(t, policy.IsActive(StepInStore))
	require.True(t, policy.IsActive(StepDelivered))
	require.True(t, policy.IsActive(StepWashing))
	require.False(t, policy.IsActive(StepDrying))
	require.False(t, policy.IsActive(StepPendingPickup))
}

func TestNewFlowPolicy_RejectsUnknownAndDuplicate(t *testing.T) {
	_, err := NewFlowPolicy([]Step{{Key: "folding"}})
	require.ErrorIs(t, err, ErrUnknownStep)

	_, err = NewFlowPolicy([]Step{{Key: StepWashing}, {Key: StepWashing}})
	require.ErrorIs(t, err, ErrDuplicateStep)
}

func TestNewFlowPolicy_RejectsMovedAnchors(t *testing.T) {
	cases := map[string][]Step{
		"ready_delivery first":       {{Key: StepReadyDelivery, Order: 1}, {Key: StepPendingPickup, Active: false, Order: 10}},
		"in_store after washing":     {{Key: StepInStore, Order: 35}},
		"processing after delivery":  {{Key: StepDrying, Active: true, Order: 99}},
		"in_transit before ready":    {{Key: StepInTransit, Active: true, Order: 55}},
		"pickup behind intake":       {{Key: StepPendingPickup, Active: true, Order: 25}},
		"delivered ahead of transit": {{Key: StepDelivered, Order: 65}},
	}
	for name, configured := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewFlowPolicy(configured)
			require.ErrorIs(t, err, ErrStepOutOfPlace)
		})
	}
}

func TestNewFlowPolicy_InactivePickupStillLeads(t *testing.T) {
	policy, err := NewFlowPolicy([]Step{
		{Key: StepPendingPickup, Active: false, Order: 10},
		{Key: StepReadyDelivery, Order: 60},
		{Key: StepInTransit, Active: false, Order: 70},
	})
	require.NoError(t, err)

	prev, ok := policy.PreviousStep(StepReadyDelivery)
	require.True(t, ok)
	require.Equal(t, StepInStore, prev)
	require.False(t, policy.Reached(StepInStore, StepReadyDelivery))
}

func TestFlowPolicy_ReorderedSteps(t *testing.T) {
	steps := DefaultSteps()
	for i := range steps {
		if steps[i].Key == StepIroning {
			steps[i].Order = 35
		}
	}
	policy, err := NewFlowPolicy(steps)
	require.NoError(t, err)

	next, ok := policy.NextStep(StepWashing)
	require.True(t, ok)
	require.Equal(t, StepIroning, next)
	next, ok = policy.NextStep(StepIroning)
	require.True(t, ok)
	require.Equal(t, StepDrying, next)
}

func TestFlowPolicy_ReachedAndInitialStatus(t *testing.T) {
	policy := DefaultFlowPolicy()
	require.True(t, policy.Reached(StepInTransit, StepReadyDelivery))
	require.True(t, policy.Reached(StepReadyDelivery, StepReadyDelivery))
	require.False(t, policy.Reached(StepIroning, StepReadyDelivery))
	require.False(t, policy.Reached("folding", StepReadyDelivery))

	require.Equal(t, StepPendingPickup, policy.InitialStatus(true))
	require.Equal(t, StepInStore, policy.InitialStatus(false))

	withoutPickup, err := NewFlowPolicy([]Step{{Key: StepPendingPickup, Active: false, Order: 10}})
	require.NoError(t, err)
	require.Equal(t, StepInStore, withoutPickup.InitialStatus(true))
}
