package allocation

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

type fixedStatuses map[entities.AllocationID]entities.AllocationStatus

func (f fixedStatuses) Status(id entities.AllocationID) (entities.AllocationStatus, bool) {
	s, ok := f[id]
	return s, ok
}

func TestAggregate_GroupsByCampAndProvider(t *testing.T) {
	camps := []*entities.Camp{
		camp("C1", entities.Immediate, nil),
		camp("C2", entities.SixHours, nil),
	}
	providers := []*entities.Provider{
		provider("P1", entities.Immediate, entities.Available, nil),
		provider("P2", entities.SixHours, entities.Available, nil),
	}
	fragments := []entities.AllocationFragment{
		{CampID: "C1", ProviderID: "P2", Resource: entities.Food, Quantity: 10},
		{CampID: "C1", ProviderID: "P1", Resource: entities.Food, Quantity: 5},
		{CampID: "C1", ProviderID: "P2", Resource: entities.Beds, Quantity: 3},
		{CampID: "C2", ProviderID: "P2", Resource: entities.Water, Quantity: 7},
		{CampID: "C1", ProviderID: "P1", Resource: entities.Ambulances, Quantity: 1},
	}

	allocations := Aggregate(fragments, camps, providers, nil)

	expected := []entities.Allocation{
		{
			ID: "C1-P2", CampID: "C1", CampName: "Camp C1", CampUrgency: entities.Immediate,
			ProviderID: "P2", ProviderName: "Provider P2", ETALabel: "6 HOURS",
			Resources: []entities.ResourceLine{
				{Resource: entities.Food, Label: "Food", Quantity: 10},
				{Resource: entities.Beds, Label: "Beds", Quantity: 3},
			},
			Status: entities.StatusAssigned,
		},
		{
			ID: "C1-P1", CampID: "C1", CampName: "Camp C1", CampUrgency: entities.Immediate,
			ProviderID: "P1", ProviderName: "Provider P1", ETALabel: "IMMEDIATE",
			Resources: []entities.ResourceLine{
				{Resource: entities.Food, Label: "Food", Quantity: 5},
				{Resource: entities.Ambulances, Label: "Ambulances", Quantity: 1},
			},
			Status: entities.StatusAssigned,
		},
		{
			ID: "C2-P2", CampID: "C2", CampName: "Camp C2", CampUrgency: entities.SixHours,
			ProviderID: "P2", ProviderName: "Provider P2", ETALabel: "6 HOURS",
			Resources: []entities.ResourceLine{
				{Resource: entities.Water, Label: "Water", Quantity: 7},
			},
			Status: entities.StatusAssigned,
		},
	}
	if diff := cmp.Diff(expected, allocations); diff != "" {
		t.Errorf("Allocations mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_MergesTrackedStatus(t *testing.T) {
	camps := []*entities.Camp{camp("C1", entities.Immediate, nil)}
	providers := []*entities.Provider{
		provider("P1", entities.Immediate, entities.Available, nil),
		provider("P2", entities.Immediate, entities.Available, nil),
	}
	fragments := []entities.AllocationFragment{
		{CampID: "C1", ProviderID: "P1", Resource: entities.Food, Quantity: 1},
		{CampID: "C1", ProviderID: "P2", Resource: entities.Food, Quantity: 1},
	}
	statuses := fixedStatuses{
		"C1-P2":   entities.StatusDelivered,
		"C9-P404": entities.StatusDispatched,
	}

	allocations := Aggregate(fragments, camps, providers, statuses)

	require.Len(t, allocations, 2)
	assert.Equal(t, entities.StatusAssigned, allocations[0].Status)
	assert.Equal(t, entities.StatusDelivered, allocations[1].Status)
}

func TestAggregate_UnknownReferencesFallBackToIDs(t *testing.T) {
	fragments := []entities.AllocationFragment{
		{CampID: "ghost", ProviderID: "phantom", Resource: entities.Water, Quantity: 2},
		{CampID: "ghost", ProviderID: "phantom", Resource: entities.Water, Quantity: 3},
		{CampID: "ghost", ProviderID: "phantom", Resource: entities.Beds, Quantity: 0},
	}

	allocations := Aggregate(fragments, nil, nil, nil)

	require.Len(t, allocations, 1)
	assert.Equal(t, "ghost", allocations[0].CampName)
	assert.Equal(t, "phantom", allocations[0].ProviderName)
	assert.Equal(t, "TBD", allocations[0].ETALabel)
	assert.Equal(t, entities.Quantity(5), allocations[0].Quantity(entities.Water))
	assert.Len(t, allocations[0].Resources, 1)
}

func TestPlan_SinglePairPerCampProvider(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for iteration := 0; iteration < 100; iteration++ {
		camps, providers := randomScenario(rng)
		plan := Plan(camps, providers, nil)

		seen := make(map[entities.AllocationID]bool)
		for _, a := range plan.Allocations {
			if seen[a.ID] {
				t.Fatalf("iteration %d: allocation %s appears twice", iteration, a.ID)
			}
			seen[a.ID] = true
			assert.Equal(t, entities.NewAllocationID(a.CampID, a.ProviderID), a.ID)
		}
		assert.Equal(t, len(camps), plan.CampCount)
		assert.Equal(t, len(providers), plan.ProviderCount)
	}
}

func TestPlan_AmbiguousJoinedIDsStaySeparate(t *testing.T) {
	camps := []*entities.Camp{
		camp("A-1", entities.Immediate, entities.ResourceQuantities{entities.Food: 10}),
		camp("A", entities.Immediate, entities.ResourceQuantities{entities.Food: 5}),
	}
	providers := []*entities.Provider{
		provider("P", entities.Immediate, entities.Available, entities.ResourceQuantities{entities.Food: 10}),
		provider("1-P", entities.Immediate, entities.Available, entities.ResourceQuantities{entities.Food: 5}),
	}

	plan := Plan(camps, providers, nil)

	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "A-1", plan.Allocations[0].CampID)
	assert.Equal(t, "P", plan.Allocations[0].ProviderID)
	assert.Equal(t, entities.Quantity(10), plan.Allocations[0].Quantity(entities.Food))
	assert.Equal(t, "A", plan.Allocations[1].CampID)
	assert.Equal(t, "1-P", plan.Allocations[1].ProviderID)
	assert.Equal(t, entities.Quantity(5), plan.Allocations[1].Quantity(entities.Food))
	assert.Equal(t, plan.Allocations[0].ID, plan.Allocations[1].ID)
	assert.Empty(t, plan.Shortfalls)
}

func TestPlan_IdempotentAndStatusPersistent(t *testing.T) {
	camps := []*entities.Camp{
		camp("A", entities.Immediate, entities.ResourceQuantities{entities.Food: 100, entities.Water: 20}),
		camp("B", entities.TwelveHours, entities.ResourceQuantities{entities.Food: 50, entities.Beds: 10}),
	}
	providers := []*entities.Provider{
		provider("X", entities.Immediate, entities.Available, entities.ResourceQuantities{entities.Food: 60, entities.Water: 50}),
		provider("Y", entities.TwelveHours, entities.Limited, entities.ResourceQuantities{entities.Food: 100, entities.Beds: 4}),
	}

	first := Plan(camps, providers, nil)
	second := Plan(camps, providers, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Recomputation is not idempotent (-first +second):\n%s", diff)
	}

	require.NotNil(t, first.FindAllocation("B-Y"))
	statuses := fixedStatuses{"B-Y": entities.StatusDispatched}
	third := Plan(camps, providers, statuses)

	got := third.FindAllocation("B-Y")
	require.NotNil(t, got)
	assert.Equal(t, entities.StatusDispatched, got.Status)
	assert.Equal(t, entities.StatusAssigned, third.FindAllocation("A-X").Status)

	assert.Equal(t, entities.Quantity(60+50), third.AllocatedQuantity(entities.Food))
	assert.Equal(t, entities.Quantity(40), third.UnmetQuantity(entities.Food))
	assert.Equal(t, entities.Quantity(6), third.UnmetQuantity(entities.Beds))
}
