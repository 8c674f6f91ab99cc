package allocation

import (
	"github.com/idro/reliefmatch/pkg/application/dto"
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// Plan runs a full matching pass and aggregates the result. It is deterministic for
// a given input; run identity and timestamps are left for the caller to stamp.
func Plan(camps []*entities.Camp, providers []*entities.Provider, statuses StatusLookup) *dto.AllocationPlan {
	return NewMatcher(nil).Plan(camps, providers, statuses)
}

// Plan runs Match followed by Aggregate
func (m *Matcher) Plan(camps []*entities.Camp, providers []*entities.Provider, statuses StatusLookup) *dto.AllocationPlan {
	result := m.Match(camps, providers)
	return &dto.AllocationPlan{
		CampCount:     len(uniqueCamps(camps)),
		ProviderCount: len(uniqueProviders(providers)),
		Allocations:   Aggregate(result.Fragments, camps, providers, statuses),
		Shortfalls:    result.Shortfalls,
	}
}
