package dto

import (
	"fmt"
	"time"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// AllocationPlan contains the complete output of one recomputation pass
type AllocationPlan struct {
	RunID         string                `json:"runId,omitempty"`
	ComputedAt    time.Time             `json:"computedAt"`
	CampCount     int                   `json:"campCount"`
	ProviderCount int                   `json:"providerCount"`
	Allocations   []entities.Allocation `json:"allocations"`
	Shortfalls    []entities.Shortfall  `json:"shortfalls"`
}

// AllocatedQuantity sums a resource type across every allocation in the plan
func (p *AllocationPlan) AllocatedQuantity(rt entities.ResourceType) entities.Quantity {
	var total entities.Quantity
	for i := range p.Allocations {
		total += p.Allocations[i].Quantity(rt)
	}
	return total
}

// UnmetQuantity sums the unmet need of a resource type across every shortfall
func (p *AllocationPlan) UnmetQuantity(rt entities.ResourceType) entities.Quantity {
	var total entities.Quantity
	for _, s := range p.Shortfalls {
		if s.Resource == rt {
			total += s.Unmet
		}
	}
	return total
}

// FindAllocation returns the allocation with the given id, or nil
func (p *AllocationPlan) FindAllocation(id entities.AllocationID) *entities.Allocation {
	for i := range p.Allocations {
		if p.Allocations[i].ID == id {
			return &p.Allocations[i]
		}
	}
	return nil
}

// GetSummary returns a one-line description of the plan
func (p *AllocationPlan) GetSummary() string {
	var unmet entities.Quantity
	for _, s := range p.Shortfalls {
		unmet += s.Unmet
	}
	return fmt.Sprintf("%d allocations for %d camps from %d providers, %d shortfalls (%d units unmet)",
		len(p.Allocations), p.CampCount, p.ProviderCount, len(p.Shortfalls), unmet)
}
