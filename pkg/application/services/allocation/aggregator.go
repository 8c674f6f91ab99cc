package allocation

import (
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// StatusLookup resolves the operator-set status of an allocation
type StatusLookup interface {
	Status(id entities.AllocationID) (entities.AllocationStatus, bool)
}

// Aggregate groups fragments into one allocation per (camp, provider) pair. Pairs
// appear in the order their first fragment was produced. Each allocation carries
// the status found in statuses, or ASSIGNED when none is recorded.
func Aggregate(
	fragments []entities.AllocationFragment,
	camps []*entities.Camp,
	providers []*entities.Provider,
	statuses StatusLookup,
) []entities.Allocation {
	campIndex := make(map[string]*entities.Camp, len(camps))
	for _, c := range uniqueCamps(camps) {
		campIndex[c.ID] = c
	}
	providerIndex := make(map[string]*entities.Provider, len(providers))
	for _, p := range uniqueProviders(providers) {
		providerIndex[p.ID] = p
	}

	// Keyed by the id pair; joined ids are ambiguous ("A-1"+"P" vs "A"+"1-P")
	type pair struct{ campID, providerID string }

	allocations := make([]entities.Allocation, 0)
	position := make(map[pair]int)

	for _, f := range fragments {
		if f.Quantity <= 0 {
			continue
		}
		key := pair{f.CampID, f.ProviderID}

		idx, exists := position[key]
		if !exists {
			idx = len(allocations)
			position[key] = idx
			id := entities.NewAllocationID(f.CampID, f.ProviderID)
			allocations = append(allocations, newAllocation(id, f, campIndex, providerIndex))
		}

		alloc := &allocations[idx]
		merged := false
		for i := range alloc.Resources {
			if alloc.Resources[i].Resource == f.Resource {
				alloc.Resources[i].Quantity += f.Quantity
				merged = true
				break
			}
		}
		if !merged {
			alloc.Resources = append(alloc.Resources, entities.ResourceLine{
				Resource: f.Resource,
				Label:    f.Resource.Label(),
				Quantity: f.Quantity,
			})
		}
	}

	if statuses != nil {
		for i := range allocations {
			if status, ok := statuses.Status(allocations[i].ID); ok {
				allocations[i].Status = status
			}
		}
	}

	return allocations
}

func newAllocation(
	id entities.AllocationID,
	f entities.AllocationFragment,
	campIndex map[string]*entities.Camp,
	providerIndex map[string]*entities.Provider,
) entities.Allocation {
	alloc := entities.Allocation{
		ID:           id,
		CampID:       f.CampID,
		CampName:     f.CampID,
		CampUrgency:  entities.UrgencyUnknown,
		ProviderID:   f.ProviderID,
		ProviderName: f.ProviderID,
		ETALabel:     entities.FormatETA(""),
		Resources:    []entities.ResourceLine{},
		Status:       entities.StatusAssigned,
	}
	if c, ok := campIndex[f.CampID]; ok {
		alloc.CampName = c.Name
		alloc.CampUrgency = c.Urgency
	}
	if p, ok := providerIndex[f.ProviderID]; ok {
		alloc.ProviderName = p.Name
		alloc.ETALabel = p.ETALabel
		if alloc.ETALabel == "" {
			alloc.ETALabel = entities.FormatETA(p.ResponseTime.String())
		}
	}
	return alloc
}
