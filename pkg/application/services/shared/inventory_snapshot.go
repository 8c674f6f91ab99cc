package shared

import (
	"fmt"
	"sort"
	"strings"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

type snapshotKey struct {
	providerID string
	resource   entities.ResourceType
}

// InventorySnapshot is the mutable working copy of provider quantities for one
// computation pass. It is built fresh from the provider pool and discarded after the
// pass; the source providers are never modified.
type InventorySnapshot struct {
	initial   map[snapshotKey]entities.Quantity
	remaining map[snapshotKey]entities.Quantity
	order     []string
}

// NewInventorySnapshot copies every provider's inventory. When two providers share
// an id only the first is kept. Negative quantities are treated as zero.
func NewInventorySnapshot(providers []*entities.Provider) *InventorySnapshot {
	s := &InventorySnapshot{
		initial:   make(map[snapshotKey]entities.Quantity, len(providers)*len(entities.AllResourceTypes)),
		remaining: make(map[snapshotKey]entities.Quantity, len(providers)*len(entities.AllResourceTypes)),
		order:     make([]string, 0, len(providers)),
	}

	seen := make(map[string]bool, len(providers))
	for _, p := range providers {
		if p == nil || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		s.order = append(s.order, p.ID)

		for _, rt := range entities.AllResourceTypes {
			qty := p.Stock(rt)
			if qty < 0 {
				qty = 0
			}
			key := snapshotKey{p.ID, rt}
			s.initial[key] = qty
			s.remaining[key] = qty
		}
	}
	return s
}

// Remaining returns the working quantity left at a provider for a resource type
func (s *InventorySnapshot) Remaining(providerID string, rt entities.ResourceType) entities.Quantity {
	return s.remaining[snapshotKey{providerID, rt}]
}

// Initial returns the quantity the provider held when the snapshot was taken
func (s *InventorySnapshot) Initial(providerID string, rt entities.ResourceType) entities.Quantity {
	return s.initial[snapshotKey{providerID, rt}]
}

// Consumed returns how much has been taken from a provider for a resource type
func (s *InventorySnapshot) Consumed(providerID string, rt entities.ResourceType) entities.Quantity {
	return s.Initial(providerID, rt) - s.Remaining(providerID, rt)
}

// Take removes up to want units and returns the amount actually taken
func (s *InventorySnapshot) Take(providerID string, rt entities.ResourceType, want entities.Quantity) entities.Quantity {
	if want <= 0 {
		return 0
	}
	key := snapshotKey{providerID, rt}
	take := entities.MinQuantity(want, s.remaining[key])
	if take <= 0 {
		return 0
	}
	s.remaining[key] -= take
	return take
}

// Has reports whether the provider is part of the snapshot
func (s *InventorySnapshot) Has(providerID string) bool {
	_, exists := s.initial[snapshotKey{providerID, entities.Food}]
	return exists
}

// Size returns the number of providers in the snapshot
func (s *InventorySnapshot) Size() int {
	return len(s.order)
}

// GetTotalRemaining returns the quantity left across all providers for a resource type
func (s *InventorySnapshot) GetTotalRemaining(rt entities.ResourceType) entities.Quantity {
	var total entities.Quantity
	for _, id := range s.order {
		total += s.Remaining(id, rt)
	}
	return total
}

// GetTotalConsumed returns the quantity taken across all providers for a resource type
func (s *InventorySnapshot) GetTotalConsumed(rt entities.ResourceType) entities.Quantity {
	var total entities.Quantity
	for _, id := range s.order {
		total += s.Consumed(id, rt)
	}
	return total
}

// GetUtilizationRatio returns consumed/initial for a resource type (0.0 to 1.0)
func (s *InventorySnapshot) GetUtilizationRatio(rt entities.ResourceType) float64 {
	var initial entities.Quantity
	for _, id := range s.order {
		initial += s.Initial(id, rt)
	}
	if initial == 0 {
		return 0.0
	}
	return float64(s.GetTotalConsumed(rt)) / float64(initial)
}

// String returns a string representation of the snapshot for debugging
func (s *InventorySnapshot) String() string {
	if len(s.order) == 0 {
		return "InventorySnapshot{empty}"
	}

	ids := append([]string(nil), s.order...)
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "InventorySnapshot{%d providers:\n", len(ids))
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s:", id)
		for _, rt := range entities.AllResourceTypes {
			fmt.Fprintf(&b, " %s=%d/%d", rt.Label(), s.Remaining(id, rt), s.Initial(id, rt))
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
