package entities

import (
	"fmt"
	"strings"
	"time"
)

// AllocationStatus tracks operator-driven progress of an allocation
type AllocationStatus int

const (
	StatusAssigned AllocationStatus = iota
	StatusDispatched
	StatusDelivered
)

// String method for AllocationStatus enum
func (s AllocationStatus) String() string {
	switch s {
	case StatusAssigned:
		return "ASSIGNED"
	case StatusDispatched:
		return "DISPATCHED"
	case StatusDelivered:
		return "DELIVERED"
	default:
		return "Unknown"
	}
}

// MarshalText renders the status using its enum name
func (s AllocationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Next advances the cycle ASSIGNED -> DISPATCHED -> DELIVERED -> ASSIGNED
func (s AllocationStatus) Next() AllocationStatus {
	switch s {
	case StatusAssigned:
		return StatusDispatched
	case StatusDispatched:
		return StatusDelivered
	default:
		return StatusAssigned
	}
}

// Previous is the inverse of Next
func (s AllocationStatus) Previous() AllocationStatus {
	switch s {
	case StatusDispatched:
		return StatusAssigned
	case StatusDelivered:
		return StatusDispatched
	default:
		return StatusDelivered
	}
}

// ParseAllocationStatus parses a status name case-insensitively
func ParseAllocationStatus(s string) (AllocationStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASSIGNED":
		return StatusAssigned, nil
	case "DISPATCHED":
		return StatusDispatched, nil
	case "DELIVERED":
		return StatusDelivered, nil
	default:
		return StatusAssigned, fmt.Errorf("invalid allocation status: %s (expected ASSIGNED, DISPATCHED or DELIVERED)", s)
	}
}

// AllocationID identifies a camp/provider pairing. It is stable across recomputations.
type AllocationID string

// NewAllocationID derives the identity of the allocation between a camp and a provider
func NewAllocationID(campID, providerID string) AllocationID {
	return AllocationID(campID + "-" + providerID)
}

// AllocationFragment is one provider's contribution to one camp for one resource type
type AllocationFragment struct {
	CampID     string
	ProviderID string
	Resource   ResourceType
	Quantity   Quantity
}

// ResourceLine is a single resource line item on an allocation
type ResourceLine struct {
	Resource ResourceType `json:"resource"`
	Label    string       `json:"label"`
	Quantity Quantity     `json:"quantity"`
}

// Allocation aggregates every resource a provider sends to a camp in one pass
type Allocation struct {
	ID           AllocationID     `json:"id"`
	CampID       string           `json:"campId"`
	CampName     string           `json:"campName"`
	CampUrgency  UrgencyLevel     `json:"campUrgency"`
	ProviderID   string           `json:"providerId"`
	ProviderName string           `json:"providerName"`
	ETALabel     string           `json:"etaLabel"`
	Resources    []ResourceLine   `json:"resources"`
	Status       AllocationStatus `json:"status"`
}

// Quantity returns the quantity of a resource type on this allocation
func (a *Allocation) Quantity(rt ResourceType) Quantity {
	var total Quantity
	for _, line := range a.Resources {
		if line.Resource == rt {
			total += line.Quantity
		}
	}
	return total
}

// Shortfall is the unmet portion of a camp's need after every eligible provider is exhausted
type Shortfall struct {
	CampID    string       `json:"campId"`
	CampName  string       `json:"campName"`
	Urgency   UrgencyLevel `json:"urgency"`
	Resource  ResourceType `json:"resource"`
	Requested Quantity     `json:"requested"`
	Fulfilled Quantity     `json:"fulfilled"`
	Unmet     Quantity     `json:"unmet"`
}

// LogEntry is one human-readable line in the mission log feed
type LogEntry struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}
