package entities

import (
	"fmt"
	"strings"
)

// AvailabilityStatus is the self-reported readiness of a provider
type AvailabilityStatus int

const (
	AvailabilityUnknown AvailabilityStatus = iota
	Available
	Limited
	NotAvailable
)

// String method for AvailabilityStatus enum
func (s AvailabilityStatus) String() string {
	switch s {
	case Available:
		return "AVAILABLE"
	case Limited:
		return "LIMITED"
	case NotAvailable:
		return "NOT_AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status using its enum name
func (s AvailabilityStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseAvailabilityStatus maps a registry label to a status; unrecognized labels are unknown
func ParseAvailabilityStatus(s string) AvailabilityStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AVAILABLE":
		return Available
	case "LIMITED":
		return Limited
	case "NOT_AVAILABLE", "NOT AVAILABLE", "UNAVAILABLE":
		return NotAvailable
	default:
		return AvailabilityUnknown
	}
}

// Provider is an NGO or agency supplying relief resources. ResponseTime is how
// fast it can act, not a deadline.
type Provider struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	ResponseTime UrgencyLevel       `json:"urgency"`
	Availability AvailabilityStatus `json:"availabilityStatus"`
	Inventory    ResourceQuantities `json:"inventory"`
	ETALabel     string             `json:"etaLabel"`
}

// NewProvider creates a validated Provider. An empty etaLabel is derived from the response time.
func NewProvider(
	id, name string,
	responseTime UrgencyLevel,
	availability AvailabilityStatus,
	inventory ResourceQuantities,
	etaLabel string,
) (*Provider, error) {
	if id == "" {
		return nil, fmt.Errorf("provider id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("provider name cannot be empty")
	}
	if err := inventory.validate(); err != nil {
		return nil, fmt.Errorf("provider %s: %w", id, err)
	}
	if etaLabel == "" {
		etaLabel = FormatETA(responseTime.String())
	}

	return &Provider{
		ID:           id,
		Name:         name,
		ResponseTime: responseTime,
		Availability: availability,
		Inventory:    inventory.Clone(),
		ETALabel:     etaLabel,
	}, nil
}

// Stock returns the provider's quantity of a resource type
func (p *Provider) Stock(rt ResourceType) Quantity {
	return p.Inventory.Get(rt)
}

// HasStock reports whether the provider holds any quantity of any resource
func (p *Provider) HasStock() bool {
	for _, rt := range AllResourceTypes {
		if p.Stock(rt) > 0 {
			return true
		}
	}
	return false
}

// CanServe reports whether the provider responds at least as fast as the camp requires
func (p *Provider) CanServe(camp *Camp) bool {
	return Rank(p.ResponseTime) <= Rank(camp.Urgency)
}
