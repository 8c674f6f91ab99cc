package entities

import "fmt"

// Camp is a relief site whose needs must be covered within its urgency window
type Camp struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Urgency UrgencyLevel       `json:"urgency"`
	Needs   ResourceQuantities `json:"needs"`
}

// NewCamp creates a validated Camp
func NewCamp(id, name string, urgency UrgencyLevel, needs ResourceQuantities) (*Camp, error) {
	if id == "" {
		return nil, fmt.Errorf("camp id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("camp name cannot be empty")
	}
	if err := needs.validate(); err != nil {
		return nil, fmt.Errorf("camp %s: %w", id, err)
	}

	return &Camp{
		ID:      id,
		Name:    name,
		Urgency: urgency,
		Needs:   needs.Clone(),
	}, nil
}

// Need returns the required quantity for a resource type
func (c *Camp) Need(rt ResourceType) Quantity {
	return c.Needs.Get(rt)
}
