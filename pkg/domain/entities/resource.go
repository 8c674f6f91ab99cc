package entities

import (
	"fmt"
	"strings"
)

// ResourceType is one of the closed set of relief resources. Each type is
// allocated independently of the others.
type ResourceType int

const (
	Food ResourceType = iota
	Water
	Beds
	MedicalKits
	Ambulances
)

// AllResourceTypes lists every resource type in allocation order
var AllResourceTypes = []ResourceType{Food, Water, Beds, MedicalKits, Ambulances}

// String method for ResourceType enum
func (r ResourceType) String() string {
	switch r {
	case Food:
		return "FOOD"
	case Water:
		return "WATER"
	case Beds:
		return "BEDS"
	case MedicalKits:
		return "MEDICAL_KITS"
	case Ambulances:
		return "AMBULANCES"
	default:
		return "Unknown"
	}
}

// Label is the human-readable name used in line items and mission log text
func (r ResourceType) Label() string {
	switch r {
	case Food:
		return "Food"
	case Water:
		return "Water"
	case Beds:
		return "Beds"
	case MedicalKits:
		return "MedKits"
	case Ambulances:
		return "Ambulances"
	default:
		return "Unknown"
	}
}

// MarshalText renders the resource type using its enum name
func (r ResourceType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses enum names, labels and registry keys
func (r *ResourceType) UnmarshalText(text []byte) error {
	parsed, err := ParseResourceType(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResourceType accepts enum names (MEDICAL_KITS), labels (MedKits) and the
// lower-case registry keys used by provider records (medkits, food, ...).
func ParseResourceType(s string) (ResourceType, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	switch key {
	case "FOOD", "FOOD_PACKETS":
		return Food, nil
	case "WATER", "WATER_LITERS", "DRINKING_WATER":
		return Water, nil
	case "BEDS", "BED":
		return Beds, nil
	case "MEDICAL_KITS", "MEDKITS", "MED_KITS", "FIRST_AID_KITS":
		return MedicalKits, nil
	case "AMBULANCES", "AMBULANCE":
		return Ambulances, nil
	default:
		return Food, fmt.Errorf("invalid resource type: %s (expected FOOD, WATER, BEDS, MEDICAL_KITS or AMBULANCES)", s)
	}
}

// ResourceQuantities maps resource types to a quantity. A missing key means zero.
type ResourceQuantities map[ResourceType]Quantity

// Get returns the quantity for a resource type, zero if absent
func (q ResourceQuantities) Get(rt ResourceType) Quantity {
	if q == nil {
		return 0
	}
	return q[rt]
}

// Clone returns an independent copy
func (q ResourceQuantities) Clone() ResourceQuantities {
	out := make(ResourceQuantities, len(q))
	for rt, qty := range q {
		out[rt] = qty
	}
	return out
}

// Total sums every resource type
func (q ResourceQuantities) Total() Quantity {
	var total Quantity
	for _, qty := range q {
		total += qty
	}
	return total
}

func (q ResourceQuantities) validate() error {
	for rt, qty := range q {
		if qty < 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidQuantity, rt, qty)
		}
	}
	return nil
}
