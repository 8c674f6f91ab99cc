package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// FulfillmentLine compares requested and fulfilled quantity for one camp and resource
type FulfillmentLine struct {
	CampID    string                `json:"campId"`
	CampName  string                `json:"campName"`
	Urgency   entities.UrgencyLevel `json:"urgency"`
	Resource  entities.ResourceType `json:"resource"`
	Label     string                `json:"label"`
	Requested entities.Quantity     `json:"requested"`
	Fulfilled entities.Quantity     `json:"fulfilled"`
	Unmet     entities.Quantity     `json:"unmet"`
	Coverage  decimal.Decimal       `json:"coverage"`
}

// ResourceTotal aggregates fulfillment for one resource type across all camps
type ResourceTotal struct {
	Resource  entities.ResourceType `json:"resource"`
	Label     string                `json:"label"`
	Requested entities.Quantity     `json:"requested"`
	Fulfilled entities.Quantity     `json:"fulfilled"`
	Unmet     entities.Quantity     `json:"unmet"`
	Coverage  decimal.Decimal       `json:"coverage"`
}

// FulfillmentReport summarizes how much of the stated need a plan covers.
// Coverage values are percentages rounded to two decimal places.
type FulfillmentReport struct {
	RunID           string            `json:"runId,omitempty"`
	ComputedAt      time.Time         `json:"computedAt"`
	Lines           []FulfillmentLine `json:"lines"`
	Totals          []ResourceTotal   `json:"totals"`
	OverallCoverage decimal.Decimal   `json:"overallCoverage"`
	FullyCovered    int               `json:"fullyCoveredCamps"`
	PartlyCovered   int               `json:"partlyCoveredCamps"`
	Uncovered       int               `json:"uncoveredCamps"`
}
