package events

import (
	"github.com/idro/reliefmatch/pkg/domain/entities"
)

const (
	AllocationAssignedEvent      = "allocation.assigned"
	AllocationStatusChangedEvent = "allocation.status_changed"
	ShortfallIdentifiedEvent     = "shortfall.identified"
	PlanRecomputedEvent          = "plan.recomputed"
)

// PlanStreamID is the stream that carries one event per recomputation
const PlanStreamID = "plan"

type AllocationAssigned struct {
	RunID      string              `json:"run_id"`
	Allocation entities.Allocation `json:"allocation"`
}

type AllocationStatusChanged struct {
	AllocationID entities.AllocationID     `json:"allocation_id"`
	From         entities.AllocationStatus `json:"from"`
	To           entities.AllocationStatus `json:"to"`
}

type ShortfallIdentified struct {
	RunID     string             `json:"run_id"`
	Shortfall entities.Shortfall `json:"shortfall"`
}

type PlanRecomputed struct {
	RunID          string `json:"run_id"`
	Camps          int    `json:"camps"`
	Providers      int    `json:"providers"`
	Allocations    int    `json:"allocations"`
	Shortfalls     int    `json:"shortfalls"`
	NewLogEntries  int    `json:"new_log_entries"`
	DurationMillis int64  `json:"duration_ms"`
}

func NewAllocationAssignedEvent(runID string, alloc entities.Allocation) Event {
	return NewEvent(AllocationAssignedEvent, string(alloc.ID), AllocationAssigned{
		RunID:      runID,
		Allocation: alloc,
	})
}

func NewAllocationStatusChangedEvent(id entities.AllocationID, from, to entities.AllocationStatus) Event {
	return NewEvent(AllocationStatusChangedEvent, string(id), AllocationStatusChanged{
		AllocationID: id,
		From:         from,
		To:           to,
	})
}

func NewShortfallIdentifiedEvent(runID string, shortfall entities.Shortfall) Event {
	return NewEvent(ShortfallIdentifiedEvent, shortfall.CampID, ShortfallIdentified{
		RunID:     runID,
		Shortfall: shortfall,
	})
}

func NewPlanRecomputedEvent(summary PlanRecomputed) Event {
	return NewEvent(PlanRecomputedEvent, PlanStreamID, summary)
}
