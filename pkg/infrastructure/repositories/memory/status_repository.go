package memory

import (
	"sync"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/domain/repositories"
)

// StatusRepository is the allocation status tracker. It is keyed by allocation
// identity only, so recomputing the allocation list never resets it.
type StatusRepository struct {
	mu       sync.RWMutex
	statuses map[entities.AllocationID]entities.AllocationStatus
}

// NewStatusRepository creates an empty status tracker
func NewStatusRepository() *StatusRepository {
	return &StatusRepository{
		statuses: make(map[entities.AllocationID]entities.AllocationStatus),
	}
}

// Verify interface compliance
var _ repositories.StatusRepository = (*StatusRepository)(nil)

// Status returns the recorded status for id
func (r *StatusRepository) Status(id entities.AllocationID) (entities.AllocationStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status, ok := r.statuses[id]
	if !ok {
		return entities.StatusAssigned, false
	}
	return status, true
}

// Toggle advances id through ASSIGNED -> DISPATCHED -> DELIVERED -> ASSIGNED
func (r *StatusRepository) Toggle(id entities.AllocationID) entities.AllocationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.statuses[id].Next()
	r.statuses[id] = next
	return next
}

// Set records status for id
func (r *StatusRepository) Set(id entities.AllocationID, status entities.AllocationStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses[id] = status
}

// Snapshot returns a copy of every recorded status
func (r *StatusRepository) Snapshot() map[entities.AllocationID]entities.AllocationStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[entities.AllocationID]entities.AllocationStatus, len(r.statuses))
	for id, status := range r.statuses {
		out[id] = status
	}
	return out
}
