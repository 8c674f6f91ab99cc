package repositories

import (
	"errors"

	"github.com/idro/reliefmatch/pkg/domain/entities"
)

// ErrNotFound is returned when a record does not exist in a repository
var ErrNotFound = errors.New("not found")

// StatusRepository holds operator-set allocation statuses. Entries are keyed by
// allocation identity and outlive any single recomputation.
type StatusRepository interface {
	// Status returns the recorded status, or StatusAssigned and false when none was set
	Status(id entities.AllocationID) (entities.AllocationStatus, bool)
	// Toggle advances the status of id one step through its cycle and returns the new value
	Toggle(id entities.AllocationID) entities.AllocationStatus
	Set(id entities.AllocationID, status entities.AllocationStatus)
	// Snapshot returns a copy of every recorded status
	Snapshot() map[entities.AllocationID]entities.AllocationStatus
}
