package memory

import (
	"fmt"
	"sync"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/domain/repositories"
)

// CampRepository provides in-memory storage for the current camp snapshot
type CampRepository struct {
	mu       sync.RWMutex
	camps    []entities.Camp
	campsMap map[string]int
}

// NewCampRepository creates a new in-memory camp repository
func NewCampRepository(expectedCamps int) *CampRepository {
	return &CampRepository{
		camps:    make([]entities.Camp, 0, expectedCamps),
		campsMap: make(map[string]int, expectedCamps),
	}
}

// Verify interface compliance
var _ repositories.CampRepository = (*CampRepository)(nil)

// LoadCamps replaces the stored snapshot with camps, keeping their input order.
// When ids repeat the first record is kept.
func (r *CampRepository) LoadCamps(camps []*entities.Camp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.camps = make([]entities.Camp, 0, len(camps))
	r.campsMap = make(map[string]int, len(camps))
	for _, camp := range camps {
		if camp == nil {
			continue
		}
		if _, exists := r.campsMap[camp.ID]; exists {
			continue
		}
		r.addCamp(*camp)
	}
	return nil
}

// SaveCamp inserts or replaces a single camp
func (r *CampRepository) SaveCamp(camp *entities.Camp) error {
	if camp == nil {
		return fmt.Errorf("camp cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addCamp(*camp)
	return nil
}

func (r *CampRepository) addCamp(camp entities.Camp) {
	camp.Needs = camp.Needs.Clone()
	if index, exists := r.campsMap[camp.ID]; exists {
		r.camps[index] = camp
		return
	}
	r.campsMap[camp.ID] = len(r.camps)
	r.camps = append(r.camps, camp)
}

// GetCamp returns a copy of the camp with the given id
func (r *CampRepository) GetCamp(id string) (*entities.Camp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.campsMap[id]
	if !exists {
		return nil, fmt.Errorf("camp %s: %w", id, repositories.ErrNotFound)
	}
	camp := r.camps[index]
	camp.Needs = camp.Needs.Clone()
	return &camp, nil
}

// GetAllCamps returns copies of all camps in load order
func (r *CampRepository) GetAllCamps() ([]*entities.Camp, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	camps := make([]*entities.Camp, 0, len(r.camps))
	for i := range r.camps {
		camp := r.camps[i]
		camp.Needs = camp.Needs.Clone()
		camps = append(camps, &camp)
	}
	return camps, nil
}
