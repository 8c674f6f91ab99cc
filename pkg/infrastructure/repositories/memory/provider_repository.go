package memory

import (
	"fmt"
	"sync"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/domain/repositories"
)

// ProviderRepository provides in-memory storage for the current provider pool
type ProviderRepository struct {
	mu           sync.RWMutex
	providers    []entities.Provider
	providersMap map[string]int
}

// NewProviderRepository creates a new in-memory provider repository
func NewProviderRepository(expectedProviders int) *ProviderRepository {
	return &ProviderRepository{
		providers:    make([]entities.Provider, 0, expectedProviders),
		providersMap: make(map[string]int, expectedProviders),
	}
}

// Verify interface compliance
var _ repositories.ProviderRepository = (*ProviderRepository)(nil)

// LoadProviders replaces the stored pool with providers, keeping their input order.
// When ids repeat the first record is kept.
func (r *ProviderRepository) LoadProviders(providers []*entities.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers = make([]entities.Provider, 0, len(providers))
	r.providersMap = make(map[string]int, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		if _, exists := r.providersMap[provider.ID]; exists {
			continue
		}
		r.addProvider(*provider)
	}
	return nil
}

// SaveProvider inserts or replaces a single provider
func (r *ProviderRepository) SaveProvider(provider *entities.Provider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addProvider(*provider)
	return nil
}

func (r *ProviderRepository) addProvider(provider entities.Provider) {
	provider.Inventory = provider.Inventory.Clone()
	if index, exists := r.providersMap[provider.ID]; exists {
		r.providers[index] = provider
		return
	}
	r.providersMap[provider.ID] = len(r.providers)
	r.providers = append(r.providers, provider)
}

// GetProvider returns a copy of the provider with the given id
func (r *ProviderRepository) GetProvider(id string) (*entities.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.providersMap[id]
	if !exists {
		return nil, fmt.Errorf("provider %s: %w", id, repositories.ErrNotFound)
	}
	provider := r.providers[index]
	provider.Inventory = provider.Inventory.Clone()
	return &provider, nil
}

// GetAllProviders returns copies of all providers in load order
func (r *ProviderRepository) GetAllProviders() ([]*entities.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]*entities.Provider, 0, len(r.providers))
	for i := range r.providers {
		provider := r.providers[i]
		provider.Inventory = provider.Inventory.Clone()
		providers = append(providers, &provider)
	}
	return providers, nil
}

// GetAvailableQuantity returns the total quantity of a resource type across the pool
func (r *ProviderRepository) GetAvailableQuantity(rt entities.ResourceType) entities.Quantity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total entities.Quantity
	for i := range r.providers {
		total += r.providers[i].Stock(rt)
	}
	return total
}
