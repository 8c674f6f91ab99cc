package repositories

import "github.com/idro/reliefmatch/pkg/domain/entities"

// ProviderRepository provides access to the latest provider pool snapshot.
// Implementations must return copies: the engine never writes back to the registry.
type ProviderRepository interface {
	GetProvider(id string) (*entities.Provider, error)
	GetAllProviders() ([]*entities.Provider, error)
	LoadProviders(providers []*entities.Provider) error
}
