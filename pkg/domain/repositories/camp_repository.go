package repositories

import "github.com/idro/reliefmatch/pkg/domain/entities"

// CampRepository provides access to the latest camp snapshot
type CampRepository interface {
	GetCamp(id string) (*entities.Camp, error)
	GetAllCamps() ([]*entities.Camp, error)
	LoadCamps(camps []*entities.Camp) error
}
