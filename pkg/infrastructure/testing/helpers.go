package testing

import (
	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/memory"
)

// mustCreateCamp is a helper for tests - panics on validation error
func mustCreateCamp(id, name string, urgency entities.UrgencyLevel, needs entities.ResourceQuantities) *entities.Camp {
	camp, err := entities.NewCamp(id, name, urgency, needs)
	if err != nil {
		panic(err)
	}
	return camp
}

// mustCreateProvider is a helper for tests - panics on validation error
func mustCreateProvider(
	id, name string,
	responseTime entities.UrgencyLevel,
	availability entities.AvailabilityStatus,
	inventory entities.ResourceQuantities,
	etaLabel string,
) *entities.Provider {
	provider, err := entities.NewProvider(id, name, responseTime, availability, inventory, etaLabel)
	if err != nil {
		panic(err)
	}
	return provider
}

// FloodCamps returns the camps of the flood scenario, most urgent first
func FloodCamps() []*entities.Camp {
	return []*entities.Camp{
		mustCreateCamp("C1", "Aluva Relief Camp", entities.Immediate, entities.ResourceQuantities{
			entities.Food: 200, entities.Water: 300, entities.MedicalKits: 40, entities.Ambulances: 2,
		}),
		mustCreateCamp("C2", "Chalakudy School Shelter", entities.SixHours, entities.ResourceQuantities{
			entities.Food: 150, entities.Water: 100, entities.Beds: 80,
		}),
		mustCreateCamp("C3", "Pathanamthitta Town Hall", entities.TwelveHours, entities.ResourceQuantities{
			entities.Food: 100, entities.Beds: 60, entities.MedicalKits: 20,
		}),
		mustCreateCamp("C4", "Wayanad Community Centre", entities.TwentyFourHours, entities.ResourceQuantities{
			entities.Water: 200, entities.Beds: 50,
		}),
	}
}

// FloodProviders returns the provider pool of the flood scenario. P5 holds no
// stock and is dropped at ingestion.
func FloodProviders() []*entities.Provider {
	return []*entities.Provider{
		mustCreateProvider("P1", "NDRF Battalion 4", entities.Immediate, entities.Available, entities.ResourceQuantities{
			entities.Food: 120, entities.Water: 200, entities.MedicalKits: 30, entities.Ambulances: 3,
		}, "1-2 HRS"),
		mustCreateProvider("P2", "Seva Foundation", entities.SixHours, entities.Available, entities.ResourceQuantities{
			entities.Food: 150, entities.Water: 150, entities.Beds: 40,
		}, ""),
		mustCreateProvider("P3", "Red Cross Kerala", entities.TwelveHours, entities.Limited, entities.ResourceQuantities{
			entities.Food: 100, entities.Beds: 100, entities.MedicalKits: 25,
		}, "4-6 HRS"),
		mustCreateProvider("P4", "State Disaster Cell", entities.TwentyFourHours, entities.Available, entities.ResourceQuantities{
			entities.Water: 300, entities.Beds: 30,
		}, "12+ HRS"),
		mustCreateProvider("P5", "Idle Depot", entities.SixHours, entities.NotAvailable, nil, ""),
	}
}

// BuildFloodTestData builds repositories holding the flood scenario:
//
//	C1-P1  Food 120, Water 200, MedKits 30, Ambulances 2
//	C2-P2  Food 150, Water 100, Beds 40
//	C3-P3  Food 100, Beds 60, MedKits 20
//	C4-P4  Water 200, Beds 30
//	C4-P3  Beds 20
//
// with shortfalls C1 Food 80, C1 Water 100, C1 MedKits 10 and C2 Beds 40.
func BuildFloodTestData() (*memory.CampRepository, *memory.ProviderRepository, *memory.StatusRepository) {
	campRepo := memory.NewCampRepository(4)
	providerRepo := memory.NewProviderRepository(5)

	if err := campRepo.LoadCamps(FloodCamps()); err != nil {
		panic(err)
	}
	if err := providerRepo.LoadProviders(FloodProviders()); err != nil {
		panic(err)
	}
	return campRepo, providerRepo, memory.NewStatusRepository()
}

// BuildSimpleTestData builds the two-camp scenario in which the urgent camp
// exhausts the only fast provider and the slower camp has no eligible supply.
func BuildSimpleTestData() (*memory.CampRepository, *memory.ProviderRepository, *memory.StatusRepository) {
	campRepo := memory.NewCampRepository(2)
	providerRepo := memory.NewProviderRepository(2)

	camps := []*entities.Camp{
		mustCreateCamp("A", "Camp A", entities.Immediate, entities.ResourceQuantities{entities.Food: 100}),
		mustCreateCamp("B", "Camp B", entities.TwelveHours, entities.ResourceQuantities{entities.Food: 50}),
	}
	providers := []*entities.Provider{
		mustCreateProvider("X", "Provider X", entities.Immediate, entities.Available, entities.ResourceQuantities{entities.Food: 60}, ""),
		mustCreateProvider("Y", "Provider Y", entities.TwentyFourHours, entities.Available, entities.ResourceQuantities{entities.Food: 100}, ""),
	}

	if err := campRepo.LoadCamps(camps); err != nil {
		panic(err)
	}
	if err := providerRepo.LoadProviders(providers); err != nil {
		panic(err)
	}
	return campRepo, providerRepo, memory.NewStatusRepository()
}
