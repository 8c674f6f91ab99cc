package memory

import (
	"errors"
	"testing"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/domain/repositories"
)

func TestCampRepository_LoadAndGet(t *testing.T) {
	repo := NewCampRepository(2)

	camps := []*entities.Camp{
		{ID: "C1", Name: "Hub A", Urgency: entities.Immediate, Needs: entities.ResourceQuantities{entities.Food: 100}},
		{ID: "C2", Name: "Hub B", Urgency: entities.TwelveHours, Needs: entities.ResourceQuantities{entities.Water: 50}},
	}

	if err := repo.LoadCamps(camps); err != nil {
		t.Fatalf("Failed to load camps: %v", err)
	}

	retrieved, err := repo.GetCamp("C2")
	if err != nil {
		t.Fatalf("Failed to get camp: %v", err)
	}
	if retrieved.Name != "Hub B" {
		t.Errorf("Expected name Hub B, got %s", retrieved.Name)
	}

	// Mutating the returned copy must not leak into the repository
	retrieved.Needs[entities.Water] = 0
	again, _ := repo.GetCamp("C2")
	if again.Need(entities.Water) != 50 {
		t.Errorf("Expected stored need 50, got %d", again.Need(entities.Water))
	}

	all, err := repo.GetAllCamps()
	if err != nil {
		t.Fatalf("Failed to get all camps: %v", err)
	}
	if len(all) != 2 || all[0].ID != "C1" || all[1].ID != "C2" {
		t.Errorf("Expected camps in load order [C1 C2], got %v", all)
	}

	_, err = repo.GetCamp("missing")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCampRepository_LoadReplacesSnapshot(t *testing.T) {
	repo := NewCampRepository(0)

	_ = repo.LoadCamps([]*entities.Camp{{ID: "C1", Name: "Old"}})
	_ = repo.LoadCamps([]*entities.Camp{{ID: "C9", Name: "New"}, nil})

	all, _ := repo.GetAllCamps()
	if len(all) != 1 || all[0].ID != "C9" {
		t.Fatalf("Expected only C9 after reload, got %v", all)
	}

	if err := repo.SaveCamp(&entities.Camp{ID: "C9", Name: "Renamed"}); err != nil {
		t.Fatalf("Failed to save camp: %v", err)
	}
	all, _ = repo.GetAllCamps()
	if len(all) != 1 || all[0].Name != "Renamed" {
		t.Errorf("Expected SaveCamp to replace in place, got %v", all)
	}
}

func TestCampRepository_LoadKeepsFirstDuplicate(t *testing.T) {
	repo := NewCampRepository(2)

	_ = repo.LoadCamps([]*entities.Camp{
		{ID: "C1", Name: "First"},
		{ID: "C2", Name: "Other"},
		{ID: "C1", Name: "Second"},
	})

	all, _ := repo.GetAllCamps()
	if len(all) != 2 {
		t.Fatalf("Expected 2 camps, got %d", len(all))
	}
	if all[0].Name != "First" {
		t.Errorf("Expected first C1 record to be kept, got %s", all[0].Name)
	}
}
