package main

import (
	"context"
	"fmt"

	"github.com/idro/reliefmatch/pkg/application/services/orchestration"
	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()

	// Create repositories
	campRepo := memory.NewCampRepository(2)
	providerRepo := memory.NewProviderRepository(2)
	statusRepo := memory.NewStatusRepository()

	// Set up an urgent camp that can only be reached by the fast provider
	setupFloodScenario(campRepo, providerRepo)

	// Create relief engine
	engine := orchestration.NewReliefEngine(campRepo, providerRepo, statusRepo)

	fmt.Println("🚑 Allocating relief for the flood response...")
	fmt.Println()

	plan, err := engine.Recompute(ctx)
	if err != nil {
		fmt.Printf("❌ Allocation failed: %v\n", err)
		return
	}

	// Display results
	fmt.Println("📊 Allocation Results:")
	fmt.Printf("  %s\n", plan.GetSummary())
	fmt.Println()

	if len(plan.Allocations) > 0 {
		fmt.Println("🚚 Allocations:")
		for _, alloc := range plan.Allocations {
			fmt.Printf("  %s: %s -> %s (ETA %s)\n", alloc.ID, alloc.ProviderName, alloc.CampName, alloc.ETALabel)
			for _, line := range alloc.Resources {
				fmt.Printf("    %d %s\n", line.Quantity, line.Label)
			}
		}
		fmt.Println()
	}

	if len(plan.Shortfalls) > 0 {
		fmt.Println("🚨 Shortfalls:")
		for _, s := range plan.Shortfalls {
			fmt.Printf("  %s: %d of %d %s unmet\n", s.CampName, s.Unmet, s.Requested, s.Resource.Label())
		}
		fmt.Println()
	}

	// Mark the first allocation dispatched; the status survives recomputation
	if len(plan.Allocations) > 0 {
		id := plan.Allocations[0].ID
		status, err := engine.ToggleStatus(ctx, id)
		if err != nil {
			fmt.Printf("❌ Toggle failed: %v\n", err)
			return
		}
		fmt.Printf("📌 %s is now %s\n", id, status)

		if _, err := engine.Recompute(ctx); err != nil {
			fmt.Printf("❌ Allocation failed: %v\n", err)
			return
		}
		fmt.Printf("🔁 After recompute %s is still %s\n", id, engine.LatestPlan().FindAllocation(id).Status)
		fmt.Println()
	}

	fmt.Println("🛰️  Mission Log:")
	for _, entry := range engine.MissionLog() {
		fmt.Printf("  %s\n", entry.Text)
	}
	fmt.Println()

	fmt.Println("✅ Allocation complete!")
}

func setupFloodScenario(campRepo *memory.CampRepository, providerRepo *memory.ProviderRepository) {
	camps := []*entities.Camp{
		{ID: "A", Name: "Aluva Relief Camp", Urgency: entities.Immediate,
			Needs: entities.ResourceQuantities{entities.Food: 100}},
		{ID: "B", Name: "Thrissur School Shelter", Urgency: entities.TwelveHours,
			Needs: entities.ResourceQuantities{entities.Food: 50, entities.Water: 10}},
	}
	providers := []*entities.Provider{
		{ID: "X", Name: "NDRF Battalion", ResponseTime: entities.Immediate, Availability: entities.Available,
			Inventory: entities.ResourceQuantities{entities.Food: 60, entities.Water: 20}, ETALabel: "1-2 HRS"},
		{ID: "Y", Name: "Seva Foundation", ResponseTime: entities.TwelveHours, Availability: entities.Available,
			Inventory: entities.ResourceQuantities{entities.Water: 20}},
		{ID: "Z", Name: "State Depot", ResponseTime: entities.TwentyFourHours, Availability: entities.Available,
			Inventory: entities.ResourceQuantities{entities.Food: 100}},
	}

	if err := campRepo.LoadCamps(camps); err != nil {
		panic(err)
	}
	if err := providerRepo.LoadProviders(providers); err != nil {
		panic(err)
	}
}
