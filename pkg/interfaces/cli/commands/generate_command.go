package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	csvrepo "github.com/idro/reliefmatch/pkg/infrastructure/repositories/csv"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/scenario"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Camps     int     // Number of camps to generate
	Providers int     // Number of providers to generate
	Coverage  float64 // Supply multiplier (e.g., 0.5 = half of total need, 2.0 = twice the need)
	Format    string  // "csv" writes camps.csv and providers.csv, "yaml" writes scenario.yaml
	OutputDir string  // Output directory for generated files
	Seed      int64   // Random seed for reproducible generation
	Verbose   bool    // Verbose output
	Env       Environment
}

// GenerateCommand handles synthetic disaster scenario generation
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

var (
	campSites = []string{
		"Aluva", "Chalakudy", "Kuttanad", "Pathanamthitta", "Chengannur",
		"Wayanad", "Thrissur", "Ranni", "Muvattupuzha", "Kozhikode",
	}
	campKinds = []string{"Relief Hub", "School Camp", "Community Hall", "Stadium Shelter", "Parish Hall"}

	providerNames = []string{
		"Seva Foundation", "NDRF Battalion", "Red Cross Unit", "Goonj Relief",
		"District Health Office", "Fisherfolk Collective", "Army Engineers", "Rotary Supplies",
	}

	// Typical need ranges per camp, [min, max)
	needRanges = map[entities.ResourceType][2]int{
		entities.Food:        {50, 400},
		entities.Water:       {50, 500},
		entities.Beds:        {10, 150},
		entities.MedicalKits: {5, 60},
		entities.Ambulances:  {1, 4},
	}

	urgencies = []entities.UrgencyLevel{
		entities.Immediate, entities.SixHours, entities.TwelveHours, entities.TwentyFourHours,
	}
)

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Camps <= 0 || cmd.config.Providers <= 0 {
		return fmt.Errorf("camps and providers must be positive (got %d camps, %d providers)",
			cmd.config.Camps, cmd.config.Providers)
	}
	if cmd.config.Coverage < 0 {
		return fmt.Errorf("coverage cannot be negative: %.2f", cmd.config.Coverage)
	}

	out := cmd.config.Env.out()
	if cmd.config.Verbose {
		fmt.Fprintf(out, "🔧 Generating scenario with %d camps, %d providers, %.1fx supply coverage\n",
			cmd.config.Camps, cmd.config.Providers, cmd.config.Coverage)
		fmt.Fprintf(out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	camps := cmd.generateCamps()
	providers := cmd.generateProviders(camps)

	if err := ctx.Err(); err != nil {
		return err
	}

	switch cmd.config.Format {
	case "csv", "":
		if cmd.config.Verbose {
			fmt.Fprintln(out, "🏕️  Generating camps.csv...")
		}
		if err := csvrepo.SaveCamps(filepath.Join(cmd.config.OutputDir, CampsFileName), camps); err != nil {
			return fmt.Errorf("failed to generate camps: %w", err)
		}
		if cmd.config.Verbose {
			fmt.Fprintln(out, "🚚 Generating providers.csv...")
		}
		if err := csvrepo.SaveProviders(filepath.Join(cmd.config.OutputDir, ProvidersFileName), providers); err != nil {
			return fmt.Errorf("failed to generate providers: %w", err)
		}
	case "yaml":
		if cmd.config.Verbose {
			fmt.Fprintln(out, "📄 Generating scenario.yaml...")
		}
		if err := cmd.writeScenario(camps, providers); err != nil {
			return fmt.Errorf("failed to generate scenario: %w", err)
		}
	default:
		return fmt.Errorf("unsupported scenario format: %s", cmd.config.Format)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

// generateCamps creates camps with a random urgency and a random subset of needs
func (cmd *GenerateCommand) generateCamps() []*entities.Camp {
	camps := make([]*entities.Camp, 0, cmd.config.Camps)
	for i := 0; i < cmd.config.Camps; i++ {
		needs := make(entities.ResourceQuantities)
		for _, rt := range entities.AllResourceTypes {
			// Every camp needs food and water; other resources 60% of the time
			if rt != entities.Food && rt != entities.Water && cmd.rand.Float64() >= 0.6 {
				continue
			}
			bounds := needRanges[rt]
			needs[rt] = entities.Quantity(bounds[0] + cmd.rand.Intn(bounds[1]-bounds[0]))
		}

		site := campSites[cmd.rand.Intn(len(campSites))]
		kind := campKinds[cmd.rand.Intn(len(campKinds))]
		camps = append(camps, &entities.Camp{
			ID:      fmt.Sprintf("C%d", i+1),
			Name:    fmt.Sprintf("%s %s", site, kind),
			Urgency: cmd.generateUrgency(),
			Needs:   needs,
		})
	}
	return camps
}

// generateProviders spreads Coverage times the total need over the providers
// in random shares
func (cmd *GenerateCommand) generateProviders(camps []*entities.Camp) []*entities.Provider {
	providers := make([]*entities.Provider, 0, cmd.config.Providers)
	for i := 0; i < cmd.config.Providers; i++ {
		responseTime := cmd.generateUrgency()
		providers = append(providers, &entities.Provider{
			ID:           fmt.Sprintf("P%d", i+1),
			Name:         providerNames[i%len(providerNames)],
			ResponseTime: responseTime,
			Availability: cmd.generateAvailability(),
			Inventory:    make(entities.ResourceQuantities),
			ETALabel:     entities.FormatETA(responseTime.String()),
		})
	}

	for _, rt := range entities.AllResourceTypes {
		var need entities.Quantity
		for _, camp := range camps {
			need += camp.Need(rt)
		}
		supply := entities.Quantity(float64(need) * cmd.config.Coverage)
		if supply <= 0 {
			continue
		}

		weights := make([]float64, len(providers))
		var totalWeight float64
		for i := range weights {
			weights[i] = cmd.rand.Float64()
			totalWeight += weights[i]
		}

		var assigned entities.Quantity
		for i, provider := range providers {
			share := entities.Quantity(float64(supply) * weights[i] / totalWeight)
			if i == len(providers)-1 {
				share = supply - assigned
			}
			if share > 0 {
				provider.Inventory[rt] = share
			}
			assigned += share
		}
	}
	return providers
}

// generateUrgency favours the shorter windows during the first hours of a disaster
func (cmd *GenerateCommand) generateUrgency() entities.UrgencyLevel {
	roll := cmd.rand.Float64()
	switch {
	case roll < 0.35:
		return urgencies[0]
	case roll < 0.65:
		return urgencies[1]
	case roll < 0.85:
		return urgencies[2]
	default:
		return urgencies[3]
	}
}

func (cmd *GenerateCommand) generateAvailability() entities.AvailabilityStatus {
	roll := cmd.rand.Float64()
	switch {
	case roll < 0.7:
		return entities.Available
	case roll < 0.9:
		return entities.Limited
	default:
		return entities.NotAvailable
	}
}

func (cmd *GenerateCommand) writeScenario(camps []*entities.Camp, providers []*entities.Provider) error {
	path := filepath.Join(cmd.config.OutputDir, ScenarioFileName)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := scenario.Encode(file, scenario.FromEntities(camps, providers)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
