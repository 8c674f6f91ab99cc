package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	csvrepo "github.com/idro/reliefmatch/pkg/infrastructure/repositories/csv"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/scenario"
	testinghelpers "github.com/idro/reliefmatch/pkg/infrastructure/testing"
)

const floodSummary = "5 allocations for 4 camps from 4 providers, 4 shortfalls (230 units unmet)"

// writeFloodScenario writes the flood scenario as camps.csv and providers.csv
func writeFloodScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, csvrepo.SaveCamps(filepath.Join(dir, CampsFileName), testinghelpers.FloodCamps()))
	require.NoError(t, csvrepo.SaveProviders(filepath.Join(dir, ProvidersFileName), testinghelpers.FloodProviders()))
	return dir
}

func testEnv(out *bytes.Buffer) Environment {
	return Environment{MissionLogCapacity: 50, MetricsEnabled: true, Out: out}
}

func TestInputConfig_Resolve(t *testing.T) {
	dir := writeFloodScenario(t)

	testCases := []struct {
		name        string
		input       InputConfig
		expectError string
	}{
		{"scenario directory", InputConfig{ScenarioDir: dir}, ""},
		{"explicit files", InputConfig{
			CampsFile:     filepath.Join(dir, CampsFileName),
			ProvidersFile: filepath.Join(dir, ProvidersFileName),
		}, ""},
		{"nothing given", InputConfig{}, "must specify"},
		{"missing providers", InputConfig{CampsFile: filepath.Join(dir, CampsFileName)}, "must specify"},
		{"missing directory", InputConfig{ScenarioDir: filepath.Join(dir, "nope")}, "file not found"},
		{"missing scenario", InputConfig{ScenarioFile: filepath.Join(dir, "scenario.yaml")}, "scenario file not found"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.input.resolve()
			if tc.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectError)
		})
	}
}

func TestLoadSnapshots_CSVAndYAMLAgree(t *testing.T) {
	dir := writeFloodScenario(t)
	ctx := context.Background()

	camps, providers, err := loadSnapshots(ctx, InputConfig{ScenarioDir: dir})
	require.NoError(t, err)
	assert.Len(t, camps, 4)
	assert.Len(t, providers, 5)

	yamlDir := t.TempDir()
	file, err := os.Create(filepath.Join(yamlDir, ScenarioFileName))
	require.NoError(t, err)
	require.NoError(t, scenario.Encode(file, scenario.FromEntities(camps, providers)))
	require.NoError(t, file.Close())

	// scenario.yaml takes precedence inside a directory
	yamlCamps, yamlProviders, err := loadSnapshots(ctx, InputConfig{ScenarioDir: yamlDir})
	require.NoError(t, err)
	assert.Equal(t, camps, yamlCamps)
	assert.Equal(t, len(providers), len(yamlProviders))
	assert.Equal(t, providers[0].Inventory, yamlProviders[0].Inventory)
}

func TestAllocateCommand_TextOutput(t *testing.T) {
	dir := writeFloodScenario(t)
	metricsFile := filepath.Join(t.TempDir(), "relief.prom")

	var out bytes.Buffer
	cmd := NewAllocateCommand(AllocateConfig{
		Input:       InputConfig{ScenarioDir: dir},
		Format:      "text",
		MetricsFile: metricsFile,
		Env:         testEnv(&out),
	})
	require.NoError(t, cmd.Execute(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Allocations: 5")
	assert.Contains(t, text, "Shortfalls: 4")
	assert.Contains(t, text, "C1-P1")
	assert.Contains(t, text, "120 Food assigned to Aluva Relief Camp from NDRF Battalion 4")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "relief_recomputations_total 1")
}

func TestAllocateCommand_MetricsDisabled(t *testing.T) {
	dir := writeFloodScenario(t)

	var out bytes.Buffer
	env := testEnv(&out)
	env.MetricsEnabled = false
	cmd := NewAllocateCommand(AllocateConfig{
		Input:       InputConfig{ScenarioDir: dir},
		Format:      "json",
		MetricsFile: filepath.Join(t.TempDir(), "relief.prom"),
		Env:         env,
	})

	err := cmd.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics are disabled")
	assert.Contains(t, out.String(), `"missionLog"`, "plan is still rendered")
}

func TestToggleCommand_PersistsStatuses(t *testing.T) {
	dir := writeFloodScenario(t)
	statusFile := filepath.Join(t.TempDir(), "statuses.yaml")
	ctx := context.Background()

	toggle := func(ids ...string) string {
		var out bytes.Buffer
		err := NewToggleCommand(ToggleConfig{
			Input:         InputConfig{ScenarioDir: dir},
			StatusFile:    statusFile,
			AllocationIDs: ids,
			Env:           testEnv(&out),
		}).Execute(ctx)
		require.NoError(t, err)
		return out.String()
	}

	assert.Equal(t, "C1-P1 is now DISPATCHED\n", toggle("C1-P1"))
	assert.Equal(t, "C1-P1 is now DELIVERED\nC4-P3 is now DISPATCHED\n", toggle("C1-P1", "C4-P3"))

	statuses, err := scenario.LoadStatuses(statusFile)
	require.NoError(t, err)
	assert.Equal(t, map[entities.AllocationID]entities.AllocationStatus{
		"C1-P1": entities.StatusDelivered,
		"C4-P3": entities.StatusDispatched,
	}, statuses)

	// The persisted status survives into the next allocation run
	var out bytes.Buffer
	require.NoError(t, NewAllocateCommand(AllocateConfig{
		Input:      InputConfig{ScenarioDir: dir},
		StatusFile: statusFile,
		Format:     "json",
		Env:        testEnv(&out),
	}).Execute(ctx))
	assert.Contains(t, out.String(), `"status": "DELIVERED"`)
}

func TestToggleCommand_UnknownAllocation(t *testing.T) {
	dir := writeFloodScenario(t)
	statusFile := filepath.Join(t.TempDir(), "statuses.yaml")

	var out bytes.Buffer
	err := NewToggleCommand(ToggleConfig{
		Input:         InputConfig{ScenarioDir: dir},
		StatusFile:    statusFile,
		AllocationIDs: []string{"C1-P1", "C9-P9"},
		Env:           testEnv(&out),
	}).Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "C9-P9")

	_, statErr := os.Stat(statusFile)
	assert.True(t, os.IsNotExist(statErr), "nothing is written when any id is unknown")
}

func TestValidateCommand(t *testing.T) {
	dir := writeFloodScenario(t)

	var out bytes.Buffer
	cmd := NewValidateCommand(ValidateConfig{Input: InputConfig{ScenarioDir: dir}, Env: testEnv(&out)})
	require.NoError(t, cmd.Execute(context.Background()))
	assert.Contains(t, out.String(), "Providers: 5 read, 4 usable")
	assert.Contains(t, out.String(), "provider P5")

	out.Reset()
	strict := NewValidateCommand(ValidateConfig{Input: InputConfig{ScenarioDir: dir}, Strict: true, Env: testEnv(&out)})
	assert.Error(t, strict.Execute(context.Background()))
}

func TestGenerateCommand_Reproducible(t *testing.T) {
	generate := func(format string) string {
		dir := t.TempDir()
		var out bytes.Buffer
		err := NewGenerateCommand(GenerateConfig{
			Camps:     8,
			Providers: 4,
			Coverage:  0.5,
			Format:    format,
			OutputDir: dir,
			Seed:      7,
			Env:       testEnv(&out),
		}).Execute(context.Background())
		require.NoError(t, err)
		return dir
	}

	first := generate("csv")
	second := generate("csv")
	for _, name := range []string{CampsFileName, ProvidersFileName} {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "same seed must produce the same %s", name)
	}

	camps, providers, err := loadSnapshots(context.Background(), InputConfig{ScenarioDir: first})
	require.NoError(t, err)
	require.Len(t, camps, 8)
	require.Len(t, providers, 4)

	var need, supply entities.Quantity
	for _, c := range camps {
		need += c.Need(entities.Food)
	}
	for _, p := range providers {
		supply += p.Stock(entities.Food)
	}
	assert.Equal(t, entities.Quantity(float64(need)*0.5), supply)

	yamlDir := generate("yaml")
	yamlCamps, _, err := loadSnapshots(context.Background(), InputConfig{ScenarioDir: yamlDir})
	require.NoError(t, err)
	assert.Len(t, yamlCamps, 8)
}

func TestGenerateCommand_InvalidConfig(t *testing.T) {
	var out bytes.Buffer
	err := NewGenerateCommand(GenerateConfig{Camps: 0, Providers: 1, OutputDir: t.TempDir(), Env: testEnv(&out)}).
		Execute(context.Background())
	assert.Error(t, err)

	err = NewGenerateCommand(GenerateConfig{Camps: 1, Providers: 1, Format: "xml", OutputDir: t.TempDir(), Env: testEnv(&out)}).
		Execute(context.Background())
	assert.ErrorContains(t, err, "unsupported scenario format")
}

func TestSessionCommand_Script(t *testing.T) {
	dir := writeFloodScenario(t)
	statusFile := filepath.Join(t.TempDir(), "statuses.yaml")

	script := strings.Join([]string{
		"shortfalls",
		"toggle C2-P2",
		"toggle C9-P9",
		"stock P2 beds 80",
		"need C1 helicopters 3",
		"status",
		"events 3",
		"log 2",
		"bogus",
		"quit",
		"plan",
	}, "\n")

	var out bytes.Buffer
	cmd := NewSessionCommand(SessionConfig{
		Input:      InputConfig{ScenarioDir: dir},
		StatusFile: statusFile,
		Env:        testEnv(&out),
		In:         strings.NewReader(script),
	})
	require.NoError(t, cmd.Execute(context.Background()))

	text := out.String()
	assert.Contains(t, text, floodSummary)
	assert.Contains(t, text, "C2 Chalakudy School Shelter: 40 of 80 Beds unmet")
	assert.Contains(t, text, "C2-P2 is now DISPATCHED")
	assert.Contains(t, text, "Error: allocation C9-P9")
	assert.Contains(t, text, "Set Beds stock of P2 to 80")
	assert.Contains(t, text, "  + 80 Beds assigned to Chalakudy School Shelter from Seva Foundation")
	assert.Contains(t, text, "5 allocations for 4 camps from 4 providers, 3 shortfalls (190 units unmet)")
	assert.Contains(t, text, "Error: invalid resource type")
	assert.Contains(t, text, "4 assigned, 1 dispatched, 0 delivered")
	assert.Contains(t, text, "Error: unknown command: bogus")
	assert.Contains(t, text, "Goodbye!")
	assert.NotContains(t, text, "Relief Allocation Summary", "input after quit is ignored")

	statuses, err := scenario.LoadStatuses(statusFile)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusDispatched, statuses["C2-P2"])
}
