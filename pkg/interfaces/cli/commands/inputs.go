package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/idro/reliefmatch/pkg/application/services/orchestration"
	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/infrastructure/events"
	"github.com/idro/reliefmatch/pkg/infrastructure/metrics"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/csv"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/memory"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/scenario"
)

// Scenario directory layout
const (
	CampsFileName     = "camps.csv"
	ProvidersFileName = "providers.csv"
	ScenarioFileName  = "scenario.yaml"
)

// InputConfig selects where camp and provider snapshots are read from. A
// scenario file takes precedence, then a scenario directory, then the
// individual CSV files.
type InputConfig struct {
	ScenarioDir   string
	ScenarioFile  string
	CampsFile     string
	ProvidersFile string
}

// Environment carries process-wide settings resolved from configuration
type Environment struct {
	Logger             *zap.Logger
	MissionLogCapacity int
	MetricsEnabled     bool
	Out                io.Writer
}

func (e Environment) out() io.Writer {
	if e.Out == nil {
		return os.Stdout
	}
	return e.Out
}

func (e Environment) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// resolve determines the actual files to read
func (in InputConfig) resolve() (InputConfig, error) {
	resolved := in

	if resolved.ScenarioFile == "" && resolved.ScenarioDir != "" {
		candidate := filepath.Join(resolved.ScenarioDir, ScenarioFileName)
		if _, err := os.Stat(candidate); err == nil {
			resolved.ScenarioFile = candidate
		} else {
			resolved.CampsFile = filepath.Join(resolved.ScenarioDir, CampsFileName)
			resolved.ProvidersFile = filepath.Join(resolved.ScenarioDir, ProvidersFileName)
		}
	}

	if resolved.ScenarioFile != "" {
		if _, err := os.Stat(resolved.ScenarioFile); os.IsNotExist(err) {
			return resolved, fmt.Errorf("scenario file not found: %s", resolved.ScenarioFile)
		}
		return resolved, nil
	}

	if resolved.CampsFile == "" || resolved.ProvidersFile == "" {
		return resolved, fmt.Errorf("must specify either --scenario, --scenario-dir or both --camps and --providers")
	}

	files := map[string]string{
		"Camps":     resolved.CampsFile,
		"Providers": resolved.ProvidersFile,
	}
	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return resolved, fmt.Errorf("%s file not found: %s", name, path)
		}
	}
	return resolved, nil
}

// loadSnapshots reads camps and providers. CSV inputs are read concurrently.
func loadSnapshots(ctx context.Context, in InputConfig) ([]*entities.Camp, []*entities.Provider, error) {
	resolved, err := in.resolve()
	if err != nil {
		return nil, nil, err
	}

	if resolved.ScenarioFile != "" {
		file, err := scenario.Load(resolved.ScenarioFile)
		if err != nil {
			return nil, nil, err
		}
		camps, err := file.CampEntities()
		if err != nil {
			return nil, nil, fmt.Errorf("error loading camps: %w", err)
		}
		providers, err := file.ProviderEntities()
		if err != nil {
			return nil, nil, fmt.Errorf("error loading providers: %w", err)
		}
		return camps, providers, nil
	}

	loader := csv.NewLoader()
	var (
		camps     []*entities.Camp
		providers []*entities.Provider
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		loaded, err := loader.LoadCamps(resolved.CampsFile)
		if err != nil {
			return fmt.Errorf("error loading camps: %w", err)
		}
		camps = loaded
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		loaded, err := loader.LoadProviders(resolved.ProvidersFile)
		if err != nil {
			return fmt.Errorf("error loading providers: %w", err)
		}
		providers = loaded
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return camps, providers, nil
}

// session is a fully wired engine for one CLI invocation
type session struct {
	engine     *orchestration.ReliefEngine
	eventStore *events.InMemoryEventStore
	statusRepo *memory.StatusRepository
	registry   *prometheus.Registry
}

// newSession loads snapshots into repositories, restores persisted statuses
// and wires an engine around them
func newSession(
	env Environment,
	camps []*entities.Camp,
	providers []*entities.Provider,
	statusFile string,
) (*session, error) {
	campRepo := memory.NewCampRepository(len(camps))
	if err := campRepo.LoadCamps(camps); err != nil {
		return nil, fmt.Errorf("failed to load camps into repository: %w", err)
	}

	providerRepo := memory.NewProviderRepository(len(providers))
	if err := providerRepo.LoadProviders(providers); err != nil {
		return nil, fmt.Errorf("failed to load providers into repository: %w", err)
	}

	statusRepo := memory.NewStatusRepository()
	if statusFile != "" {
		statuses, err := scenario.LoadStatuses(statusFile)
		if err != nil {
			return nil, err
		}
		for id, status := range statuses {
			statusRepo.Set(id, status)
		}
	}

	s := &session{
		eventStore: events.NewInMemoryEventStore(env.logger().Named("events")),
		statusRepo: statusRepo,
	}

	config := orchestration.DefaultEngineConfig()
	config.Logger = env.logger()
	config.EventStore = s.eventStore
	if env.MissionLogCapacity > 0 {
		config.MissionLogCapacity = env.MissionLogCapacity
	}
	if env.MetricsEnabled {
		s.registry = prometheus.NewRegistry()
		config.Metrics = metrics.New(s.registry)
	}

	s.engine = orchestration.NewReliefEngineWithConfig(config, campRepo, providerRepo, statusRepo)
	return s, nil
}

// writeMetrics dumps collected metrics in the node exporter textfile format
func (s *session) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if s.registry == nil {
		return fmt.Errorf("metrics are disabled; enable metrics_enabled to write %s", path)
	}
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
