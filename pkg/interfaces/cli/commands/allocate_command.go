package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/idro/reliefmatch/pkg/interfaces/cli/output"
)

// AllocateConfig holds configuration for a one-shot allocation run
type AllocateConfig struct {
	Input       InputConfig
	StatusFile  string
	OutputDir   string
	Format      string
	MetricsFile string
	Verbose     bool
	Env         Environment
}

// AllocateCommand computes the allocation plan once and renders it
type AllocateCommand struct {
	config AllocateConfig
}

// NewAllocateCommand creates a new allocate command with the given configuration
func NewAllocateCommand(config AllocateConfig) *AllocateCommand {
	return &AllocateCommand{config: config}
}

// Execute runs the allocate command
func (cmd *AllocateCommand) Execute(ctx context.Context) error {
	out := cmd.config.Env.out()

	if cmd.config.Verbose {
		cmd.printHeader()
	}

	camps, providers, err := loadSnapshots(ctx, cmd.config.Input)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}
	if cmd.config.Verbose {
		fmt.Fprintf(out, "📊 Loaded %d camps and %d providers\n", len(camps), len(providers))
	}

	s, err := newSession(cmd.config.Env, camps, providers, cmd.config.StatusFile)
	if err != nil {
		return err
	}
	defer s.eventStore.Wait()

	if cmd.config.Verbose {
		fmt.Fprintln(out, "🔄 Computing allocation plan...")
	}
	start := time.Now()
	plan, err := s.engine.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("allocation failed: %w", err)
	}
	computeTime := time.Since(start)

	if cmd.config.Verbose {
		fmt.Fprintf(out, "✅ Allocation completed in %v\n\n", computeTime)
	}

	result := output.Result{
		Plan:       plan,
		Report:     s.engine.Report(),
		MissionLog: s.engine.MissionLog(),
	}
	if err := output.Generate(result, output.Config{
		Format:      cmd.config.Format,
		OutputDir:   cmd.config.OutputDir,
		Verbose:     cmd.config.Verbose,
		ComputeTime: computeTime,
		Writer:      out,
	}); err != nil {
		return fmt.Errorf("output generation failed: %w", err)
	}

	return s.writeMetrics(cmd.config.MetricsFile)
}

func (cmd *AllocateCommand) printHeader() {
	out := cmd.config.Env.out()
	fmt.Fprintln(out, "🚑 Relief Resource Allocation")
	fmt.Fprintln(out, "=============================")
	in := cmd.config.Input
	switch {
	case in.ScenarioFile != "":
		fmt.Fprintf(out, "📄 Scenario: %s\n", in.ScenarioFile)
	case in.ScenarioDir != "":
		fmt.Fprintf(out, "📁 Scenario directory: %s\n", in.ScenarioDir)
	default:
		fmt.Fprintf(out, "🏕️  Camps: %s\n", in.CampsFile)
		fmt.Fprintf(out, "🚚 Providers: %s\n", in.ProvidersFile)
	}
	if cmd.config.StatusFile != "" {
		fmt.Fprintf(out, "📌 Status file: %s\n", cmd.config.StatusFile)
	}
	fmt.Fprintln(out)
}
