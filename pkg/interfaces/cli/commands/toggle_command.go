package commands

import (
	"context"
	"fmt"

	"github.com/idro/reliefmatch/pkg/domain/entities"
	"github.com/idro/reliefmatch/pkg/infrastructure/repositories/scenario"
)

// ToggleConfig holds configuration for advancing allocation statuses
type ToggleConfig struct {
	Input         InputConfig
	StatusFile    string
	AllocationIDs []string
	Verbose       bool
	Env           Environment
}

// ToggleCommand recomputes the plan, advances the named allocations and
// persists the resulting statuses
type ToggleCommand struct {
	config ToggleConfig
}

// NewToggleCommand creates a new toggle command with the given configuration
func NewToggleCommand(config ToggleConfig) *ToggleCommand {
	return &ToggleCommand{config: config}
}

// Execute runs the toggle command. Every id is checked against the plan before
// anything is written.
func (cmd *ToggleCommand) Execute(ctx context.Context) error {
	if cmd.config.StatusFile == "" {
		return fmt.Errorf("a status file is required to persist toggles")
	}
	if len(cmd.config.AllocationIDs) == 0 {
		return fmt.Errorf("at least one allocation id is required")
	}

	camps, providers, err := loadSnapshots(ctx, cmd.config.Input)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	s, err := newSession(cmd.config.Env, camps, providers, cmd.config.StatusFile)
	if err != nil {
		return err
	}
	defer s.eventStore.Wait()

	plan, err := s.engine.Recompute(ctx)
	if err != nil {
		return fmt.Errorf("allocation failed: %w", err)
	}
	for _, id := range cmd.config.AllocationIDs {
		if plan.FindAllocation(entities.AllocationID(id)) == nil {
			return fmt.Errorf("allocation %s is not part of the current plan", id)
		}
	}

	out := cmd.config.Env.out()
	for _, raw := range cmd.config.AllocationIDs {
		id := entities.AllocationID(raw)
		status, err := s.engine.ToggleStatus(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", id, status)
	}

	if err := scenario.SaveStatuses(cmd.config.StatusFile, s.statusRepo.Snapshot()); err != nil {
		return err
	}
	if cmd.config.Verbose {
		fmt.Fprintf(out, "💾 Saved statuses to %s\n", cmd.config.StatusFile)
	}
	return nil
}
