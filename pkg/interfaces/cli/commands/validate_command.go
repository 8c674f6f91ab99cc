package commands

import (
	"context"
	"fmt"

	"github.com/idro/reliefmatch/pkg/application/services/ingest"
)

// ValidateConfig holds configuration for snapshot validation
type ValidateConfig struct {
	Input   InputConfig
	Strict  bool // fail when any coercion is needed
	Verbose bool
	Env     Environment
}

// ValidateCommand reports what the ingestion step would correct in a snapshot
type ValidateCommand struct {
	config ValidateConfig
}

// NewValidateCommand creates a new validate command with the given configuration
func NewValidateCommand(config ValidateConfig) *ValidateCommand {
	return &ValidateCommand{config: config}
}

// Execute runs the validate command
func (cmd *ValidateCommand) Execute(ctx context.Context) error {
	camps, providers, err := loadSnapshots(ctx, cmd.config.Input)
	if err != nil {
		return fmt.Errorf("failed to load snapshots: %w", err)
	}

	sanitizer := ingest.NewSanitizer(cmd.config.Env.logger().Named("ingest"))
	cleanCamps, cleanProviders, coercions := sanitizer.Sanitize(camps, providers)

	out := cmd.config.Env.out()
	fmt.Fprintf(out, "🏕️  Camps: %d read, %d usable\n", len(camps), len(cleanCamps))
	fmt.Fprintf(out, "🚚 Providers: %d read, %d usable\n", len(providers), len(cleanProviders))

	if len(coercions) == 0 {
		fmt.Fprintln(out, "✅ Snapshot is clean")
		return nil
	}

	fmt.Fprintf(out, "⚠️  %d corrections applied:\n", len(coercions))
	for _, c := range coercions {
		if cmd.config.Verbose {
			fmt.Fprintf(out, "  - [%s] %s\n", c.Kind, c)
		} else {
			fmt.Fprintf(out, "  - %s\n", c)
		}
	}

	if cmd.config.Strict {
		return fmt.Errorf("snapshot needed %d corrections", len(coercions))
	}
	return nil
}
