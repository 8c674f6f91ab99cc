package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/idro/reliefmatch/pkg/infrastructure/config"
	"github.com/idro/reliefmatch/pkg/infrastructure/logging"
	"github.com/idro/reliefmatch/pkg/interfaces/cli/commands"
)

func main() {
	app := &cli.App{
		Name:  "relief",
		Usage: "Match relief providers to disaster camps by urgency",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "specify a configuration file (yaml, json or toml)",
				EnvVars: []string{"RELIEF_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override the log level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable verbose output",
			},
		},
		Commands: []*cli.Command{
			allocateCmd,
			toggleCmd,
			sessionCmd,
			validateCmd,
			generateCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var inputFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "scenario-dir",
		Aliases: []string{"d"},
		Usage:   "specify a directory holding camps.csv and providers.csv, or scenario.yaml",
	},
	&cli.StringFlag{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "specify a yaml or json scenario file",
	},
	&cli.StringFlag{
		Name:  "camps",
		Usage: "specify the camps csv file",
	},
	&cli.StringFlag{
		Name:  "providers",
		Usage: "specify the providers csv file",
	},
}

var statusFlag = &cli.StringFlag{
	Name:  "status-file",
	Usage: "specify the yaml file that persists allocation statuses",
}

var allocateCmd = &cli.Command{
	Name:    "allocate",
	Usage:   "Compute the allocation plan, fulfillment report and mission log",
	Aliases: []string{"a"},
	Flags: append([]cli.Flag{
		statusFlag,
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "specify the output format (text, json, csv)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "specify the output directory",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write prometheus metrics in textfile collector format",
		},
	}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.Logger.Sync() //nolint:errcheck

		format := cfg.OutputFormat
		if ctx.IsSet("format") {
			format = ctx.String("format")
		}

		return commands.NewAllocateCommand(commands.AllocateConfig{
			Input:       inputConfig(ctx),
			StatusFile:  statusFile(ctx, cfg),
			OutputDir:   ctx.String("output"),
			Format:      format,
			MetricsFile: ctx.String("metrics-file"),
			Verbose:     ctx.Bool("verbose"),
			Env:         env,
		}).Execute(ctx.Context)
	},
}

var toggleCmd = &cli.Command{
	Name:      "toggle",
	Usage:     "Advance allocation statuses ASSIGNED -> DISPATCHED -> DELIVERED -> ASSIGNED",
	Aliases:   []string{"t"},
	ArgsUsage: "<allocation-id>...",
	Flags:     append([]cli.Flag{statusFlag}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.Logger.Sync() //nolint:errcheck

		return commands.NewToggleCommand(commands.ToggleConfig{
			Input:         inputConfig(ctx),
			StatusFile:    statusFile(ctx, cfg),
			AllocationIDs: ctx.Args().Slice(),
			Verbose:       ctx.Bool("verbose"),
			Env:           env,
		}).Execute(ctx.Context)
	},
}

var sessionCmd = &cli.Command{
	Name:    "session",
	Usage:   "Start an interactive coordination session",
	Aliases: []string{"i"},
	Flags:   append([]cli.Flag{statusFlag}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.Logger.Sync() //nolint:errcheck

		return commands.NewSessionCommand(commands.SessionConfig{
			Input:      inputConfig(ctx),
			StatusFile: statusFile(ctx, cfg),
			Verbose:    ctx.Bool("verbose"),
			Env:        env,
		}).Execute(ctx.Context)
	},
}

var validateCmd = &cli.Command{
	Name:  "validate",
	Usage: "Report the corrections ingestion would apply to a snapshot",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail when any correction is needed",
		},
	}, inputFlags...),
	Action: func(ctx *cli.Context) error {
		_, env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.Logger.Sync() //nolint:errcheck

		return commands.NewValidateCommand(commands.ValidateConfig{
			Input:   inputConfig(ctx),
			Strict:  ctx.Bool("strict"),
			Verbose: ctx.Bool("verbose"),
			Env:     env,
		}).Execute(ctx.Context)
	},
}

var generateCmd = &cli.Command{
	Name:    "generate",
	Usage:   "Generate a synthetic disaster scenario",
	Aliases: []string{"g"},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Required: true,
			Usage:    "specify the output directory",
		},
		&cli.IntFlag{
			Name:  "camps",
			Value: 12,
			Usage: "specify the number of camps",
		},
		&cli.IntFlag{
			Name:  "providers",
			Value: 6,
			Usage: "specify the number of providers",
		},
		&cli.Float64Flag{
			Name:  "coverage",
			Value: 0.8,
			Usage: "specify total supply as a multiple of total need",
		},
		&cli.StringFlag{
			Name:  "format",
			Value: "csv",
			Usage: "specify the scenario format (csv, yaml)",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "specify the random seed (0 picks one)",
		},
	},
	Action: func(ctx *cli.Context) error {
		_, env, err := setup(ctx)
		if err != nil {
			return err
		}
		defer env.Logger.Sync() //nolint:errcheck

		return commands.NewGenerateCommand(commands.GenerateConfig{
			Camps:     ctx.Int("camps"),
			Providers: ctx.Int("providers"),
			Coverage:  ctx.Float64("coverage"),
			Format:    ctx.String("format"),
			OutputDir: ctx.String("output"),
			Seed:      ctx.Int64("seed"),
			Verbose:   ctx.Bool("verbose"),
			Env:       env,
		}).Execute(ctx.Context)
	},
}

// setup loads configuration and builds the logger shared by every command
func setup(ctx *cli.Context) (*config.Config, commands.Environment, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, commands.Environment{}, err
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, commands.Environment{}, err
	}
	logger.Debug("Configuration loaded",
		zap.String("log_level", cfg.LogLevel),
		zap.Int("mission_log_capacity", cfg.MissionLogCapacity),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled))

	return cfg, commands.Environment{
		Logger:             logger,
		MissionLogCapacity: cfg.MissionLogCapacity,
		MetricsEnabled:     cfg.MetricsEnabled,
		Out:                ctx.App.Writer,
	}, nil
}

func inputConfig(ctx *cli.Context) commands.InputConfig {
	return commands.InputConfig{
		ScenarioDir:   ctx.String("scenario-dir"),
		ScenarioFile:  ctx.String("scenario"),
		CampsFile:     ctx.String("camps"),
		ProvidersFile: ctx.String("providers"),
	}
}

func statusFile(ctx *cli.Context, cfg *config.Config) string {
	if ctx.IsSet("status-file") {
		return ctx.String("status-file")
	}
	return cfg.StatusFile
}
