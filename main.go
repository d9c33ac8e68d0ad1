package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/queuebar/internal/commands"
	"github.com/colonyops/queuebar/internal/core/config"
	"github.com/colonyops/queuebar/internal/core/logging"
	"github.com/colonyops/queuebar/pkg/executil"
	"github.com/colonyops/queuebar/pkg/logutils"
	"github.com/colonyops/queuebar/pkg/tmpl"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

// build formats the version string. A `go install module@version` binary has
// no ldflags, so the module version and VCS stamp come from the build info.
func build() string {
	v, c, d := version, commit, date

	if info, ok := debug.ReadBuildInfo(); ok && v == "dev" {
		if mv := info.Main.Version; mv != "" && mv != "(devel)" {
			v = mv
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				c = s.Value
			case "vcs.time":
				d = s.Value
			}
		}
	}

	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s) %s", v, c, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &commands.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "queuebar",
		Usage:     "A task queue sidebar for your coding assistant",
		UsageText: "queuebar [global options] command [command options]",
		Description: `queuebar runs a small sidebar next to an interactive coding assistant. Queue
short task descriptions, send them to the assistant one at a time, and watch
them move to review when the assistant goes idle.

Run 'queuebar' with no arguments to show the sidebar in this terminal.
Run 'queuebar spawn' from the assistant's pane to open it beside the assistant.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("QUEUEBAR_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/queuebar.log)",
				Sources:     cli.EnvVars("QUEUEBAR_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("QUEUEBAR_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("QUEUEBAR_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "cwd",
				Usage:       "project directory (defaults to the working directory)",
				Sources:     cli.EnvVars("QUEUEBAR_CWD"),
				Destination: &flags.Cwd,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the sidebar owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "queuebar.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			workDir, err := flags.WorkDir()
			if err != nil {
				return ctx, fmt.Errorf("resolve working directory: %w", err)
			}

			if exe, err := os.Executable(); err == nil {
				tmpl.SetExecutable(exe)
			}

			// Populate the pre-allocated App (commands already hold a pointer to it)
			*app = *commands.NewApp(cfg, workDir, &executil.RealExecutor{})

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	showCmd := commands.NewShowCmd(flags, app)

	root = showCmd.Register(root)
	root = commands.NewSpawnCmd(flags, app).Register(root)
	root = commands.NewUpdateCmd(flags, app).Register(root)
	root = commands.NewAddCmd(flags, app).Register(root)
	root = commands.NewEnvCmd(flags, app).Register(root)

	// Register show flags on root command
	root.Flags = append(root.Flags, showCmd.Flags()...)

	// Show the sidebar when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'queuebar --help' for usage", c.Args().First())
		}
		return showCmd.Run(ctx, c)
	}

	if err := root.Run(ctx, os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "queuebar:", msg)
		}
		os.Exit(1)
	}
}
