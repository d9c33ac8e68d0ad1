package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/pkg/tmpl"
)

type SpawnCmd struct {
	flags *Flags
	app   *App
	width int
}

// NewSpawnCmd creates a new spawn command
func NewSpawnCmd(flags *Flags, app *App) *SpawnCmd {
	return &SpawnCmd{flags: flags, app: app}
}

func (cmd *SpawnCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "spawn",
		Usage:     "Open the sidebar in a pane beside the assistant",
		UsageText: "queuebar spawn [options]",
		Description: `Splits the current tmux window (or opens an iTerm2 split) and runs the
sidebar in the new pane. An existing sidebar pane for this project is reused.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "width",
				Usage:       "sidebar width in columns (tmux only)",
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *SpawnCmd) run(ctx context.Context, c *cli.Command) error {
	p, err := cmd.app.Pane(os.Getenv)
	if err != nil {
		return err
	}

	command, err := cmd.command()
	if err != nil {
		return err
	}

	width := cmd.width
	if !c.IsSet("width") {
		width = cmd.app.Config.Pane.SidebarWidth
	}

	log.Debug().Str("backend", p.Name()).Str("command", command).Msg("spawning sidebar")

	if err := p.Spawn(ctx, pane.SpawnOptions{
		Command: command,
		Dir:     cmd.app.WorkDir,
		Width:   width,
	}); err != nil {
		return fmt.Errorf("spawn sidebar: %w", err)
	}
	return nil
}

// command renders the configured sidebar command. Global flags that change
// where state lives are forwarded so the new pane sees the same project.
func (cmd *SpawnCmd) command() (string, error) {
	command, err := tmpl.Render(cmd.app.Config.Pane.SidebarCommand, hookData{
		Project: cmd.app.Store.Scope(),
		Dir:     cmd.app.WorkDir,
		DataDir: cmd.app.Store.Dir(),
	})
	if err != nil {
		return "", fmt.Errorf("render sidebar_command: %w", err)
	}

	forward := []struct{ name, value, def string }{
		{"--config", cmd.flags.ConfigPath, DefaultConfigPath()},
		{"--data-dir", cmd.flags.DataDir, DefaultDataDir()},
	}
	for _, f := range forward {
		if f.value != "" && f.value != f.def {
			command += " " + f.name + " " + tmpl.ShellQuote(f.value)
		}
	}
	return command, nil
}
