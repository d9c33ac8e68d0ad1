package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/queuebar/internal/core/logging"
	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/internal/core/styles"
	"github.com/colonyops/queuebar/internal/store/jsonfile"
	"github.com/colonyops/queuebar/internal/tui"
	"github.com/colonyops/queuebar/internal/tui/render"
	"github.com/colonyops/queuebar/pkg/executil"
	"github.com/colonyops/queuebar/pkg/profiler"
	"github.com/colonyops/queuebar/pkg/tmpl"
)

// hookTimeout bounds the on-close hook.
const hookTimeout = 10 * time.Second

type ShowCmd struct {
	flags        *Flags
	app          *App
	profilerPort int
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Flags returns the show flags for registration on the root command. The
// show subcommand inherits them.
func (cmd *ShowCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("QUEUEBAR_PROFILER_PORT"),
			Destination: &cmd.profilerPort,
		},
	}
}

func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "show",
		Usage:       "Run the queue sidebar in this terminal",
		UsageText:   "queuebar show [options]",
		Description: "Takes over the terminal and shows the task queue for the current project.",
		Action:      cmd.run,
	})
	return app
}

// Run executes the sidebar. Exported for use as default command.
func (cmd *ShowCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *ShowCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.app.Config
	store := cmd.app.Store
	ctx = logging.WithProject(ctx, store.Scope())
	logger := logging.Component(ctx, "show")

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()

		logger.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	var backend pane.Backend
	p, err := cmd.app.Pane(os.Getenv)
	switch {
	case errors.Is(err, pane.ErrNoBackend):
		logger.Warn().Msg("no pane backend detected, dispatch disabled")
	case err != nil:
		return fmt.Errorf("pane backend: %w", err)
	default:
		backend = pane.WithTimeout(p, cfg.Pane.Timeout)
	}

	term, err := tui.OpenTerminal(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if err := store.CreateMarker(); err != nil {
		logger.Warn().Err(err).Msg("failed to create running marker")
	}
	defer func() {
		if err := term.Restore(); err != nil {
			logger.Error().Err(err).Msg("failed to restore terminal")
		}
		if err := store.RemoveMarker(); err != nil {
			logger.Warn().Err(err).Msg("failed to remove running marker")
		}
		cmd.runOnClose()
	}()

	theme, err := styles.NewTheme(cfg.Sidebar.Theme, styles.NewRenderer(os.Stdout, nil))
	if err != nil {
		return err
	}

	sidebar := tui.New(cmd.app.SidebarOptions(), store, backend, render.NewPainter(term, theme))
	if size, err := term.Size(); err == nil {
		sidebar.SetSize(size)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	src := tui.Sources{
		Input:  term.Input(ctx),
		Resize: term.Resizes(ctx),
	}
	if cfg.Polling.Watch == nil || *cfg.Polling.Watch {
		changes, closeWatcher, err := watchStore(ctx, store)
		if err != nil {
			// polling still covers refresh
			logger.Warn().Err(err).Msg("store watcher unavailable")
		} else {
			defer closeWatcher()
			src.Changes = changes
		}
	}

	logger.Info().Str("dir", cmd.app.WorkDir).Msg("sidebar started")
	err = sidebar.Run(ctx, src)
	logger.Info().Err(err).Msg("sidebar stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchStore turns document change notifications into bare refresh signals.
func watchStore(ctx context.Context, store *jsonfile.Store) (<-chan struct{}, func(), error) {
	w, err := jsonfile.NewWatcher(store.Dir())
	if err != nil {
		return nil, nil, err
	}

	pattern := fmt.Sprintf("{%s,%s,%s}", jsonfile.KeyBoard, jsonfile.KeyTodos, jsonfile.KeyMetrics)
	changes, err := w.Watch(ctx, pattern)
	if err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range changes {
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()

	return out, func() { _ = w.Close() }, nil
}

func (cmd *ShowCmd) runOnClose() {
	hook := cmd.app.Config.Hooks.OnClose
	if hook == "" {
		return
	}

	data := hookData{
		Project: cmd.app.Store.Scope(),
		Dir:     cmd.app.WorkDir,
		DataDir: cmd.app.Store.Dir(),
	}
	src, err := tmpl.Render(hook, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to render on_close hook")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	script := executil.Script{Source: src, Dir: cmd.app.WorkDir, Env: data.env()}
	if err := script.Run(ctx); err != nil {
		log.Error().Err(err).Msg("on_close hook failed")
	}
}

// hookData is the template data for lifecycle hooks.
type hookData struct {
	Project string
	Dir     string
	DataDir string
}

func (d hookData) env() []string {
	return []string{
		"QUEUEBAR_PROJECT=" + d.Project,
		"QUEUEBAR_DIR=" + d.Dir,
		"QUEUEBAR_DATA_DIR=" + d.DataDir,
	}
}
