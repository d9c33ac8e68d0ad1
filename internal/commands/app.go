package commands

import (
	"github.com/colonyops/queuebar/internal/core/config"
	"github.com/colonyops/queuebar/internal/core/pane"
	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/terminal"
	"github.com/colonyops/queuebar/internal/store/jsonfile"
	"github.com/colonyops/queuebar/internal/tui"
	"github.com/colonyops/queuebar/pkg/executil"
)

// App holds the services shared by every command. main fills it in the
// Before hook; commands keep a pointer to it.
type App struct {
	// Config has the project overrides for WorkDir applied.
	Config  config.Config
	Store   *jsonfile.Store
	Exec    executil.Executor
	WorkDir string
}

// NewApp scopes cfg and the store to workDir.
func NewApp(cfg *config.Config, workDir string, exec executil.Executor) *App {
	return &App{
		Config:  cfg.ForProject(workDir),
		Store:   jsonfile.Open(cfg.DataDir, workDir),
		Exec:    exec,
		WorkDir: workDir,
	}
}

// Pane builds the pane backend for the current environment. It returns
// pane.ErrNoBackend when neither tmux nor iTerm2 is available.
func (a *App) Pane(getenv func(string) string) (pane.Pane, error) {
	kind, err := pane.Detect(pane.Kind(a.Config.Pane.Backend), getenv)
	if err != nil {
		return nil, err
	}

	detector := terminal.NewDetector(a.Config.Polling.IdleGlyphs...)
	return pane.New(kind, a.Exec, a.Store, detector, getenv)
}

// SidebarOptions maps the configuration onto the sidebar.
func (a *App) SidebarOptions() tui.Options {
	cfg := a.Config
	return tui.Options{
		DispatchPolicy:     task.DispatchPolicy(cfg.Tasks.DispatchPolicy),
		DoneRetention:      cfg.Tasks.DoneRetention,
		MatchThreshold:     cfg.Tasks.TodoMatchThreshold,
		IdleConfirmations:  cfg.Polling.IdleConfirmations,
		RefreshInterval:    cfg.Polling.RefreshInterval,
		CompletionInterval: cfg.Polling.CompletionInterval,
		ShowTodos:          enabled(cfg.Sidebar.ShowTodos),
		ShowMetrics:        enabled(cfg.Sidebar.ShowMetrics),
	}
}

func enabled(b *bool) bool {
	return b == nil || *b
}
