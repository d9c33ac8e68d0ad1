// Package config handles configuration loading and validation for queuebar.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DispatchPolicy values accepted in dispatch_policy.
const (
	DispatchReject   = "reject"
	DispatchFinalize = "finalize"
)

// Backend values accepted in backend.
const (
	BackendAuto  = "auto"
	BackendTmux  = "tmux"
	BackendITerm = "iterm"
)

// Config holds the application configuration.
type Config struct {
	Sidebar  SidebarConfig   `yaml:"sidebar"`
	Polling  PollingConfig   `yaml:"polling"`
	Pane     PaneConfig      `yaml:"pane"`
	Tasks    TasksConfig     `yaml:"tasks"`
	Hooks    HooksConfig     `yaml:"hooks"`
	Projects []ProjectConfig `yaml:"projects"`
	DataDir  string          `yaml:"-"` // set by caller, not from config file
}

// SidebarConfig controls presentation.
type SidebarConfig struct {
	Theme       string `yaml:"theme"`
	ShowMetrics *bool  `yaml:"show_metrics"`
	ShowTodos   *bool  `yaml:"show_todos"`
}

// PollingConfig controls the two scheduler timers and prompt detection.
type PollingConfig struct {
	RefreshInterval    time.Duration `yaml:"refresh_interval"`
	CompletionInterval time.Duration `yaml:"completion_interval"`
	IdleConfirmations  int           `yaml:"idle_confirmations"`
	IdleGlyphs         []string      `yaml:"idle_glyphs"`
	Watch              *bool         `yaml:"watch"` // fsnotify-triggered refresh
}

// PaneConfig selects and tunes the pane backend.
type PaneConfig struct {
	Backend      string        `yaml:"backend"`
	Timeout      time.Duration `yaml:"timeout"`
	SidebarWidth int           `yaml:"sidebar_width"`

	// SidebarCommand is the command spawn starts in the new pane. It is a Go
	// template; {{ self }} is the running executable.
	SidebarCommand string `yaml:"sidebar_command"`
}

// TasksConfig controls task lifecycle policy.
type TasksConfig struct {
	DispatchPolicy     string  `yaml:"dispatch_policy"`
	DoneRetention      int     `yaml:"done_retention"`
	TodoMatchThreshold float64 `yaml:"todo_match_threshold"`
}

// HooksConfig holds shell commands run at lifecycle points.
type HooksConfig struct {
	OnClose string `yaml:"on_close"`
}

// ProjectConfig overrides settings for working directories matching Path, a
// doublestar glob such as "~/work/**".
type ProjectConfig struct {
	Path    string       `yaml:"path"`
	Tasks   *TasksConfig `yaml:"tasks"`
	Hooks   *HooksConfig `yaml:"hooks"`
	Polling *struct {
		IdleGlyphs []string `yaml:"idle_glyphs"`
	} `yaml:"polling"`
}

func boolPtr(v bool) *bool { return &v }

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Sidebar: SidebarConfig{
			Theme:       "default",
			ShowMetrics: boolPtr(true),
			ShowTodos:   boolPtr(true),
		},
		Polling: PollingConfig{
			RefreshInterval:    time.Second,
			CompletionInterval: 2500 * time.Millisecond,
			IdleConfirmations:  2,
			IdleGlyphs:         []string{">", "❯"},
			Watch:              boolPtr(true),
		},
		Pane: PaneConfig{
			Backend:        BackendAuto,
			Timeout:        2 * time.Second,
			SidebarWidth:   48,
			SidebarCommand: "{{ self | shq }} show",
		},
		Tasks: TasksConfig{
			DispatchPolicy:     DispatchReject,
			DoneRetention:      20,
			TodoMatchThreshold: 0.6,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Sidebar.Theme == "" {
		c.Sidebar.Theme = d.Sidebar.Theme
	}
	if c.Sidebar.ShowMetrics == nil {
		c.Sidebar.ShowMetrics = d.Sidebar.ShowMetrics
	}
	if c.Sidebar.ShowTodos == nil {
		c.Sidebar.ShowTodos = d.Sidebar.ShowTodos
	}
	if c.Polling.RefreshInterval == 0 {
		c.Polling.RefreshInterval = d.Polling.RefreshInterval
	}
	if c.Polling.CompletionInterval == 0 {
		c.Polling.CompletionInterval = d.Polling.CompletionInterval
	}
	if c.Polling.IdleConfirmations == 0 {
		c.Polling.IdleConfirmations = d.Polling.IdleConfirmations
	}
	if len(c.Polling.IdleGlyphs) == 0 {
		c.Polling.IdleGlyphs = d.Polling.IdleGlyphs
	}
	if c.Polling.Watch == nil {
		c.Polling.Watch = d.Polling.Watch
	}
	if c.Pane.Backend == "" {
		c.Pane.Backend = d.Pane.Backend
	}
	if c.Pane.Timeout == 0 {
		c.Pane.Timeout = d.Pane.Timeout
	}
	if c.Pane.SidebarWidth == 0 {
		c.Pane.SidebarWidth = d.Pane.SidebarWidth
	}
	if c.Pane.SidebarCommand == "" {
		c.Pane.SidebarCommand = d.Pane.SidebarCommand
	}
	if c.Tasks.DispatchPolicy == "" {
		c.Tasks.DispatchPolicy = d.Tasks.DispatchPolicy
	}
	if c.Tasks.DoneRetention == 0 {
		c.Tasks.DoneRetention = d.Tasks.DoneRetention
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Polling.RefreshInterval < 100*time.Millisecond {
		return fmt.Errorf("polling.refresh_interval must be at least 100ms")
	}

	if c.Polling.CompletionInterval < 100*time.Millisecond {
		return fmt.Errorf("polling.completion_interval must be at least 100ms")
	}

	if c.Polling.IdleConfirmations < 1 {
		return fmt.Errorf("polling.idle_confirmations must be at least 1")
	}

	if !isValidBackend(c.Pane.Backend) {
		return fmt.Errorf("pane.backend %q must be one of auto, tmux, iterm", c.Pane.Backend)
	}

	if c.Pane.Timeout < 0 {
		return fmt.Errorf("pane.timeout cannot be negative")
	}

	if err := c.Tasks.validate("tasks"); err != nil {
		return err
	}

	for i, p := range c.Projects {
		if p.Path == "" {
			return fmt.Errorf("projects[%d].path cannot be empty", i)
		}
		if p.Tasks != nil {
			if err := p.Tasks.validate(fmt.Sprintf("projects[%d].tasks", i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func (t *TasksConfig) validate(prefix string) error {
	if t.DispatchPolicy != "" && t.DispatchPolicy != DispatchReject && t.DispatchPolicy != DispatchFinalize {
		return fmt.Errorf("%s.dispatch_policy %q must be reject or finalize", prefix, t.DispatchPolicy)
	}
	if t.DoneRetention < 0 {
		return fmt.Errorf("%s.done_retention cannot be negative", prefix)
	}
	if t.TodoMatchThreshold < 0 || t.TodoMatchThreshold > 1 {
		return fmt.Errorf("%s.todo_match_threshold must be between 0 and 1", prefix)
	}
	return nil
}

func isValidBackend(b string) bool {
	switch b {
	case BackendAuto, BackendTmux, BackendITerm:
		return true
	}
	return false
}

// ForProject returns a copy of the config with every project override whose
// path glob matches dir applied in declaration order.
func (c *Config) ForProject(dir string) Config {
	out := *c
	out.Projects = nil

	for _, p := range c.Projects {
		if !matchProject(p.Path, dir) {
			continue
		}
		if p.Tasks != nil {
			if p.Tasks.DispatchPolicy != "" {
				out.Tasks.DispatchPolicy = p.Tasks.DispatchPolicy
			}
			if p.Tasks.DoneRetention != 0 {
				out.Tasks.DoneRetention = p.Tasks.DoneRetention
			}
			if p.Tasks.TodoMatchThreshold != 0 {
				out.Tasks.TodoMatchThreshold = p.Tasks.TodoMatchThreshold
			}
		}
		if p.Hooks != nil && p.Hooks.OnClose != "" {
			out.Hooks.OnClose = p.Hooks.OnClose
		}
		if p.Polling != nil && len(p.Polling.IdleGlyphs) > 0 {
			out.Polling.IdleGlyphs = p.Polling.IdleGlyphs
		}
	}
	return out
}

// matchProject reports whether dir matches pattern. A leading "~/" expands to
// the home directory; a pattern without glob characters also matches
// subdirectories.
func matchProject(pattern, dir string) bool {
	if rest, ok := cutHome(pattern); ok {
		if home, err := os.UserHomeDir(); err == nil {
			pattern = filepath.Join(home, rest)
		}
	}
	pattern = filepath.ToSlash(filepath.Clean(pattern))
	dir = filepath.ToSlash(filepath.Clean(dir))

	if ok, err := doublestar.Match(pattern, dir); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(pattern+"/**", dir)
	return err == nil && ok
}

func cutHome(p string) (string, bool) {
	if p == "~" {
		return "", true
	}
	if len(p) > 2 && p[:2] == "~/" {
		return p[2:], true
	}
	return "", false
}

// LogFile returns the default log file location.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "queuebar.log")
}
