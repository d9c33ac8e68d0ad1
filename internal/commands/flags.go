package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/queuebar/internal/core/config"
)

// Flags holds the global flag values shared by every subcommand.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Cwd        string

	// Config is set by the root Before hook.
	Config *config.Config
}

// DefaultConfigPath is $XDG_CONFIG_HOME/queuebar/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "queuebar", "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/queuebar. Project state lives under
// projects/<scope> inside it.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "queuebar")
}

// xdgDir returns $env, or home joined with fallback when it is unset or not
// absolute.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); filepath.IsAbs(dir) {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, fallback...)...)
}

// WorkDir returns the directory that selects the project scope: --cwd when
// set, otherwise the process working directory.
func (f *Flags) WorkDir() (string, error) {
	if f.Cwd != "" {
		return filepath.Abs(f.Cwd)
	}
	return os.Getwd()
}
