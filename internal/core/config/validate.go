package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/queuebar/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob patterns, prompt glyphs and file accessibility. The configPath argument
// specifies the config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateProjects(),
		c.validateGlyphs(),
		c.validateTemplates(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Polling.IdleConfirmations == 1 {
		warnings = append(warnings, ValidationWarning{
			Category: "Polling",
			Item:     "idle_confirmations",
			Message:  "a single idle observation can complete a task while the assistant is still rendering",
		})
	}

	if c.Polling.CompletionInterval < c.Pane.Timeout {
		warnings = append(warnings, ValidationWarning{
			Category: "Polling",
			Item:     "completion_interval",
			Message:  "completion checks may overlap a slow pane capture; ticks are skipped while one is in flight",
		})
	}

	for i, p := range c.Projects {
		if p.Tasks == nil && p.Hooks == nil && p.Polling == nil {
			warnings = append(warnings, ValidationWarning{
				Category: "Projects",
				Item:     fmt.Sprintf("projects[%d]", i),
				Message:  "project override sets nothing",
			})
		}
	}

	return warnings
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateProjects checks that project path globs compile.
func (c *Config) validateProjects() error {
	var errs criterio.FieldErrorsBuilder
	for i, p := range c.Projects {
		pattern := filepath.ToSlash(p.Path)
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("projects[%d].path", i), fmt.Errorf("invalid glob %q", p.Path))
		}
	}
	return errs.ToError()
}

// validateGlyphs rejects prompt glyphs that can never match a captured line.
func (c *Config) validateGlyphs() error {
	var errs criterio.FieldErrorsBuilder
	for i, g := range c.Polling.IdleGlyphs {
		field := fmt.Sprintf("polling.idle_glyphs[%d]", i)
		switch {
		case strings.TrimSpace(g) == "":
			errs = errs.Append(field, fmt.Errorf("glyph cannot be blank"))
		case strings.TrimSpace(g) != g:
			errs = errs.Append(field, fmt.Errorf("glyph %q has surrounding whitespace", g))
		case strings.ContainsAny(g, "\n\r"):
			errs = errs.Append(field, fmt.Errorf("glyph must be a single line"))
		}
	}
	return errs.ToError()
}

// validateTemplates parses the command templates so a typo surfaces in
// `queuebar env` rather than when the sidebar closes.
func (c *Config) validateTemplates() error {
	var errs criterio.FieldErrorsBuilder
	check := func(field, src string) {
		if src == "" {
			return
		}
		if err := tmpl.Check(src); err != nil {
			errs = errs.Append(field, err)
		}
	}

	check("pane.sidebar_command", c.Pane.SidebarCommand)
	check("hooks.on_close", c.Hooks.OnClose)
	for i, p := range c.Projects {
		if p.Hooks != nil {
			check(fmt.Sprintf("projects[%d].hooks.on_close", i), p.Hooks.OnClose)
		}
	}
	return errs.ToError()
}
