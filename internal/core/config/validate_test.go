package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a Config with all required fields set for testing.
func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func hasField(errs criterio.FieldErrors, field string) bool {
	for _, e := range errs {
		if strings.Contains(e.Field, field) {
			return true
		}
	}
	return false
}

func TestValidateDeep_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.Projects = []ProjectConfig{{Path: "/work/**", Hooks: &HooksConfig{OnClose: "true"}}}

	assert.NoError(t, cfg.ValidateDeep(""))
}

func TestValidateDeep_InvalidProjectGlob(t *testing.T) {
	cfg := validConfig(t)
	cfg.Projects = []ProjectConfig{{Path: "/work/[", Hooks: &HooksConfig{OnClose: "true"}}}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "projects[0].path"))
}

func TestValidateDeep_BlankGlyph(t *testing.T) {
	cfg := validConfig(t)
	cfg.Polling.IdleGlyphs = []string{">", " "}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "polling.idle_glyphs[1]"))
}

func TestValidateDeep_BrokenTemplates(t *testing.T) {
	cfg := validConfig(t)
	cfg.Pane.SidebarCommand = "{{ self | shq } show"
	cfg.Hooks.OnClose = "notify {{ .Project }}"
	cfg.Projects = []ProjectConfig{{Path: "/work/**", Hooks: &HooksConfig{OnClose: "{{ if .Dir }}"}}}

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "pane.sidebar_command"))
	assert.True(t, hasField(fieldErrs, "projects[0].hooks.on_close"))
	for _, e := range fieldErrs {
		assert.NotEqual(t, "hooks.on_close", e.Field, "a valid global hook is not reported")
	}
}

func TestValidateDeep_DataDirIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	cfg.DataDir = file

	err := cfg.ValidateDeep("")

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "data_dir"))
}

func TestValidateDeep_ConfigFileIsDirectory(t *testing.T) {
	cfg := validConfig(t)

	err := cfg.ValidateDeep(t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.True(t, hasField(fieldErrs, "config_file"))
}

func TestWarnings(t *testing.T) {
	cfg := validConfig(t)
	assert.Empty(t, cfg.Warnings())

	cfg.Polling.IdleConfirmations = 1
	cfg.Projects = []ProjectConfig{{Path: "/x"}}

	warnings := cfg.Warnings()
	require.Len(t, warnings, 2)
	assert.Equal(t, "idle_confirmations", warnings[0].Item)
	assert.Equal(t, "projects[0]", warnings[1].Item)
}
