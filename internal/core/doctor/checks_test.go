package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/queuebar/internal/core/config"
	"github.com/colonyops/queuebar/internal/core/pane"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestBackendCheck(t *testing.T) {
	tests := []struct {
		name   string
		vars   map[string]string
		want   Status
		label  string
		nItems int
	}{
		{"tmux", map[string]string{"TMUX": "/tmp/tmux-1/default,1,0", "TMUX_PANE": "%3"}, StatusPass, "tmux", 2},
		{"iterm", map[string]string{"TERM_PROGRAM": "iTerm.app"}, StatusPass, "iterm", 1},
		{"none", map[string]string{}, StatusFail, "auto", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewBackendCheck(pane.KindAuto, env(tt.vars)).Run(context.Background())
			require.Len(t, result.Items, tt.nItems)
			assert.Equal(t, tt.want, result.Items[0].Status)
			assert.Equal(t, tt.label, result.Items[0].Label)
		})
	}
}

func TestDirsCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	result := NewDirsCheck(
		Dir{Label: "data", Path: dir},
		Dir{Label: "project", Path: filepath.Join(dir, "missing"), Optional: true},
		Dir{Label: "required", Path: filepath.Join(dir, "gone")},
		Dir{Label: "file", Path: file},
	).Run(context.Background())

	require.Len(t, result.Items, 4)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
	assert.Equal(t, StatusFail, result.Items[2].Status)
	assert.Equal(t, StatusFail, result.Items[3].Status)
}

func TestConfigCheck_DefaultsWithWarning(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Polling.IdleConfirmations = 1

	result := NewConfigCheck(filepath.Join(t.TempDir(), "config.yaml"), &cfg).Run(context.Background())

	require.NotEmpty(t, result.Items)
	assert.Equal(t, "not found, using defaults", result.Items[0].Detail)

	_, warned, failed := Summary([]Result{result})
	assert.Equal(t, 1, warned)
	assert.Equal(t, 0, failed)
}

func TestConfigCheck_ConfigPathIsDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := NewConfigCheck(t.TempDir(), &cfg).Run(context.Background())

	_, _, failed := Summary([]Result{result})
	assert.Equal(t, 1, failed)
}

type fixedCheck struct {
	name  string
	items []CheckItem
}

func (c fixedCheck) Name() string               { return c.name }
func (c fixedCheck) Run(context.Context) Result { return Result{Items: c.items} }

func TestRunAll_WorstItemWins(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		fixedCheck{name: "empty"},
		fixedCheck{name: "mixed", items: []CheckItem{pass("a", ""), warn("b", ""), pass("c", "")}},
		fixedCheck{name: "broken", items: []CheckItem{warn("a", ""), fail("b", "")}},
	})

	require.Len(t, results, 3)
	assert.Equal(t, "empty", results[0].Name, "name falls back to Check.Name")
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusWarn, results[1].Status)
	assert.Equal(t, StatusFail, results[2].Status)

	passed, warned, failed := Summary(results)
	assert.Equal(t, [3]int{2, 2, 1}, [3]int{passed, warned, failed})
}

func TestRunAll_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, RunAll(ctx, []Check{fixedCheck{name: "never"}}))
}
