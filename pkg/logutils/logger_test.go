package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "queuebar.log")

	logger, closer, err := New("info", file)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("task", "abc").Msg("dispatched")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug line should be filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "dispatched", entry["message"])
	assert.Equal(t, "abc", entry["task"])
	assert.Contains(t, entry, "pid")
}

func TestNew_Appends(t *testing.T) {
	file := filepath.Join(t.TempDir(), "queuebar.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := New("info", file)
		require.NoError(t, err)
		logger.Info().Msg(msg)
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestNew_RotatesLargeFile(t *testing.T) {
	old := MaxSizeMB
	MaxSizeMB = 1
	t.Cleanup(func() { MaxSizeMB = old })

	dir := t.TempDir()
	file := filepath.Join(dir, "queuebar.log")
	require.NoError(t, os.WriteFile(file, []byte(strings.Repeat("x", 1<<20)), 0o644))

	logger, closer, err := New("info", file)
	require.NoError(t, err)
	logger.Info().Msg("fresh")
	closer()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "xxx")
	assert.Contains(t, string(data), "fresh")

	backups, err := filepath.Glob(filepath.Join(dir, "queuebar-*.log"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	rotated, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.Len(t, rotated, 1<<20)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}
