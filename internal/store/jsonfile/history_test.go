package jsonfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/queuebar/internal/core/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p", "history.log")
	h := NewHistoryLog(path)

	empty, err := h.List(0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []string{"first", "second", "third"} {
		require.NoError(t, h.Append(history.Entry{Time: base.Add(time.Duration(i) * time.Minute), Content: c}))
	}

	// a foreign line is skipped, not fatal
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("garbage\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	all, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Content)

	two, err := h.List(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
