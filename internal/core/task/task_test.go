package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func ids(qs []Queued) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestSortQueue(t *testing.T) {
	tasks := []Queued{
		{ID: "D", CreatedAt: t0.Add(2 * time.Minute)},
		{ID: "B", CreatedAt: t0.Add(3 * time.Minute), Priority: IntPtr(2)},
		{ID: "C", CreatedAt: t0.Add(1 * time.Minute)},
		{ID: "A", CreatedAt: t0.Add(4 * time.Minute), Priority: IntPtr(1)},
	}

	sorted := SortQueue(tasks)
	assert.Equal(t, []string{"A", "B", "C", "D"}, ids(sorted))

	again := SortQueue(sorted)
	assert.Equal(t, ids(sorted), ids(again), "sort must be idempotent")

	assert.Equal(t, "D", tasks[0].ID, "input must not be reordered")
}

func TestSortQueue_TiesBrokenByID(t *testing.T) {
	tasks := []Queued{
		{ID: "b", CreatedAt: t0},
		{ID: "a", CreatedAt: t0},
	}
	assert.Equal(t, []string{"a", "b"}, ids(SortQueue(tasks)))
}

func TestNewQueued(t *testing.T) {
	a := NewQueued("  fix the build  ", t0)
	b := NewQueued("fix the build", t0)

	assert.Equal(t, "fix the build", a.Content)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, t0, a.CreatedAt)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Fix the login bug", "fix the login bug", 1},
		{"disjoint", "write docs", "refactor parser", 0},
		{"subset", "update parser", "Update the parser error messages", 1},
		{"partial", "add retry logic to uploader", "add logging to uploader", 2.0 / 3.0},
		{"empty", "", "anything", 0},
		{"short words ignored", "a b c", "a b c", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 0.001)
		})
	}
}

func TestMatchCompleted(t *testing.T) {
	completed := []string{"Write release notes", "Fix flaky upload test"}

	got, ok := MatchCompleted("fix the flaky upload test", completed, 0.6)
	require.True(t, ok)
	assert.Equal(t, "Fix flaky upload test", got)

	_, ok = MatchCompleted("fix the flaky upload test", completed, 0)
	assert.False(t, ok, "zero threshold disables matching")

	_, ok = MatchCompleted("migrate database", completed, 0.5)
	assert.False(t, ok)
}
