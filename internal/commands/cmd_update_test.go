package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/queuebar/internal/core/task"
	"github.com/colonyops/queuebar/internal/core/todo"
	"github.com/colonyops/queuebar/internal/store/jsonfile"
)

func ptr[T any](v T) *T { return &v }

func newStore(t *testing.T) *jsonfile.Store {
	t.Helper()
	return jsonfile.Open(t.TempDir(), t.TempDir())
}

func TestUpdateInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   UpdateInput
		wantErr bool
	}{
		{
			name:    "empty payload",
			input:   UpdateInput{},
			wantErr: true,
		},
		{
			name:  "clearing todos is allowed",
			input: UpdateInput{Todos: &[]todo.Item{}},
		},
		{
			name: "valid todos and metrics",
			input: UpdateInput{
				Todos:   &[]todo.Item{{Content: "write tests", Status: todo.StatusPending}},
				Metrics: &task.Metrics{ContextPercent: 42, CostUSD: 1.5},
			},
		},
		{
			name:    "unknown todo status",
			input:   UpdateInput{Todos: &[]todo.Item{{Content: "x", Status: "blocked"}}},
			wantErr: true,
		},
		{
			name:    "blank todo",
			input:   UpdateInput{Todos: &[]todo.Item{{Content: " ", Status: todo.StatusPending}}},
			wantErr: true,
		},
		{
			name:    "context percent out of range",
			input:   UpdateInput{Metrics: &task.Metrics{ContextPercent: 120}},
			wantErr: true,
		},
		{
			name:    "negative cost",
			input:   UpdateInput{Metrics: &task.Metrics{CostUSD: -1}},
			wantErr: true,
		},
		{
			name:    "task patch without id",
			input:   UpdateInput{Tasks: []TaskPatch{{Recommended: ptr(true)}}},
			wantErr: true,
		},
		{
			name:    "duplicate task ids",
			input:   UpdateInput{Tasks: []TaskPatch{{ID: "a"}, {ID: "a"}}},
			wantErr: true,
		},
		{
			name:    "negative priority",
			input:   UpdateInput{Tasks: []TaskPatch{{ID: "a", Priority: ptr(-2)}}},
			wantErr: true,
		},
		{
			name:  "zero priority clears",
			input: UpdateInput{Tasks: []TaskPatch{{ID: "a", Priority: ptr(0)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestApplyUpdate_TodosAndMetrics(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	items := []todo.Item{
		{Content: "write tests", Status: todo.StatusCompleted},
		{Content: "fix lint", Status: todo.StatusInProgress, ActiveForm: "Fixing lint"},
	}
	res, err := applyUpdate(ctx, store, UpdateInput{
		Todos:   &items,
		Metrics: &task.Metrics{ContextPercent: 42, Model: "opus"},
	})
	require.NoError(t, err)
	assert.Equal(t, UpdateResult{Todos: true, Metrics: true}, res)

	gotTodos, err := store.Todos(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, gotTodos)

	gotMetrics, err := store.Metrics(ctx)
	require.NoError(t, err)
	require.NotNil(t, gotMetrics)
	assert.InDelta(t, 42, gotMetrics.ContextPercent, 0.001)
	assert.Equal(t, "opus", gotMetrics.Model)
}

func TestApplyUpdate_TaskPatches(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	added, err := addTasks(ctx, store, time.Now(), nil, "first", "second")
	require.NoError(t, err)
	require.Len(t, added, 2)

	res, err := applyUpdate(ctx, store, UpdateInput{Tasks: []TaskPatch{
		{ID: added[1].ID, Priority: ptr(1), Clarified: ptr(true), PlanRef: ptr("plans/second.md")},
		{ID: added[0].ID, Recommended: ptr(true)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Tasks)

	board, err := store.Board(ctx)
	require.NoError(t, err)
	sorted := board.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "second", sorted[0].Content)
	assert.Equal(t, 1, *sorted[0].Priority)
	assert.True(t, sorted[0].Clarified)
	assert.Equal(t, "plans/second.md", sorted[0].PlanRef)
	assert.True(t, sorted[1].Recommended)

	_, err = applyUpdate(ctx, store, UpdateInput{Tasks: []TaskPatch{{ID: added[1].ID, Priority: ptr(0)}}})
	require.NoError(t, err)
	board, err = store.Board(ctx)
	require.NoError(t, err)
	q, ok := board.Find(added[1].ID)
	require.True(t, ok)
	assert.Nil(t, q.Priority)
}

func TestApplyUpdate_UnknownTaskChangesNothing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	added, err := addTasks(ctx, store, time.Now(), nil, "only")
	require.NoError(t, err)

	_, err = applyUpdate(ctx, store, UpdateInput{Tasks: []TaskPatch{
		{ID: added[0].ID, Recommended: ptr(true)},
		{ID: "missing", Recommended: ptr(true)},
	}})
	require.ErrorIs(t, err, task.ErrNotFound)

	board, err := store.Board(ctx)
	require.NoError(t, err)
	assert.False(t, board.Queue[0].Recommended)
}
