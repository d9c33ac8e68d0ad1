package task

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T, contents ...string) Board {
	t.Helper()
	b, added := Board{}.Add(t0, contents...)
	require.Len(t, added, len(contents))
	return b
}

func TestBoard_Add(t *testing.T) {
	b, added := Board{}.Add(t0, "one", "  ", "two", "three")

	require.Len(t, added, 3, "blank content is skipped")
	assert.Equal(t, []string{"one", "two", "three"}, contents(b.Sorted()))
	require.NoError(t, b.Validate())
}

func contents(qs []Queued) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Content
	}
	return out
}

func TestBoard_Edit(t *testing.T) {
	b := seeded(t, "old")
	id := b.Queue[0].ID

	got, err := b.Edit(id, "  new  ")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Queue[0].Content)
	assert.Equal(t, "old", b.Queue[0].Content, "original board untouched")

	_, err = b.Edit(id, "   ")
	require.ErrorIs(t, err, ErrEmpty)

	_, err = b.Edit("missing", "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_Annotate(t *testing.T) {
	b := seeded(t, "a", "b")
	id := b.Queue[1].ID

	got, err := b.Annotate(id, func(q *Queued) {
		q.Priority = IntPtr(1)
		q.Recommended = true
		q.Content = "ignored"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, contents(got.Sorted()), "prioritized task sorts first")
	assert.Equal(t, "b", got.Queue[1].Content, "content is not patchable")
	assert.True(t, got.Queue[1].Recommended)
	assert.Nil(t, b.Queue[1].Priority, "original board untouched")

	_, err = b.Annotate("missing", func(*Queued) {})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_Delete(t *testing.T) {
	b := seeded(t, "a", "b")

	got, err := b.Delete(b.Queue[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, contents(got.Queue))

	_, err = got.Delete("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_Dispatch(t *testing.T) {
	b := seeded(t, "a", "b")
	id := b.Queue[0].ID
	now := t0.Add(time.Minute)

	got, finalized, err := b.Dispatch(id, now, PolicyReject, 20)
	require.NoError(t, err)
	assert.Nil(t, finalized)
	require.NotNil(t, got.Active)
	assert.Equal(t, id, got.Active.ID)
	assert.Equal(t, "a", got.Active.Content)
	assert.Equal(t, now, got.Active.SentAt)
	assert.Equal(t, []string{"b"}, contents(got.Queue))
	require.NoError(t, got.Validate())
}

func TestBoard_Dispatch_Policies(t *testing.T) {
	b := seeded(t, "a", "b")
	b, _, err := b.Dispatch(b.Queue[0].ID, t0, PolicyReject, 20)
	require.NoError(t, err)
	next := b.Queue[0].ID

	t.Run("reject", func(t *testing.T) {
		got, _, err := b.Dispatch(next, t0, PolicyReject, 20)
		require.ErrorIs(t, err, ErrActiveBusy)
		assert.Equal(t, b, got)
	})

	t.Run("finalize", func(t *testing.T) {
		got, finalized, err := b.Dispatch(next, t0.Add(time.Minute), PolicyFinalize, 20)
		require.NoError(t, err)
		require.NotNil(t, finalized)
		assert.Equal(t, "a", finalized.Content)
		assert.Equal(t, "b", got.Active.Content)
		require.Len(t, got.Done, 1)
		assert.Empty(t, got.Queue)
		require.NoError(t, got.Validate())
	})
}

func TestBoard_CompleteConfirmReturn(t *testing.T) {
	b := seeded(t, "a")
	b, _, err := b.Dispatch(b.Queue[0].ID, t0, PolicyReject, 20)
	require.NoError(t, err)
	id := b.Active.ID

	b, done, err := b.Complete(t0.Add(time.Minute), 20)
	require.NoError(t, err)
	assert.Nil(t, b.Active)
	assert.Equal(t, id, done.ID)
	require.Len(t, b.Done, 1)

	_, _, err = b.Complete(t0, 20)
	require.ErrorIs(t, err, ErrNotFound)

	returned, _, err := b.Return(id, t0.Add(2*time.Minute), PolicyReject, 20)
	require.NoError(t, err)
	require.NotNil(t, returned.Active)
	assert.Equal(t, id, returned.Active.ID)
	assert.Empty(t, returned.Done)
	require.NoError(t, returned.Validate())

	confirmed, err := b.Confirm(id)
	require.NoError(t, err)
	assert.Empty(t, confirmed.Done)

	_, err = confirmed.Confirm(id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBoard_DoneRetention(t *testing.T) {
	b := Board{}
	for i := range 5 {
		var added []Queued
		b, added = b.Add(t0, string(rune('a'+i)))
		var err error
		b, _, err = b.Dispatch(added[0].ID, t0, PolicyReject, 3)
		require.NoError(t, err)
		b, _, err = b.Complete(t0.Add(time.Duration(i)*time.Second), 3)
		require.NoError(t, err)
	}

	require.Len(t, b.Done, 3)
	assert.Equal(t, "e", b.Done[0].Content, "most recent first")
	assert.Equal(t, "c", b.Done[2].Content)
}

func TestBoard_Validate(t *testing.T) {
	b := Board{
		Queue:  []Queued{{ID: "x"}},
		Active: &Active{ID: "x"},
	}
	require.Error(t, b.Validate())
}

func TestBoard_Clone_DeepCopiesPriority(t *testing.T) {
	b := Board{Queue: []Queued{{ID: "x", Priority: IntPtr(1)}}}
	c := b.Clone()
	*c.Queue[0].Priority = 9
	assert.Equal(t, 1, *b.Queue[0].Priority)
}

// Random sequences of board operations never place an id in more than one
// collection and never duplicate ids.
func TestBoard_RandomOperationsKeepInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	b := Board{}
	now := t0

	pick := func(n int) int { return rng.IntN(n) }

	for range 2000 {
		now = now.Add(time.Second)
		switch pick(7) {
		case 0:
			b, _ = b.Add(now, "task")
		case 1:
			if len(b.Queue) > 0 {
				b, _ = b.Edit(b.Queue[pick(len(b.Queue))].ID, "edited")
			}
		case 2:
			if len(b.Queue) > 0 {
				b, _ = b.Delete(b.Queue[pick(len(b.Queue))].ID)
			}
		case 3:
			if len(b.Queue) > 0 {
				policy := PolicyReject
				if pick(2) == 0 {
					policy = PolicyFinalize
				}
				b, _, _ = b.Dispatch(b.Queue[pick(len(b.Queue))].ID, now, policy, 10)
			}
		case 4:
			b, _, _ = b.Complete(now, 10)
		case 5:
			if len(b.Done) > 0 {
				b, _ = b.Confirm(b.Done[pick(len(b.Done))].ID)
			}
		case 6:
			if len(b.Done) > 0 {
				b, _, _ = b.Return(b.Done[pick(len(b.Done))].ID, now, PolicyFinalize, 10)
			}
		}
		require.NoError(t, b.Validate())
		require.LessOrEqual(t, len(b.Done), 10)
	}
}
