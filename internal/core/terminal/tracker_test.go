package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionTracker_RequiresConsecutiveIdle(t *testing.T) {
	tr := NewCompletionTracker(2)

	assert.False(t, tr.Observe(true), "one idle observation is not enough")
	assert.False(t, tr.Observe(false), "busy resets the streak")
	assert.Equal(t, 0, tr.Streak())
	assert.False(t, tr.Observe(true))
	assert.True(t, tr.Observe(true), "second consecutive idle completes")
	assert.Equal(t, 0, tr.Streak(), "streak cleared after completion")
}

func TestCompletionTracker_MinimumOne(t *testing.T) {
	tr := NewCompletionTracker(0)
	assert.Equal(t, 1, tr.Required)
	assert.True(t, tr.Observe(true))
}

func TestCompletionTracker_Reset(t *testing.T) {
	tr := NewCompletionTracker(3)
	tr.Observe(true)
	tr.Observe(true)
	tr.Reset()
	assert.False(t, tr.Observe(true))
	assert.Equal(t, 1, tr.Streak())
}
