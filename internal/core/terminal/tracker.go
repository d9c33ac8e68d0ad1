package terminal

// CompletionTracker turns individual idle observations into a completion
// decision. A prompt can flash past while the assistant is still rendering, so
// completion requires Required consecutive idle observations.
type CompletionTracker struct {
	Required int
	streak   int
}

// NewCompletionTracker returns a tracker needing required consecutive idle
// observations. Values below 1 are treated as 1.
func NewCompletionTracker(required int) *CompletionTracker {
	if required < 1 {
		required = 1
	}
	return &CompletionTracker{Required: required}
}

// Observe records one observation and reports whether the task is complete.
// A busy observation resets the streak. The streak is cleared once complete.
func (t *CompletionTracker) Observe(idle bool) bool {
	if !idle {
		t.streak = 0
		return false
	}
	t.streak++
	if t.streak >= t.Required {
		t.streak = 0
		return true
	}
	return false
}

// Streak returns the current number of consecutive idle observations.
func (t *CompletionTracker) Streak() int { return t.streak }

// Reset clears the streak, e.g. when a new task becomes active.
func (t *CompletionTracker) Reset() { t.streak = 0 }
