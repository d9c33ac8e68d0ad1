// Package todo defines the read-only mirror of the assistant's own todo list.
package todo

// Status is the assistant-side state of a todo.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Item is one entry of the mirrored todo list.
type Item struct {
	Content    string `json:"content"`
	Status     Status `json:"status"`
	ActiveForm string `json:"activeForm,omitempty"`
}

// Label returns the text shown for the item: the present-continuous form while
// in progress, the plain content otherwise.
func (i Item) Label() string {
	if i.Status == StatusInProgress && i.ActiveForm != "" {
		return i.ActiveForm
	}
	return i.Content
}

// Completed returns the contents of all completed items.
func Completed(items []Item) []string {
	var out []string
	for _, it := range items {
		if it.Status == StatusCompleted {
			out = append(out, it.Content)
		}
	}
	return out
}

// Counts tallies items by status.
func Counts(items []Item) (pending, inProgress, completed int) {
	for _, it := range items {
		switch it.Status {
		case StatusPending:
			pending++
		case StatusInProgress:
			inProgress++
		case StatusCompleted:
			completed++
		}
	}
	return pending, inProgress, completed
}
