// Package history defines the append-only dispatch log.
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed is returned by Parse for lines that are not "<RFC3339>\t<content>".
var ErrMalformed = errors.New("malformed history line")

// Entry records one task sent to the assistant.
type Entry struct {
	Time    time.Time
	Content string
}

// Line renders the entry as a single log line without the trailing newline.
// Newlines and tabs in the content are flattened to spaces.
func (e Entry) Line() string {
	content := strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(e.Content)
	return e.Time.UTC().Format(time.RFC3339) + "\t" + content
}

// Parse reads a line written by Line.
func Parse(line string) (Entry, error) {
	ts, content, ok := strings.Cut(strings.TrimRight(line, "\r\n"), "\t")
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return Entry{Time: t, Content: content}, nil
}
