// Package validate provides validation shared by the CLI inputs.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// TaskContent validates a task description is non-empty after trimming whitespace.
func TaskContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// TaskContentField returns a criterio validator for task descriptions.
func TaskContentField(field, content string) error {
	return criterio.Run(field, content, TaskContent)
}

// Priority validates a task priority. Lower numbers sort first; zero and
// negatives are reserved.
func Priority(p int) error {
	if p < 1 {
		return fmt.Errorf("priority must be at least 1, got %d", p)
	}
	return nil
}

// Percent validates a value in [0, 100].
func Percent(v float64) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("must be between 0 and 100, got %g", v)
	}
	return nil
}
