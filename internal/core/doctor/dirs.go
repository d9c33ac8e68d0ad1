package doctor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Dir is a labelled directory to inspect.
type Dir struct {
	Label string
	Path  string
	// Optional directories only warn when missing.
	Optional bool
}

// DirsCheck verifies that the data directories exist and are accessible.
type DirsCheck struct {
	dirs []Dir
}

// NewDirsCheck creates a new directories check.
func NewDirsCheck(dirs ...Dir) *DirsCheck {
	return &DirsCheck{dirs: dirs}
}

func (c *DirsCheck) Name() string {
	return "Storage"
}

func (c *DirsCheck) Run(_ context.Context) Result {
	items := make([]CheckItem, 0, len(c.dirs))
	for _, dir := range c.dirs {
		items = append(items, dir.inspect())
	}
	return Result{Name: c.Name(), Items: items}
}

func (d Dir) inspect() CheckItem {
	info, err := os.Stat(d.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if d.Optional {
			return warn(d.Label, d.Path+" does not exist yet")
		}
		return fail(d.Label, d.Path+" does not exist")
	case err != nil:
		return fail(d.Label, fmt.Sprintf("inaccessible: %v", err))
	case !info.IsDir():
		return fail(d.Label, d.Path+" is not a directory")
	default:
		return pass(d.Label, d.Path)
	}
}
