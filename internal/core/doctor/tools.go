package doctor

import (
	"context"
	"os/exec"
	"runtime"
)

// lookPathFunc is the function used to find executables on PATH.
// Package-level variable to allow test overrides.
var lookPathFunc = exec.LookPath

// ToolsCheck verifies that the external tools the pane backends shell out to
// are available on $PATH.
type ToolsCheck struct {
	goos string
}

// NewToolsCheck creates a new tools check for the running platform.
func NewToolsCheck() *ToolsCheck {
	return &ToolsCheck{goos: runtime.GOOS}
}

func (c *ToolsCheck) Name() string {
	return "Tools"
}

func (c *ToolsCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	// sh runs the on_close hook
	result.Items = append(result.Items, lookup("sh", StatusFail, "not found on PATH (required for hooks)"))
	result.Items = append(result.Items, lookup("tmux", StatusWarn, "not found on PATH (required for the tmux backend)"))

	if c.goos == "darwin" {
		result.Items = append(result.Items, lookup("osascript", StatusWarn, "not found on PATH (required for the iTerm2 backend)"))
	}

	return result
}

func lookup(name string, missing Status, detail string) CheckItem {
	path, err := lookPathFunc(name)
	if err != nil {
		return CheckItem{Label: name, Status: missing, Detail: detail}
	}
	return CheckItem{Label: name, Status: StatusPass, Detail: path}
}
