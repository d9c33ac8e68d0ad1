package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLookPath(t *testing.T, missing ...string) {
	t.Helper()
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })

	lookPathFunc = func(file string) (string, error) {
		for _, m := range missing {
			if file == m {
				return "", &exec.Error{Name: file, Err: fmt.Errorf("not found")}
			}
		}
		return "/usr/bin/" + file, nil
	}
}

func TestToolsCheck_AllPresentLinux(t *testing.T) {
	stubLookPath(t)

	check := &ToolsCheck{goos: "linux"}
	result := check.Run(context.Background())

	assert.Equal(t, "Tools", result.Name)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "sh", result.Items[0].Label)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "tmux", result.Items[1].Label)
	assert.Equal(t, "/usr/bin/tmux", result.Items[1].Detail)
}

func TestToolsCheck_DarwinIncludesOsascript(t *testing.T) {
	stubLookPath(t, "osascript")

	check := &ToolsCheck{goos: "darwin"}
	result := check.Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, "osascript", result.Items[2].Label)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
}

func TestToolsCheck_MissingShellFails(t *testing.T) {
	stubLookPath(t, "sh", "tmux")

	check := &ToolsCheck{goos: "linux"}
	result := check.Run(context.Background())

	assert.Equal(t, StatusFail, result.Items[0].Status)
	assert.Equal(t, StatusWarn, result.Items[1].Status)

	passed, warned, failed := Summary([]Result{result})
	assert.Equal(t, 0, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}
