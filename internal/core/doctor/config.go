package doctor

import (
	"context"
	"errors"
	"os"

	"github.com/colonyops/queuebar/internal/core/config"
)

// ConfigCheck validates the loaded configuration and reports its warnings.
type ConfigCheck struct {
	path string
	cfg  *config.Config
}

// NewConfigCheck creates a configuration check.
func NewConfigCheck(path string, cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{path: path, cfg: cfg}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	items := []CheckItem{pass(c.path, "")}
	if _, err := os.Stat(c.path); errors.Is(err, os.ErrNotExist) {
		items[0].Detail = "not found, using defaults"
	}

	if err := c.cfg.ValidateDeep(c.path); err != nil {
		items = append(items, fail("validation", err.Error()))
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += ": " + w.Item
		}
		items = append(items, warn(label, w.Message))
	}

	return Result{Name: c.Name(), Items: items}
}
