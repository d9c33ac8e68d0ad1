package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component returns the global logger tagged with name under the "cmp" key.
// A project scope carried by ctx is bound as well, so events logged from
// helper goroutines without a context still carry it.
func Component(ctx context.Context, name string) zerolog.Logger {
	c := log.With().Str("cmp", name)
	if project := GetProject(ctx); project != "" {
		c = c.Str("project", project)
	}
	return c.Logger()
}
