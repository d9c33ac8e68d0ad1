package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	return &buf
}

func TestComponent(t *testing.T) {
	buf := captureGlobal(t)

	logger := Component(context.Background(), "scheduler")
	logger.Info().Msg("tick")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["cmp"])
	assert.Equal(t, "tick", entry["message"])
	assert.NotContains(t, entry, "project")
}

func TestComponent_BindsProject(t *testing.T) {
	buf := captureGlobal(t)

	ctx := WithProject(context.Background(), "3f2a9c01b7d4e588")
	logger := Component(ctx, "show")
	logger.Warn().Msg("store watcher unavailable")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "show", entry["cmp"])
	assert.Equal(t, "3f2a9c01b7d4e588", entry["project"])
}
