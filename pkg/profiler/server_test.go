package profiler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shutdown(t *testing.T, s *Server) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(ctx))
}

func TestServer_NotStarted(t *testing.T) {
	s := New(0)
	assert.Empty(t, s.Addr())
	shutdown(t, s)
}

func TestServer_BindsLocalhost(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Start(context.Background()))
	defer shutdown(t, s)

	assert.True(t, strings.HasPrefix(s.Addr(), "127.0.0.1:"), "got %s", s.Addr())
}

func TestServer_Endpoints(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Start(context.Background()))
	defer shutdown(t, s)

	for _, endpoint := range []string{
		"/debug/pprof/",
		"/debug/pprof/cmdline",
		"/debug/pprof/symbol",
		"/debug/pprof/goroutine?debug=1",
	} {
		t.Run(endpoint, func(t *testing.T) {
			resp, err := http.Get("http://" + s.Addr() + endpoint)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			_, _ = io.Copy(io.Discard, resp.Body)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
		})
	}
}
