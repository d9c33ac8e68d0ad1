package pane

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecords struct {
	rec Record
	err error
}

func (m *memRecords) PaneRecord(ctx context.Context) (Record, error) { return m.rec, m.err }

func (m *memRecords) SetPaneRecord(ctx context.Context, rec Record) error {
	m.rec = rec
	m.err = nil
	return nil
}

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		preferred Kind
		env       map[string]string
		want      Kind
		wantErr   error
	}{
		{name: "tmux", env: map[string]string{"TMUX": "/tmp/tmux-1/default,1,0"}, want: KindTmux},
		{name: "iterm", env: map[string]string{"TERM_PROGRAM": "iTerm.app"}, want: KindITerm},
		{name: "tmux wins inside iterm", env: map[string]string{"TMUX": "x", "TERM_PROGRAM": "iTerm.app"}, want: KindTmux},
		{name: "nothing", env: map[string]string{"TERM_PROGRAM": "Apple_Terminal"}, wantErr: ErrNoBackend},
		{name: "forced", preferred: KindITerm, env: map[string]string{}, want: KindITerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.preferred, env(tt.env))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Detect("screen", env(nil))
	require.Error(t, err)
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c\nd", lastLines("a\nb\nc\nd\n", 2))
	assert.Equal(t, "a\nb", lastLines("a\nb", 5))
}

type slowBackend struct{ ITerm }

func (s *slowBackend) Capture(ctx context.Context, lines int) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	b := WithTimeout(&slowBackend{}, 10*time.Millisecond)

	start := time.Now()
	_, err := b.Capture(context.Background(), 10)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), time.Second)

	plain := &slowBackend{}
	assert.Same(t, Backend(plain), WithTimeout(plain, 0))
}
