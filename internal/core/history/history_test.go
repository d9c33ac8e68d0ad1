package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry_LineRoundTrip(t *testing.T) {
	e := Entry{
		Time:    time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
		Content: "fix\tthe\nbuild",
	}

	line := e.Line()
	assert.Equal(t, "2026-02-03T04:05:06Z\tfix the build", line)

	got, err := Parse(line + "\n")
	require.NoError(t, err)
	assert.True(t, e.Time.Equal(got.Time))
	assert.Equal(t, "fix the build", got.Content)
}

func TestParse_Malformed(t *testing.T) {
	for _, line := range []string{"", "no tab here", "yesterday\tcontent"} {
		_, err := Parse(line)
		require.ErrorIs(t, err, ErrMalformed, line)
	}
}
