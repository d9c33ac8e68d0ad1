package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestReader_Inline(t *testing.T) {
	r := &Reader[payload]{}

	got, err := r.Read(`{"name":"a","count":2}`)
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)
}

func TestReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"file"}`), 0o644))

	r := &Reader[payload]{fileFlagValue: path}
	got, err := r.Read("")
	require.NoError(t, err)
	assert.Equal(t, "file", got.Name)
}

func TestReader_Stdin(t *testing.T) {
	r := &Reader[payload]{stdin: strings.NewReader(`{"count":7}`)}

	got, err := r.Read("  ")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Count)
}

func TestReader_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"name":`},
		{"unknown field", `{"nmae":"typo"}`},
		{"wrong type", `{"count":"two"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Reader[payload]{}
			_, err := r.Read(tt.input)
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, payload{Name: "x"}))
	assert.Contains(t, out.String(), `"name": "x"`)
	assert.Empty(t, errOut.String())

	err := WriteWith(&out, &errOut, func() {})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), `"message":"error marshaling output"`)
}
