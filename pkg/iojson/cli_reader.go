package iojson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrInvalid marks input that was read but could not be decoded.
var ErrInvalid = fmt.Errorf("invalid JSON")

// Reader decodes a JSON document given inline, through a --file flag, or on stdin.
type Reader[T any] struct {
	fileFlagValue string
	stdin         io.Reader
}

// Flag returns the --file flag bound to the reader.
func (r *Reader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if neither an argument nor a file is given)",
		Destination: &r.fileFlagValue,
	}
}

// Read decodes the inline argument when non-empty, otherwise the file, otherwise stdin.
// Unknown fields are rejected so a typo in a hook script fails loudly.
func (r *Reader[T]) Read(inline string) (T, error) {
	var input T
	var reader io.Reader

	switch {
	case strings.TrimSpace(inline) != "":
		reader = strings.NewReader(inline)
	case r.fileFlagValue != "":
		data, err := os.ReadFile(r.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		reader = bytes.NewReader(data)
	case r.stdin != nil:
		reader = r.stdin
	default:
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); pass JSON as an argument, use -f, or pipe it")
		}
		reader = os.Stdin
	}

	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return input, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return input, nil
}
