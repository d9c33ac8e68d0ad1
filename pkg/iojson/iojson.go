// Package iojson reads command input and writes command output as JSON.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

type marshalError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// WriteWith writes obj to w as indented JSON. When obj cannot be marshalled
// the failure goes to ew as a JSON object; that is a programming error, not
// bad input.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err == nil {
		_, err = fmt.Fprintf(w, "%s\n", bits)
		return err
	}

	bits, _ = json.Marshal(marshalError{Message: "error marshaling output", Error: err.Error()})
	if _, werr := fmt.Fprintf(ew, "%s\n", bits); werr != nil {
		return werr
	}
	return fmt.Errorf("marshal output: %w", err)
}
