// Package tmpl provides template rendering utilities for shell commands.
package tmpl

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ShellQuote returns a shell-safe quoted string. It wraps the string in single
// quotes and escapes any existing single quotes using the '\" technique.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	// Replace ' with '\'' (end quote, escaped quote, start quote)
	escaped := strings.ReplaceAll(s, "'", `'\''`)
	return "'" + escaped + "'"
}

// executable is the path returned by the self function.
var executable string

// SetExecutable registers the running binary for the self template function.
// Call once at startup.
func SetExecutable(path string) {
	executable = path
}

var funcs = template.FuncMap{
	"shq":  ShellQuote,
	"join": strings.Join,
	"self": func() string { return stringOrDefault(executable, "queuebar") },
}

func stringOrDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func parse(src string) (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return t, nil
}

// Check reports whether src parses. Field references are only resolved by
// Render.
func Check(src string) error {
	_, err := parse(src)
	return err
}

// Render executes a Go template string with the given data.
// Returns an error if the template is invalid or references undefined keys.
//
// Available template functions:
//   - shq: Shell-quote a string for safe use in shell commands
//   - join: Join string slice with separator (e.g., join .Args " ")
//   - self: Path of the running queuebar executable
func Render(tmpl string, data any) (string, error) {
	t, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
