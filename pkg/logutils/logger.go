// Package logutils builds the process logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MaxSizeMB is the size in megabytes at which the log file is rotated.
var MaxSizeMB = 5

// maxBackups is how many rotated files are kept beside the live one.
const maxBackups = 1

// New returns a JSON logger at level writing to file, or to stderr when file
// is empty. The sidebar owns stdout in raw mode, so the UI always logs to a
// file. The returned func closes the file.
func New(level string, file string) (zerolog.Logger, func(), error) {
	noop := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, noop, err
	}

	var w io.Writer = os.Stderr
	closer := noop
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, noop, fmt.Errorf("create logs dir: %w", err)
		}
		// Appends, so a spawn and the show it starts share one log.
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    MaxSizeMB,
			MaxBackups: maxBackups,
		}
		w = lj
		closer = func() { _ = lj.Close() }
	}

	l := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()

	return l, closer, nil
}
