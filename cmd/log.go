package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a human readable logger writing to w. Only warnings and
// errors are shown unless verbose.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}
