// Package logging builds the zerolog loggers used by the cmcol front ends.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/handiism/cmcol/internal/config"
)

// ParseLevel maps a settings log level onto zerolog. Unknown values fall
// back to warn.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case config.LogLevelDebug:
		return zerolog.DebugLevel
	case config.LogLevelInfo:
		return zerolog.InfoLevel
	case config.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// New returns a console logger writing to w at the given level.
//
// Colors are enabled only when w is a terminal.
//
// Example:
//
//	log := logging.New(os.Stderr, "debug")
//	log.Debug().Str("path", p).Msg("skipped")
func New(w io.Writer, level string) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !IsTerminal(w),
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(console).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
