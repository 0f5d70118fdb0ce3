package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

func New() zerolog.Logger {
	return newLogger(os.Stderr, zerolog.InfoLevel)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	return newLogger(os.Stderr, level)
}

// ParseLevel maps a config string onto a zerolog level, falling back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)
}
