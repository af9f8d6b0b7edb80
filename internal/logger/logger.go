package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hayatfoundation/site/internal/config"
)

// NewLogger creates the process logger from config and installs it as the global zerolog logger.
func NewLogger(cfg config.Log) zerolog.Logger {
	l := New(cfg.Level, cfg.Format, os.Stdout)
	log.Logger = l
	return l
}

// New creates a new logger with specified level and output format.
func New(level, format string, out io.Writer) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))

	var w io.Writer = out
	if strings.ToLower(format) != "json" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()
}

// ParseLevel parses log level string to zerolog.Level
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "silent", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
