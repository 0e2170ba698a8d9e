// Package logging configures zerolog for the client and the companion server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ecrypto/chatclient/internal/config"
)

// ParseLevel converts a string level into zerolog.Level with a safe default
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "info":
		fallthrough
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing JSON lines to w at the given level.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewConsole returns a human-readable logger for w, used by the server.
func NewConsole(w io.Writer, level string) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}, level)
}

// SetupClient installs the global logger for interactive commands. The TUI
// owns the terminal, so logs go to chatclient.log when verbose is on and are
// discarded otherwise. The returned close func must be called on exit.
func SetupClient(cfg config.Config) (zerolog.Logger, func() error, error) {
	noop := func() error { return nil }

	if !cfg.Verbose {
		log.Logger = zerolog.Nop()
		return log.Logger, noop, nil
	}

	if _, err := config.EnsureConfigDir(); err != nil {
		return zerolog.Nop(), noop, err
	}
	path, err := config.GetLogPath()
	if err != nil {
		return zerolog.Nop(), noop, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), noop, fmt.Errorf("failed to open log file: %w", err)
	}

	log.Logger = New(f, cfg.LogLevel)
	return log.Logger, f.Close, nil
}

// SetupServer installs a console logger on stderr.
func SetupServer(level string) zerolog.Logger {
	log.Logger = NewConsole(os.Stderr, level)
	return log.Logger
}
