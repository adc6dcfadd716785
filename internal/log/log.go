// Package log provides structured, colored logging for Cygnet tooling.
// Library packages under pkg/ never log; no return value anywhere depends
// on this package.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the root logger instance.
var Logger zerolog.Logger

// Component loggers for different parts of the system.
var (
	Keys       zerolog.Logger
	Event      zerolog.Logger
	Delegation zerolog.Logger
	CLI        zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stderr, "info")
	initComponentLoggers()
}

// Init initializes the root logger with the given level and output mode.
func Init(level string, jsonOutput bool) {
	if jsonOutput {
		Logger = NewJSONLogger(os.Stderr, level)
	} else {
		Logger = NewConsoleLogger(os.Stderr, level)
	}
	initComponentLoggers()
}

// NewConsoleLogger creates a colored console logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}
	return zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger creates a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// parseLevel converts a string level to zerolog.Level.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// initComponentLoggers initializes loggers for each component.
func initComponentLoggers() {
	Keys = Logger.With().Str("component", "keys").Logger()
	Event = Logger.With().Str("component", "event").Logger()
	Delegation = Logger.With().Str("component", "delegation").Logger()
	CLI = Logger.With().Str("component", "cli").Logger()
}
