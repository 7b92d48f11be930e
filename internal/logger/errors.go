package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrUnknownLevel is returned for a Log.LogLevel zerolog can't parse.
	ErrUnknownLevel = errors.New("config Log.LogLevel is not a zerolog level")

	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")

	// ErrFilePathIsEmpty is returned if file logging is enabled without Log.File.Path.
	ErrFilePathIsEmpty = errors.New("config Log.File.Path can not be empty when file logging is enabled")

	// ErrNegativeSlowQueryThreshold is returned for a Log.SlowQueryThreshold below zero.
	ErrNegativeSlowQueryThreshold = errors.New("config Log.SlowQueryThreshold can not be negative")
)

// ErrorHandler reports events zerolog failed to write. It is installed as
// zerolog.ErrorHandler by Init.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "logger: dropped event: %v\n", err)
}
