// Package logger configures the global zerolog logger of the service and the
// loggers derived from the same Log config: the gorm statement logger and,
// through adapter/fiber, the access log.
package logger

import (
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes an event to the writer of its level. Trace and warn have
// their own writers, debug and info share InfoWriter and everything above
// warn goes to ErrorWriter.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init replaces the global logger with one built from cfg. Every event
// carries the service and app names, and the environment when LogEnv is set.
// Without console or file output enabled all events are dropped.
func Init(cfg Log) error {
	level, err := cfg.validate()
	if err != nil {
		return err
	}

	writers, err := cfg.writers()
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	stack := level == zerolog.TraceLevel
	if stack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(newLevelCounter(cfg.ServiceName, cfg.AppName)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("app", cfg.AppName)

	if cfg.LogEnv != "" {
		ctx = ctx.Str("env", cfg.LogEnv)
	}

	switch {
	case cfg.ReportCaller && stack:
		ctx = ctx.Stack()
	case cfg.ReportCaller:
		ctx = ctx.Caller()
	}

	log.Logger = ctx.Logger()

	return nil
}

// validate checks cfg and returns the parsed level.
func (cfg Log) validate() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return level, errors.Wrapf(ErrUnknownLevel, "%q", cfg.LogLevel)
	}

	switch {
	case cfg.ServiceName == "":
		return level, ErrServiceNameIsEmpty
	case cfg.AppName == "":
		return level, ErrAppNameIsEmpty
	case cfg.File.Enabled && cfg.File.Path == "":
		return level, ErrFilePathIsEmpty
	case cfg.SlowQueryThreshold < 0:
		return level, ErrNegativeSlowQueryThreshold
	}

	return level, nil
}

// writers returns the enabled outputs of cfg.
func (cfg Log) writers() ([]io.Writer, error) {
	var out []io.Writer

	if cfg.Console.Enabled {
		out = append(out, NewConsoleWriter(cfg.Console))
	}

	if cfg.File.Enabled {
		f := cfg.File
		if err := os.MkdirAll(f.Path, 0o750); err != nil { //nolint:mnd
			return nil, errors.Wrap(err, "can't create log directory")
		}

		out = append(out, &LevelWriter{
			ErrorWriter: Rolling(f.Path, f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxBackups, f.ErrorMaxAge),
			InfoWriter:  Rolling(f.Path, f.InfoLog, f.InfoMaxSize, f.InfoMaxBackups, f.InfoMaxAge),
			TraceWriter: Rolling(f.Path, f.TraceLog, f.TraceMaxSize, f.TraceMaxBackups, f.TraceMaxAge),
			WarnWriter:  Rolling(f.Path, f.WarnLog, f.WarnMaxSize, f.WarnMaxBackups, f.WarnMaxAge),
		})
	}

	return out, nil
}

// Rolling returns a size rotated log file dir/name. Sizes are in megabytes,
// ages in days; zero keeps lumberjack's defaults.
func Rolling(dir, name string, maxSize, maxBackups, maxAge int) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, name),
		MaxSize:    maxSize,
		MaxAge:     maxAge,
		MaxBackups: maxBackups,
	}
}

// NewConsoleWriter sends debug and info events to stdout and all others to
// stderr, as JSON or pretty printed when c.UseConsoleWriter is set.
func NewConsoleWriter(c Console) *LevelWriter {
	stdout := ConsoleOut(os.Stdout, c.UseConsoleWriter)
	stderr := ConsoleOut(os.Stderr, c.UseConsoleWriter)

	return &LevelWriter{
		ErrorWriter: stderr,
		InfoWriter:  stdout,
		TraceWriter: stderr,
		WarnWriter:  stderr,
	}
}

// ConsoleOut wraps out in a zerolog.ConsoleWriter when pretty is set.
// Excluded parts are left out of the pretty output.
func ConsoleOut(out io.Writer, pretty bool, exclude ...string) io.Writer {
	if !pretty {
		return out
	}

	return zerolog.ConsoleWriter{
		Out:          out,
		TimeFormat:   zerolog.TimeFieldFormat,
		PartsExclude: exclude,
	}
}
