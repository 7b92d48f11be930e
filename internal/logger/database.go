package logger

import (
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	gormadapter "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/logger/adapter/gorm"
)

// Database returns the gorm logger for cfg. It writes through the global
// logger, so Init should run first. Statements slower than
// cfg.SlowQueryThreshold are logged as warnings.
func Database(cfg Log) gormlogger.Interface {
	return gormadapter.New(cfg.SlowQueryThreshold).LogMode(DatabaseLevel(cfg.LogLevel))
}

// DatabaseLevel maps a zerolog level name to the least verbose gorm mode that
// still emits events at that level. Statements are traced only at trace
// level. Unknown names fall back to gorm's warn mode.
func DatabaseLevel(level string) gormlogger.LogLevel {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return gormlogger.Warn
	}

	switch {
	case l == zerolog.Disabled:
		return gormlogger.Silent
	case l == zerolog.TraceLevel:
		return gormlogger.Info
	case l >= zerolog.ErrorLevel && l <= zerolog.PanicLevel:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
