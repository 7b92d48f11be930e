// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
)

const (
	// EngineMySQL selects the gorm mysql driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the gorm postgres driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure go sqlite driver.
	EngineSQLite = "sqlite"

	// sqlitePragmas turns on foreign keys so association rows cascade.
	sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	db := cfg.DB

	switch db.GormEngine {
	case EnginePostgres:
		return strings.TrimSpace(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s %s",
			db.Host,
			db.Port,
			db.User,
			db.Password,
			db.Name,
			db.Extras,
		))
	case EngineSQLite:
		path := db.Path
		if path == "" {
			path = "file::memory:"
		}

		return SQLite(path, db.Extras)
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.Extras,
		)
	}
}

// SQLite returns a sqlite DSN for path with foreign keys enabled.
func SQLite(path, extras string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	out := path + sep + sqlitePragmas
	if extras != "" {
		out += "&" + extras
	}

	return out
}
