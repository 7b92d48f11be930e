// Package db opens the configured database and holds the query helpers shared
// by the registries in db/controller.
package db

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/dsn"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/models"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/logger"
)

// ErrUnknownEngine is returned for a DB.GormEngine value no driver is registered for.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Open connects to the configured database.
// SQLite is limited to a single connection so that in-memory databases are
// shared and writers are serialised.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case dsn.EngineMySQL, "":
		dialector = gormmysql.Open(dsn.Create(cfg))
	case dsn.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case dsn.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		return nil, errors.Wrap(ErrUnknownEngine, cfg.DB.GormEngine)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Database(cfg.Log),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	switch {
	case cfg.DB.GormEngine == dsn.EngineSQLite:
		sqlDB.SetMaxOpenConns(1)
	case cfg.DB.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	return gdb, nil
}

// Migrate registers the join tables and creates or updates the schema.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&models.Role{}, "Permissions", &models.RolePermission{}); err != nil {
		return errors.Wrap(err, "failed to set up role_permissions")
	}

	if err := gdb.SetupJoinTable(&models.User{}, "Roles", &models.UserRole{}); err != nil {
		return errors.Wrap(err, "failed to set up user_roles")
	}

	if err := gdb.AutoMigrate(
		&models.Permission{},
		&models.Role{},
		&models.User{},
		&models.Setting{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
