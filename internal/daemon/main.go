// Package daemon wires configuration, storage, sessions and the web service
// into the running server.
package daemon

import (
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/auth"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
	store "github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/db/dsn"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web"
	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	db         *gorm.DB
}

// Start starts the web service and blocks until it was shut down.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start()

	if sqlDB, dbErr := d.db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = store.Migrate(db); err != nil {
		return nil, err
	}

	hasher := auth.NewArgon2id()

	if err = Seed(cfg, db, hasher); err != nil {
		return nil, errors.Wrap(err, "failed to seed database")
	}

	sessionStorage, err := newSessionStorage(cfg)
	if err != nil {
		return nil, err
	}

	session.Init(sessionStorage)

	log.Info().Str("engine", cfg.DB.GormEngine).Str("sessions", cfg.Webserver.Session.Storage).
		Msg("daemon initialized")

	return &Daemon{
		webService: web.New(cfg, db, hasher),
		db:         db,
	}, nil
}

// newSessionStorage returns the fiber storage selected by the configuration.
// Memory storage is represented by nil.
func newSessionStorage(cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Webserver.Session.Storage {
	case config.SessionStorageMemory:
		return nil, nil
	case config.SessionStorageMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         cfg.Webserver.Session.Table,
		}), nil
	case config.SessionStoragePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         cfg.Webserver.Session.Table,
		}), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownSessionStorage, cfg.Webserver.Session.Storage)
	}
}
