package config

import (
	"time"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/logger"
)

// Session storage backends.
const (
	SessionStorageMemory   = "memory"
	SessionStorageMySQL    = "mysql"
	SessionStoragePostgres = "postgres"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	CookieName string
	Storage    string // memory, mysql or postgres. The sql backends reuse the DB credentials.
	Table      string // session table for the sql backends
}

// RBAC holds the access control behaviour settings.
type RBAC struct {
	// FreezeNames keeps permission and role names fixed after creation.
	// By default a label change re-derives the name.
	FreezeNames bool
	// PageSize is used by list endpoints when the request carries none.
	PageSize int
}

// Admin is the bootstrap administrator created on first start.
// It is skipped if Email is empty.
type Admin struct {
	Name     string
	Email    string
	Password string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	RBAC      RBAC
	Admin     Admin
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
