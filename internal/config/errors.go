package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is none of mysql, postgres or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrUnknownSessionStorage error if config webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("toml config webserver.session.storage must be memory, mysql or postgres")

	// ErrSessionStorageEngineMismatch error if a sql session storage does not match the db engine.
	ErrSessionStorageEngineMismatch = errors.New("toml config webserver.session.storage must match db.gormEngine")

	// ErrAdminPasswordEmpty error if a bootstrap admin has no password.
	ErrAdminPasswordEmpty = errors.New("toml config admin.password can not be empty if admin.email is set")
)
