package config

// DB holds the database configuration settings.
type DB struct {
	Extras       string // driver specific DSN parameters
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	Path         string // sqlite database file
	GormEngine   string // mysql, postgres or sqlite
	MaxOpenConns int
}
