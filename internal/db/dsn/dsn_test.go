package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoRBAC-Admin/GoRBAC-Admin/internal/config"
)

func TestCreate(t *testing.T) {
	base := config.DB{
		Host:     "db.local",
		Port:     3306,
		User:     "rbac",
		Password: "secret",
		Name:     "rbac",
	}

	testCases := []struct {
		name   string
		engine string
		path   string
		extras string
		want   string
	}{
		{
			name:   "mysql",
			engine: EngineMySQL,
			extras: "parseTime=true",
			want:   "rbac:secret@tcp(db.local:3306)/rbac?parseTime=true",
		},
		{
			name:   "postgres",
			engine: EnginePostgres,
			extras: "sslmode=disable",
			want:   "host=db.local port=3306 user=rbac password=secret dbname=rbac sslmode=disable",
		},
		{
			name:   "sqlite file",
			engine: EngineSQLite,
			path:   "rbac.db",
			want:   "rbac.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
		{
			name:   "sqlite memory default",
			engine: EngineSQLite,
			want:   "file::memory:?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := base
			db.GormEngine = tc.engine
			db.Path = tc.path
			db.Extras = tc.extras

			assert.Equal(t, tc.want, Create(&config.Config{DB: db}))
		})
	}
}
