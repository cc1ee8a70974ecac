package config

import "time"

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Database is optional: an empty DSN keeps offers in memory only.
type Database struct {
	Driver          string        `env:"DB_DRIVER" envDefault:"pgx"`
	DSN             string        `env:"DB_DSN" json:"-"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	MigrationsDir   string        `env:"DB_MIGRATIONS_DIR" envDefault:"./migrations"`
}

func (d Database) Enabled() bool {
	return d.DSN != ""
}
