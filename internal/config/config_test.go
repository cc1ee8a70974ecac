package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"flea_market/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_NAME", "ragfair-test")
	t.Setenv("DB_DRIVER", config.DriverSQLite)
	t.Setenv("DB_DSN", "file::memory:")
	t.Setenv("RAGFAIR_LIVE_PRICE_TTL", "30s")
	t.Setenv("RAGFAIR_SEED", "42")

	rq := require.New(t)

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal("ragfair-test", cfg.App.Name)
	rq.Equal(":8080", cfg.HTTP.ListenAddress)
	rq.True(cfg.Database.Enabled())
	rq.Equal(config.DriverSQLite, cfg.Database.Driver)
	rq.Equal("./migrations", cfg.Database.MigrationsDir)
	rq.Equal(30*time.Second, cfg.Ragfair.LivePriceTTL)
	rq.Equal(uint64(42), cfg.Ragfair.Seed)
	rq.False(cfg.Redis.Enabled())
	rq.False(cfg.Bot.Enabled())
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("RAGFAIR_SEED", "not-a-number")

	_, err := config.Load()
	require.Error(t, err)
}
