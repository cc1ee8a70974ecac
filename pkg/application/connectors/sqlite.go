package connectors

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"flea_market/pkg/logx"
)

const sqliteDriver = "sqlite"

// SQLite - локальная база для разработки и тестов. Path ":memory:" даёт
// базу в памяти.
type SQLite struct {
	value *sqlx.DB
	Path  string
	init  sync.Once
}

func (s *SQLite) Client(ctx context.Context) *sqlx.DB {
	s.init.Do(func() {
		// modernc регистрируется как "sqlite", sqlx про такое имя не знает
		sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)

		if s.Path != ":memory:" {
			lo.Must0(os.MkdirAll(filepath.Dir(s.Path), 0o755))
		}

		s.value = lo.Must(sqlx.ConnectContext(ctx, sqliteDriver, s.Path))
		s.value.SetMaxOpenConns(1)

		logger(ctx).Info("sqlite connected", slog.String("path", s.Path))
	})

	return s.value
}

func (s *SQLite) Close(ctx context.Context) {
	if err := s.value.Close(); err != nil {
		logger(ctx).Error("sqliteClient.Close", logx.Error(err))
	}

	logger(ctx).Info("sqlite disconnected", slog.String("path", s.Path))
}
