package dbtest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"flea_market/pkg/application/connectors"
)

// SQLite opens an in-memory database, applies the migrations and closes the
// connection when the test ends.
func SQLite(tb testing.TB, migrations ...string) *sqlx.DB {
	tb.Helper()

	ctx := context.Background()
	conn := &connectors.SQLite{Path: ":memory:"}
	db := conn.Client(ctx)

	tb.Cleanup(func() { conn.Close(ctx) })

	if err := MigrateFromFile(db, migrations...); err != nil {
		tb.Fatalf("dbtest.MigrateFromFile: %v", err)
	}

	return db
}
