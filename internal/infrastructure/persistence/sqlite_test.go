package persistence

import (
	"database/sql"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Search queries fold columns with PostgreSQL's unaccent(); SQLite gets
// the same function registered Go-side so those queries run under test.
func init() {
	sql.Register("sqlite3_unaccent", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("unaccent", foldDiacritics, true)
		},
	})
}

// openTestDB creates an in-memory SQLite database for repository tests
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite3_unaccent", DSN: ":memory:"}, &gorm.Config{})
	require.NoError(t, err)
	return db
}
