package sqlite

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the registered driver with per-connection pragmas applied.
const DriverName = "sqlite3_banter"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// WAL keeps concurrent chat turns from blocking each other on
			// single-row writes; busy_timeout covers the rest.
			_, err := conn.Exec(`
				PRAGMA journal_mode = WAL;
				PRAGMA busy_timeout = 5000;
				PRAGMA foreign_keys = ON;
			`, nil)
			return err
		},
	})
}
