// Package db owns the SQLite connection, schema, and migrations.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Connection tuning applied to every handle. WAL plus a busy timeout keeps
// concurrent API writers from tripping over SQLITE_BUSY, and foreign keys
// must be switched on explicitly.
const pragmas = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;
	PRAGMA busy_timeout = 5000;
	PRAGMA foreign_keys = ON;
`

// Open opens the database at path and applies the connection pragmas.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := database.Exec(pragmas); err != nil {
		database.Close()
		return nil, fmt.Errorf("applying pragmas: %w", err)
	}
	return database, nil
}
