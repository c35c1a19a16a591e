package persist

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// NewSQLite wraps an already-open SQLite handle. Call Migrate before use.
func NewSQLite(db *sql.DB) *SQL {
	return &SQL{db: db, dialect: sqliteDialect}
}

// OpenSQLite opens (creating if needed) the database file at path and
// ensures the snapshots table exists.
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY between pooled writers.
	db.SetMaxOpenConns(1)

	s := NewSQLite(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}
