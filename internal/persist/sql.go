package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL keeps snapshots in a single "snapshots" table, one row per key.
type SQL struct {
	db      *sql.DB
	dialect dialect
}

var _ Backend = (*SQL)(nil)

type dialect struct {
	name    string
	migrate string
	load    string
	save    string
}

var sqliteDialect = dialect{
	name: "sqlite",
	migrate: `CREATE TABLE IF NOT EXISTS snapshots (
  key        TEXT      PRIMARY KEY,
  data       BLOB      NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	load: `SELECT data FROM snapshots WHERE key = ?`,
	save: `INSERT INTO snapshots (key, data) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
}

var postgresDialect = dialect{
	name: "postgres",
	migrate: `CREATE TABLE IF NOT EXISTS snapshots (
  key        TEXT        PRIMARY KEY,
  data       BYTEA       NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	load: `SELECT data FROM snapshots WHERE key = $1`,
	save: `INSERT INTO snapshots (key, data) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
}

// Migrate creates the snapshots table if it does not exist.
func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.migrate); err != nil {
		return fmt.Errorf("%s migrate: %w", s.dialect.name, err)
	}
	return nil
}

func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, s.dialect.load, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("%s load %s: %w", s.dialect.name, key, err)
	}
	return data, nil
}

func (s *SQL) Save(ctx context.Context, key string, snapshot []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.save, key, snapshot); err != nil {
		return fmt.Errorf("%s save %s: %w", s.dialect.name, key, err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
