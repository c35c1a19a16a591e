package persist

import (
	"context"
	"path/filepath"

	"github.com/rogersnm/frontdesk/internal/config"
)

// Open builds the backend named by cfg. File and SQLite data live under
// dataDir unless configured otherwise.
func Open(ctx context.Context, cfg config.StorageConfig, dataDir string) (Backend, error) {
	name := cfg.BackendName()
	if err := config.ValidateBackend(name); err != nil {
		return nil, err
	}
	switch name {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendSQLite:
		p := cfg.SQLite.Path
		if p == "" {
			p = filepath.Join(dataDir, "frontdesk.db")
		}
		return OpenSQLite(ctx, p)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.Postgres)
	case config.BackendMinIO:
		return NewObjectStore(ctx, cfg.MinIO)
	default:
		return NewFile(filepath.Join(dataDir, "data")), nil
	}
}
