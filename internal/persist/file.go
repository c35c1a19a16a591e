package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File stores each snapshot as <dir>/<key>.json.
type File struct {
	Dir string
}

var _ Backend = (*File)(nil)

func NewFile(dir string) *File {
	return &File{Dir: dir}
}

func (f *File) Path(key string) string {
	return filepath.Join(f.Dir, key+".json")
}

func (f *File) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", key, err)
	}
	return data, nil
}

// Save writes to a temp file and renames it over the old snapshot, so a
// crash mid-write leaves the previous snapshot intact.
func (f *File) Save(ctx context.Context, key string, snapshot []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := f.Path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, snapshot, 0600); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming snapshot %s: %w", key, err)
	}
	return nil
}

func (f *File) Close() error { return nil }
