// Package persist holds the snapshot persistence port and its backends.
//
// A snapshot is the full serialized contents of one named collection. Every
// Save overwrites the previous snapshot for that key; there are no partial
// writes and no atomicity across keys. Backends treat snapshots as opaque
// bytes.
package persist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Collection keys used by the stores.
const (
	KeyClients   = "clients"
	KeyDocuments = "documents"
)

// ErrNotExist is returned by Load when nothing has been saved under a key.
var ErrNotExist = errors.New("snapshot does not exist")

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

type Port interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, snapshot []byte) error
}

// Backend is a Port that owns a resource which must be released.
type Backend interface {
	Port
	Close() error
}

// ValidateKey rejects keys that cannot be used as a file or object name.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid snapshot key %q", key)
	}
	return nil
}
