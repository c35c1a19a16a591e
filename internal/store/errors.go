package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an id that is not in the collection. Callers decide
	// how to react; the store state is unchanged.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition reports a document status change that would move
	// backwards in the active, archived, deleted lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StorageError wraps a failure to load, encode, or save a snapshot. A
// mutation that returns a StorageError has not been applied.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s snapshot: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}
