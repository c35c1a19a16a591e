package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/rogersnm/frontdesk/internal/metrics"
	"github.com/rogersnm/frontdesk/internal/persist"
)

// collection is one in-memory slice mirrored to a single snapshot key.
// Callers hold the owning store's lock.
type collection[T any] struct {
	key     string
	port    persist.Port
	log     *zap.Logger
	metrics *metrics.Metrics
	items   []T
}

func (c *collection[T]) load(ctx context.Context) error {
	data, err := c.port.Load(ctx, c.key)
	if errors.Is(err, persist.ErrNotExist) {
		c.items = []T{}
		c.observeSize()
		return nil
	}
	if err != nil {
		return c.fail("load", err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return c.fail("decode", err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.observeSize()
	c.log.Debug("snapshot loaded", zap.String("key", c.key), zap.Int("records", len(items)))
	return nil
}

// commit saves next as the whole snapshot and only then makes it the live
// collection, so a failed save leaves memory as it was.
func (c *collection[T]) commit(ctx context.Context, op string, next []T) error {
	data, err := json.Marshal(next)
	if err != nil {
		return c.fail("encode", err)
	}
	if err := c.port.Save(ctx, c.key, data); err != nil {
		return c.fail("save", err)
	}
	c.items = next
	if c.metrics != nil {
		c.metrics.Mutations.WithLabelValues(c.key, op).Inc()
	}
	c.observeSize()
	c.log.Debug("snapshot saved",
		zap.String("key", c.key),
		zap.String("op", op),
		zap.Int("records", len(next)),
		zap.Int("bytes", len(data)))
	return nil
}

func (c *collection[T]) fail(op string, err error) error {
	if c.metrics != nil {
		c.metrics.StorageFailures.WithLabelValues(c.key, op).Inc()
	}
	c.log.Error("snapshot "+op+" failed", zap.String("key", c.key), zap.Error(err))
	return &StorageError{Op: op, Key: c.key, Err: err}
}

func (c *collection[T]) observeSize() {
	if c.metrics != nil {
		c.metrics.CollectionSize.WithLabelValues(c.key).Set(float64(len(c.items)))
	}
}

// replace returns a copy of the items with position i swapped for v.
func (c *collection[T]) replace(i int, v T) []T {
	next := make([]T, len(c.items))
	copy(next, c.items)
	next[i] = v
	return next
}
