// Package store is the local data layer: the client roster and the document
// collection, each held in memory and written through to a persistence port
// after every mutation.
//
// Lookups return deep copies. Changing a returned value never changes the
// store; use the mutation methods.
package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/rogersnm/frontdesk/internal/clock"
	"github.com/rogersnm/frontdesk/internal/metrics"
	"github.com/rogersnm/frontdesk/internal/persist"
)

// Stores is the process-wide pair of stores, opened once and shared.
type Stores struct {
	Clients   *ClientStore
	Documents *DocumentStore
}

type options struct {
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.Metrics
}

type Option func(*options)

func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) options {
	o := options{clock: clock.System{}, log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Open loads both snapshots from port.
func Open(ctx context.Context, port persist.Port, opts ...Option) (*Stores, error) {
	clients, err := OpenClients(ctx, port, opts...)
	if err != nil {
		return nil, err
	}
	docs, err := OpenDocuments(ctx, port, opts...)
	if err != nil {
		return nil, err
	}
	return &Stores{Clients: clients, Documents: docs}, nil
}
