// Package metrics counts store activity with Prometheus collectors.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

type Metrics struct {
	registry *prometheus.Registry

	Mutations       *prometheus.CounterVec
	StorageFailures *prometheus.CounterVec
	CollectionSize  *prometheus.GaugeVec
}

// New registers the frontdesk collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "mutations_total",
			Help:      "Committed store mutations by collection and operation.",
		}, []string{"collection", "op"}),
		StorageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontdesk",
			Name:      "storage_failures_total",
			Help:      "Snapshot loads or saves that failed, by collection and operation.",
		}, []string{"collection", "op"}),
		CollectionSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "frontdesk",
			Name:      "collection_records",
			Help:      "Records currently held per collection.",
		}, []string{"collection"}),
	}
	m.registry.MustRegister(m.Mutations, m.StorageFailures, m.CollectionSize)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes every collected family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}
