package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Mutations.WithLabelValues("clients", "add").Inc()
	m.Mutations.WithLabelValues("clients", "add").Inc()
	m.StorageFailures.WithLabelValues("documents", "save").Inc()
	m.CollectionSize.WithLabelValues("clients").Set(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("clients", "add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StorageFailures.WithLabelValues("documents", "save")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CollectionSize.WithLabelValues("clients")))
}

func TestMetrics_WriteText(t *testing.T) {
	m := New()
	m.Mutations.WithLabelValues("documents", "archive").Inc()

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `frontdesk_mutations_total{collection="documents",op="archive"} 1`)
}

func TestMetrics_Gather(t *testing.T) {
	m := New()
	m.CollectionSize.WithLabelValues("clients").Set(3)
	m.CollectionSize.WithLabelValues("documents").Set(5)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var size *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "frontdesk_collection_records" {
			size = mf
		}
	}
	require.NotNil(t, size)
	assert.Equal(t, dto.MetricType_GAUGE, size.GetType())
	require.Len(t, size.GetMetric(), 2)

	got := map[string]float64{}
	for _, metric := range size.GetMetric() {
		got[metric.GetLabel()[0].GetValue()] = metric.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{"clients": 3, "documents": 5}, got)
}
