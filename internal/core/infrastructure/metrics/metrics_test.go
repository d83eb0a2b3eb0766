package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBatch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveBatch("requests", time.Now(), 5, nil)
	m.ObserveBatch("requests", time.Now(), 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchCalls.WithLabelValues("requests", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchCalls.WithLabelValues("requests", ResultError)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.batchRecords.WithLabelValues("requests")))
}

func TestSchemaCacheAndMetadata(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SchemaCacheMiss()
	m.SchemaCacheHit()
	m.SchemaCacheHit()
	m.MetadataFetch("gateway", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.schemaCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.schemaCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.metadataFetches.WithLabelValues("gateway", ResultOK)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveBatch("requests", time.Now(), 1, nil)
		m.SchemaCacheHit()
		m.SchemaCacheMiss()
		m.MetadataFetch("memory", nil)
	})
}

func TestProvideServices(t *testing.T) {
	out := ProvideServices()
	out.Metrics.SchemaCacheHit()

	families, err := out.Gatherer.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
