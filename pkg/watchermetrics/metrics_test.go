package watchermetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/function61/gokit/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CacheMiss()
	m.CacheHit()
	m.CacheHit()
	m.ObserveLookup(time.Now(), nil)
	m.ObserveLookup(time.Now(), errors.New("network down"))
	m.ObserveLookup(time.Now(), errors.New("network down"))
	m.ReportRendered("unchanged")

	assert.Assert(t, testutil.ToFloat64(m.CacheHits) == 2)
	assert.Assert(t, testutil.ToFloat64(m.CacheMisses) == 1)
	assert.Assert(t, testutil.ToFloat64(m.Lookups.WithLabelValues(LookupOk)) == 1)
	assert.Assert(t, testutil.ToFloat64(m.Lookups.WithLabelValues(LookupFailed)) == 2)
	assert.Assert(t, testutil.ToFloat64(m.Reports.WithLabelValues("unchanged")) == 1)
	assert.Assert(t, testutil.CollectAndCount(m.LookupDuration) == 1)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.CacheHit()
	m.CacheMiss()
	m.ObserveLookup(time.Now(), nil)
	m.ReportRendered("unknown")
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		assert.Assert(t, recover() != nil)
	}()

	New(reg)
}
