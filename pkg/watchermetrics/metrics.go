// Prometheus metrics for the watcher. All methods are safe on a nil *Metrics so
// components can be constructed without metrics (tests, one-off CLI runs).
package watchermetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	LookupOk     = "ok"
	LookupFailed = "failed"
)

type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	Lookups        *prometheus.CounterVec
	LookupDuration prometheus.Histogram
	Reports        *prometheus.CounterVec
}

// New registers the metrics with reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domainwatcher_whois_cache_hits_total",
			Help: "WHOIS records served from the in-process cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "domainwatcher_whois_cache_misses_total",
			Help: "WHOIS cache reads that had to go to the provider",
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatcher_whois_lookups_total",
			Help: "Requests made to the WHOIS provider, by result",
		}, []string{"result"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "domainwatcher_whois_lookup_duration_seconds",
			Help:    "Duration of WHOIS provider requests",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domainwatcher_reports_total",
			Help: "Rendered reports, by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.Lookups,
		m.LookupDuration,
		m.Reports)

	return m
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}

	m.CacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}

	m.CacheMisses.Inc()
}

// ObserveLookup records a provider request that started at started
func (m *Metrics) ObserveLookup(started time.Time, err error) {
	if m == nil {
		return
	}

	result := LookupOk
	if err != nil {
		result = LookupFailed
	}

	m.Lookups.WithLabelValues(result).Inc()
	m.LookupDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ReportRendered(outcome string) {
	if m == nil {
		return
	}

	m.Reports.WithLabelValues(outcome).Inc()
}
