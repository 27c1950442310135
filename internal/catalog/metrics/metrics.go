package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for catalog loading.
type Metrics struct {
	FetchLatency  *prometheus.HistogramVec
	FetchFailures *prometheus.CounterVec
	LoadLatency   prometheus.Histogram
}

// New creates a new Metrics instance with all catalog metrics registered.
func New() *Metrics {
	return &Metrics{
		FetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donorlink_catalog_fetch_duration_seconds",
			Help:    "Duration of donation collection fetches by category",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"category"}),

		FetchFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donorlink_catalog_fetch_failures_total",
			Help: "Donation collection fetches that failed, by category",
		}, []string{"category"}),

		LoadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "donorlink_catalog_load_duration_seconds",
			Help:    "Duration of a full catalog load across all categories",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) ObserveFetchLatency(category string, d time.Duration) {
	if m != nil {
		m.FetchLatency.WithLabelValues(category).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementFetchFailure(category string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(category).Inc()
	}
}

func (m *Metrics) ObserveLoadLatency(d time.Duration) {
	if m != nil {
		m.LoadLatency.Observe(d.Seconds())
	}
}
