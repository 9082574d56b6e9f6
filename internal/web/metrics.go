package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics instruments estimate traffic. A dedicated registry keeps the
// scrape surface to this service's own series plus the standard process
// and runtime collectors.
type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	inFlight  prometheus.Gauge
	estimates prometheus.Counter
	rooms     *prometheus.CounterVec
	duration  prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drycost_http_requests_total",
			Help: "HTTP requests served, by method and status code.",
		}, []string{"code", "method"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "drycost_http_in_flight_requests",
			Help: "HTTP requests currently being served.",
		}),
		estimates: factory.NewCounter(prometheus.CounterOpts{
			Name: "drycost_estimates_total",
			Help: "Estimate batches processed.",
		}),
		rooms: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drycost_estimate_rooms_total",
			Help: "Rooms seen by the estimator, by outcome.",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "drycost_estimate_duration_seconds",
			Help:    "Wall time per estimate batch.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// observeEstimate records one completed batch. Safe to call on a nil
// receiver so handlers need no guard when metrics are disabled.
func (m *metrics) observeEstimate(calculated, skipped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.estimates.Inc()
	m.rooms.WithLabelValues("calculated").Add(float64(calculated))
	m.rooms.WithLabelValues("skipped").Add(float64(skipped))
	m.duration.Observe(elapsed.Seconds())
}

// trackRuns exposes the run limiter's slot usage as a gauge.
func (m *metrics) trackRuns(active func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "drycost_estimate_runs_active",
		Help: "Estimate runs currently holding a concurrency slot.",
	}, func() float64 { return float64(active()) }))
}

// instrument wraps the router with the request counter and in-flight gauge.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(m.inFlight,
		promhttp.InstrumentHandlerCounter(m.requests, next))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
