// Package metrics exposes Prometheus instrumentation for the assistant. All
// recording methods are nil-safe so callers can run with metrics disabled
// without guarding every call site.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry groups the assistant's metrics around a dedicated Prometheus
// registry so tests never collide on the global default.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	IntentsTotal         *prometheus.CounterVec
	RouteComputations    *prometheus.CounterVec
	ActiveSessions       prometheus.GaugeFunc
	DialogRepliesByState *prometheus.CounterVec
}

// SessionCounter reports the current number of tracked sessions.
type SessionCounter interface {
	Len() int
}

// New builds a registry. sessions may be nil, in which case the active
// session gauge always reads zero.
func New(sessions SessionCounter) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{registry: reg}

	r.HTTPRequestsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusguide_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(reg).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campusguide_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	r.IntentsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusguide_intents_total",
			Help: "Messages classified, by resolved intent",
		},
		[]string{"intent"},
	)

	r.RouteComputations = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusguide_route_computations_total",
			Help: "Shortest-path computations, by outcome",
		},
		[]string{"outcome"},
	)

	r.DialogRepliesByState = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "campusguide_dialog_replies_total",
			Help: "Replies produced, by the dialog state that handled the message",
		},
		[]string{"state"},
	)

	r.ActiveSessions = promauto.With(reg).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "campusguide_active_sessions",
			Help: "Number of user sessions currently tracked",
		},
		func() float64 {
			if sessions == nil {
				return 0
			}
			return float64(sessions.Len())
		},
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one completed HTTP request.
func (r *Registry) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, path, statusLabel(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// CountIntent records one classification result.
func (r *Registry) CountIntent(intent string) {
	if r == nil {
		return
	}
	r.IntentsTotal.WithLabelValues(intent).Inc()
}

// CountRoute records one routing outcome ("found" or "no_path").
func (r *Registry) CountRoute(outcome string) {
	if r == nil {
		return
	}
	r.RouteComputations.WithLabelValues(outcome).Inc()
}

// CountReply records the dialog state that produced a reply.
func (r *Registry) CountReply(state string) {
	if r == nil {
		return
	}
	r.DialogRepliesByState.WithLabelValues(state).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
