// README: Prometheus collectors for the HTTP surface and the route planner.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service's Prometheus metrics. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests     *prometheus.CounterVec
	HTTPDurations    *prometheus.HistogramVec
	Candidates       prometheus.Histogram
	TransitFallbacks *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebee_http_requests_total",
		Help: "Handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"}), "routebee_http_requests_total")
	if err != nil {
		return nil, err
	}

	durations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routebee_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"route", "method"}), "routebee_http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	candidates, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routebee_candidates_generated",
		Help:    "Candidate itineraries generated per planning request, before ranking.",
		Buckets: []float64{1, 3, 5, 7, 9, 11, 13},
	}), "routebee_candidates_generated")
	if err != nil {
		return nil, err
	}

	fallbacks, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebee_transit_fallbacks_total",
		Help: "Transit context lookups answered from defaults, labeled by reason.",
	}, []string{"reason"}), "routebee_transit_fallbacks_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:         gatherer,
		HTTPRequests:     requests,
		HTTPDurations:    durations,
		Candidates:       candidates,
		TransitFallbacks: fallbacks,
	}, nil
}

// ObserveRequest records one handled HTTP request.
func (c *Collector) ObserveRequest(route, method string, code int, seconds float64) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.HTTPRequests.WithLabelValues(route, method, fmt.Sprintf("%d", code)).Inc()
	c.HTTPDurations.WithLabelValues(route, method).Observe(seconds)
}

// ObserveCandidates records how many candidates one request produced.
func (c *Collector) ObserveCandidates(n int) {
	if c == nil {
		return
	}
	c.Candidates.Observe(float64(n))
}

// TransitFallback counts a degraded transit lookup.
func (c *Collector) TransitFallback(reason string) {
	if c == nil {
		return
	}
	c.TransitFallbacks.WithLabelValues(reason).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
