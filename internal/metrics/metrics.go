// Package metrics exposes Prometheus counters for conversions and HTTP traffic.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	sdktranslator "github.com/chatbridge/chatbridge/sdk/translator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the conversion and HTTP collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	conversionsTotal   *prometheus.CounterVec
	conversionBytes    *prometheus.HistogramVec
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
}

// New creates a Metrics with its collectors registered.
func New() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		conversionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbridge_conversions_total",
			Help: "Total number of payload conversions by direction, pair and outcome.",
		}, []string{"direction", "from", "to", "outcome"}),
		conversionBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatbridge_conversion_output_bytes",
			Help:    "Size of converted payloads in bytes.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"direction", "to"}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbridge_http_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"route", "status"}),
		httpLatencySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatbridge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	r.MustRegister(m.conversionsTotal, m.conversionBytes, m.httpRequestsTotal, m.httpLatencySeconds)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for gathering in tests and embedders.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveConversion counts one successful conversion and records its output size.
func (m *Metrics) ObserveConversion(direction string, from, to sdktranslator.Format, outcome sdktranslator.Outcome, size int) {
	m.conversionsTotal.WithLabelValues(direction, from.String(), to.String(), string(outcome)).Inc()
	m.conversionBytes.WithLabelValues(direction, to.String()).Observe(float64(size))
}

// ObserveHTTP records one served request. An empty route is counted as "unmatched".
func (m *Metrics) ObserveHTTP(route string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpLatencySeconds.WithLabelValues(route).Observe(dur.Seconds())
}

// Instrument registers pipeline middleware counting every conversion.
func (m *Metrics) Instrument(p *sdktranslator.Pipeline) {
	p.UseRequest(func(ctx context.Context, req sdktranslator.RequestEnvelope, next sdktranslator.RequestHandler) (sdktranslator.RequestEnvelope, error) {
		out, err := next(ctx, req)
		if err == nil {
			m.ObserveConversion("request", req.From, req.To, out.Outcome, len(out.Body))
		}
		return out, err
	})
	p.UseResponse(func(ctx context.Context, resp sdktranslator.ResponseEnvelope, next sdktranslator.ResponseHandler) (sdktranslator.ResponseEnvelope, error) {
		out, err := next(ctx, resp)
		if err == nil {
			m.ObserveConversion("response", resp.From, resp.To, out.Outcome, len(out.Body))
		}
		return out, err
	})
}
