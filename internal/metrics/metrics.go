package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by the public and admin servers.
type Metrics struct {
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RSVPSubmissionTotal *prometheus.CounterVec
	ReactionTotal       *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. Collectors that
// are already registered are reused, so tests can share a registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"server", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"server", "method", "path"}),

		RSVPSubmissionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_submissions_total",
			Help: "Accepted RSVP submissions by attendance",
		}, []string{"attendance"}),

		ReactionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gallery_reactions_total",
			Help: "Reactions added to gallery media by type",
		}, []string{"type"}),
	}

	m.HTTPRequestTotal = registerOrGet(reg, m.HTTPRequestTotal)
	m.HTTPRequestDuration = registerOrGet(reg, m.HTTPRequestDuration)
	m.RSVPSubmissionTotal = registerOrGet(reg, m.RSVPSubmissionTotal)
	m.ReactionTotal = registerOrGet(reg, m.ReactionTotal)
	return m
}

func registerOrGet[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
