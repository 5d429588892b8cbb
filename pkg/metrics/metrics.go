// Package metrics provides Prometheus instrumentation for session lifecycle
// events. Observer plugs into the session manager and counts every
// transition by kind, type and rejection reason, and records challenge
// scores of resumed and rejected sessions.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/sessionguard/pkg/session"
)

// Observer records session events. It implements session.Observer.
type Observer struct {
	gatherer prometheus.Gatherer

	// events counts lifecycle transitions, labeled by kind, session type and
	// rejection reason (empty unless kind is "rejected").
	events *prometheus.CounterVec

	// scores records fingerprint challenge scores.
	scores *prometheus.HistogramVec
}

var _ session.Observer = (*Observer)(nil)

// New creates an Observer registered on reg. Pass nil to use the default
// registry.
func New(reg *prometheus.Registry) *Observer {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}

	o := &Observer{
		gatherer: gatherer,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessionguard_session_events_total",
			Help: "Total number of session lifecycle events",
		}, []string{"kind", "type", "reason"}),
		scores: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sessionguard_challenge_score",
			Help:    "Fingerprint challenge scores of validated sessions",
			Buckets: []float64{0, 0.5, 1, 1.5, 2, 3, 5, 100},
		}, []string{"type"}),
	}

	registerer.MustRegister(o.events, o.scores)
	return o
}

// Observe records e.
func (o *Observer) Observe(_ context.Context, e session.Event) {
	o.events.WithLabelValues(string(e.Kind), string(e.Type), e.Reason).Inc()

	switch {
	case e.Kind == session.EventResumed,
		e.Kind == session.EventRejected && e.Reason == session.ReasonChallenge:
		o.scores.WithLabelValues(string(e.Type)).Observe(e.Score)
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func (o *Observer) Handler() http.Handler {
	return promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})
}
