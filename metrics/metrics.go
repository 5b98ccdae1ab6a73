package metrics

import (
	"time"

	gate "github.com/goliatone/go-auth-gate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the admin gate.
type Metrics struct {
	Decisions        *prometheus.CounterVec
	Lookups          *prometheus.CounterVec
	LookupDurationMs *prometheus.HistogramVec
}

var _ gate.Metrics = (*Metrics)(nil)

// New registers the gate collectors with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_gate_decisions_total",
			Help: "Total number of gate evaluations, by outcome",
		}, []string{"outcome"}),
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_gate_user_lookups_total",
			Help: "Total number of background user lookups, by result",
		}, []string{"result"}),
		LookupDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_gate_user_lookup_duration_ms",
			Help:    "Duration of background user lookups in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}, []string{"result"}),
	}
}

func (m *Metrics) DecisionMade(outcome gate.Outcome) {
	m.Decisions.WithLabelValues(outcome.String()).Inc()
}

func (m *Metrics) LookupFinished(result gate.LookupResult, took time.Duration) {
	m.Lookups.WithLabelValues(string(result)).Inc()
	m.LookupDurationMs.WithLabelValues(string(result)).Observe(float64(took.Milliseconds()))
}
