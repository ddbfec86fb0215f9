package consultation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for session hosting.
//
// Metrics:
//   - healthmate_sessions_started_total
//   - healthmate_sessions_active
//   - healthmate_turns_total
//   - healthmate_emergencies_total{category}
//   - healthmate_triages_completed_total{urgency}
//   - healthmate_assessments_total{urgency}
//   - healthmate_analyst_fallbacks_total
type Metrics struct {
	SessionsStarted  prometheus.Counter
	SessionsActive   prometheus.Gauge
	Turns            prometheus.Counter
	Emergencies      *prometheus.CounterVec
	TriagesCompleted *prometheus.CounterVec
	Assessments      *prometheus.CounterVec
	AnalystFallbacks prometheus.Counter
}

// NewMetrics registers the collectors on reg. Pass a fresh registry in tests
// to avoid duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SessionsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "healthmate_sessions_started_total",
			Help: "Total number of triage sessions started",
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "healthmate_sessions_active",
			Help: "Number of sessions currently held in memory",
		}),
		Turns: f.NewCounter(prometheus.CounterOpts{
			Name: "healthmate_turns_total",
			Help: "Total number of user messages processed",
		}),
		Emergencies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthmate_emergencies_total",
			Help: "Total number of emergencies detected",
		}, []string{"category"}),
		TriagesCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthmate_triages_completed_total",
			Help: "Total number of completed triages",
		}, []string{"urgency"}),
		Assessments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthmate_assessments_total",
			Help: "Total number of diagnostic assessments computed",
		}, []string{"urgency"}),
		AnalystFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "healthmate_analyst_fallbacks_total",
			Help: "Total number of analyses that fell back to local text",
		}),
	}
}
