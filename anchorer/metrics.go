package anchorer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the anchorer's counters and latency histogram, labelled by public chain.
type Metrics struct {
	Submitted *prometheus.CounterVec
	Confirmed *prometheus.CounterVec
	Failed    *prometheus.CounterVec
	Latency   *prometheus.HistogramVec
}

// NewMetrics builds the collectors without registering them.
func NewMetrics() *Metrics {
	return &Metrics{
		Submitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landreg",
			Subsystem: "anchorer",
			Name:      "proofs_submitted_total",
			Help:      "Proof submission attempts per chain.",
		}, []string{"net"}),
		Confirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landreg",
			Subsystem: "anchorer",
			Name:      "proofs_confirmed_total",
			Help:      "Proofs confirmed on chain.",
		}, []string{"net"}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landreg",
			Subsystem: "anchorer",
			Name:      "proofs_failed_total",
			Help:      "Proofs abandoned after exhausting retries.",
		}, []string{"net"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "landreg",
			Subsystem: "anchorer",
			Name:      "submit_seconds",
			Help:      "Proof submission latency per attempt.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"net"}),
	}
}

// Register registers the collectors with reg. Called once from the service main; tests keep their collectors
// unregistered so repeated runs never collide.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.Submitted, m.Confirmed, m.Failed, m.Latency)
}
