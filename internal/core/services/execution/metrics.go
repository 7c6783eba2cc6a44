package execution

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus instruments for the planning service.
type Metrics struct {
	PlansTotal        *prometheus.CounterVec
	PlanErrors        prometheus.Counter
	SlippageEstimates prometheus.Counter
	SlippageBps       prometheus.Histogram
}

// NewMetrics builds and registers the planner metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "execengine",
			Name:      "plans_total",
			Help:      "Execution plans built, by strategy.",
		}, []string{"strategy"}),
		PlanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "execengine",
			Name:      "plan_errors_total",
			Help:      "Plan requests rejected for invalid input.",
		}),
		SlippageEstimates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "execengine",
			Name:      "slippage_estimates_total",
			Help:      "Slippage estimates computed.",
		}),
		SlippageBps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "execengine",
			Name:      "slippage_bps",
			Help:      "Estimated slippage in basis points.",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
	}

	if reg != nil {
		reg.MustRegister(m.PlansTotal, m.PlanErrors, m.SlippageEstimates, m.SlippageBps)
	}

	return m
}
