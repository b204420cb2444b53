package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRenderMetrics() {
	r.PlansTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "attackmap_plans_total",
			Help: "Total number of draw plans built",
		},
	)

	r.PlanDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackmap_plan_duration_seconds",
			Help:    "Time to build a draw plan in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
	)

	r.PlanPrimitives = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "attackmap_plan_primitives",
			Help: "Primitives in the most recent draw plan by kind",
		},
		[]string{"kind"},
	)

	r.SkippedEdgesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "attackmap_plan_skipped_edges_total",
			Help: "Edges left out of draw plans because an endpoint had no position",
		},
	)
}
