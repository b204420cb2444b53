package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInteractionMetrics() {
	r.InteractionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_interactions_total",
			Help: "User interactions by action",
		},
		[]string{"action"},
	)

	r.HitTestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_hit_tests_total",
			Help: "Pointer hit tests by result",
		},
		[]string{"result"},
	)

	r.ViewZoom = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_view_zoom",
			Help: "Current view zoom factor",
		},
	)
}
