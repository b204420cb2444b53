package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initScoringMetrics() {
	r.AttacksTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_attacks",
			Help: "Number of attacks currently loaded",
		},
	)

	r.AttacksByLevel = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "attackmap_attacks_by_level",
			Help: "Loaded attacks by severity level",
		},
		[]string{"level"},
	)

	r.AttackScores = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attackmap_attack_score",
			Help:    "Distribution of per-attack severity scores",
			Buckets: []float64{20, 40, 60, 80, 100, 120, 140},
		},
	)

	r.NetworkRiskScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_network_risk_score",
			Help: "Network-wide risk score (0-100)",
		},
	)
}
