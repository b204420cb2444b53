package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initTopologyMetrics() {
	r.TopologyNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_topology_nodes",
			Help: "Number of nodes in the loaded topology",
		},
	)

	r.TopologyEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_topology_edges",
			Help: "Number of edges in the loaded topology",
		},
	)

	r.TopologyDanglingEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_topology_dangling_edges",
			Help: "Edges referencing a node id absent from the topology",
		},
	)

	r.AttackedNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "attackmap_attacked_nodes",
			Help: "Number of distinct nodes taking part in at least one attack",
		},
	)

	r.DataLoadsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_data_loads_total",
			Help: "Graph and attack data loads by outcome",
		},
		[]string{"status"},
	)

	r.GraphEditsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "attackmap_graph_edits_total",
			Help: "Incremental topology edits by change type",
		},
		[]string{"change"},
	)

	r.LoadState = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "attackmap_load_state",
			Help: "Current data load state (1 for the active state)",
		},
		[]string{"state"},
	)
}
