package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Topology Metrics
	TopologyNodesTotal    prometheus.Gauge
	TopologyEdgesTotal    prometheus.Gauge
	TopologyDanglingEdges prometheus.Gauge
	AttackedNodesTotal    prometheus.Gauge
	DataLoadsTotal        *prometheus.CounterVec
	GraphEditsTotal       *prometheus.CounterVec
	LoadState             *prometheus.GaugeVec

	// Render Metrics
	PlansTotal        prometheus.Counter
	PlanDuration      prometheus.Histogram
	PlanPrimitives    *prometheus.GaugeVec
	SkippedEdgesTotal prometheus.Counter

	// Interaction Metrics
	InteractionsTotal *prometheus.CounterVec
	HitTestsTotal     *prometheus.CounterVec
	ViewZoom          prometheus.Gauge

	// Scoring Metrics
	AttacksTotal     prometheus.Gauge
	AttacksByLevel   *prometheus.GaugeVec
	AttackScores     prometheus.Histogram
	NetworkRiskScore prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time
	mu        sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry:  reg,
		startTime: time.Now(),
	}

	// Initialize all metrics
	r.initHTTPMetrics()
	r.initTopologyMetrics()
	r.initRenderMetrics()
	r.initInteractionMetrics()
	r.initScoringMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
