package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordDataLoad records the outcome of a graph and attack load
func (r *Registry) RecordDataLoad(status string) {
	r.DataLoadsTotal.WithLabelValues(status).Inc()
}

// RecordGraphEdit counts one incremental topology edit
func (r *Registry) RecordGraphEdit(change string) {
	r.GraphEditsTotal.WithLabelValues(change).Inc()
}

// UpdateTopology sets the topology size gauges
func (r *Registry) UpdateTopology(nodes, edges, dangling, attacked int) {
	r.TopologyNodesTotal.Set(float64(nodes))
	r.TopologyEdgesTotal.Set(float64(edges))
	r.TopologyDanglingEdges.Set(float64(dangling))
	r.AttackedNodesTotal.Set(float64(attacked))
}

// SetLoadState marks state as the active load state
func (r *Registry) SetLoadState(state string, all []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range all {
		r.LoadState.WithLabelValues(s).Set(0)
	}
	r.LoadState.WithLabelValues(state).Set(1)
}

// RecordPlan records a built draw plan
func (r *Registry) RecordPlan(duration time.Duration, primitivesByKind map[string]int, skippedEdges int) {
	r.PlansTotal.Inc()
	r.PlanDuration.Observe(duration.Seconds())

	r.mu.Lock()
	r.PlanPrimitives.Reset()
	for kind, n := range primitivesByKind {
		r.PlanPrimitives.WithLabelValues(kind).Set(float64(n))
	}
	r.mu.Unlock()

	if skippedEdges > 0 {
		r.SkippedEdgesTotal.Add(float64(skippedEdges))
	}
}

// RecordInteraction records a user action and the zoom after it
func (r *Registry) RecordInteraction(action string, zoom float64) {
	r.InteractionsTotal.WithLabelValues(action).Inc()
	r.ViewZoom.Set(zoom)
}

// RecordHitTest records a pointer pick
func (r *Registry) RecordHitTest(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.HitTestsTotal.WithLabelValues(result).Inc()
}

// UpdateScores replaces the scoring gauges and observes each score
func (r *Registry) UpdateScores(scores []int, byLevel map[string]int, networkScore int) {
	r.AttacksTotal.Set(float64(len(scores)))
	for _, s := range scores {
		r.AttackScores.Observe(float64(s))
	}

	r.mu.Lock()
	r.AttacksByLevel.Reset()
	for level, n := range byLevel {
		r.AttacksByLevel.WithLabelValues(level).Set(float64(n))
	}
	r.mu.Unlock()

	r.NetworkRiskScore.Set(float64(networkScore))
}

// UpdateSystemMetrics refreshes uptime, goroutine and memory gauges
func (r *Registry) UpdateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(r.startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}
