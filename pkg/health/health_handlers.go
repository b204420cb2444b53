package health

import (
	"encoding/json"
	"net/http"
)

// Endpoint kinds reported in the response body
const (
	KindHealth    = "health"
	KindReadiness = "readiness"
	KindLiveness  = "liveness"
)

// HTTPHandler serves the aggregate report on /health. Degraded answers
// 200, for example while no topology is loaded; unhealthy answers 503.
func (hc *HealthChecker) HTTPHandler() http.HandlerFunc {
	return hc.kindHandler(KindHealth, hc.Check, false)
}

// ReadinessHandler answers 200 only once the session can draw a map
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return hc.kindHandler(KindReadiness, hc.CheckReadiness, true)
}

// LivenessHandler answers 200 while the process is fit to keep running
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return hc.kindHandler(KindLiveness, hc.CheckLiveness, true)
}

func (hc *HealthChecker) kindHandler(kind string, run func() Response, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := run()
		response.Kind = kind

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(statusCode(response.Status, strict))
		_ = json.NewEncoder(w).Encode(response)
	}
}

// statusCode maps a status to HTTP. Strict kinds treat degraded as down.
func statusCode(s Status, strict bool) int {
	switch s {
	case StatusHealthy:
		return http.StatusOK
	case StatusDegraded:
		if strict {
			return http.StatusServiceUnavailable
		}
		return http.StatusOK
	default:
		return http.StatusServiceUnavailable
	}
}
