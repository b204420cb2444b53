package health

import (
	"fmt"
	"time"
)

// Common health check functions

// SimpleCheck creates a simple health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// SessionState is what the session check needs to know about the
// dashboard session
type SessionState struct {
	State string
	Ready bool
	Err   error
}

// SessionCheck reports unhealthy after a failed load, degraded while no
// data is ready, healthy otherwise
func SessionCheck(get func() SessionState) CheckFunc {
	return func() Check {
		st := get()
		check := Check{
			Name:    "session",
			Details: map[string]any{"state": st.State},
		}

		switch {
		case st.Err != nil:
			check.Status = StatusUnhealthy
			check.Message = st.Err.Error()
		case !st.Ready:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("No data loaded (%s)", st.State)
		default:
			check.Status = StatusHealthy
			check.Message = "Data ready"
		}

		return check
	}
}

// DataCheck reports the size of the loaded data. An empty topology is
// degraded since there is nothing to draw.
func DataCheck(getCounts func() (nodes, edges, attacks int)) CheckFunc {
	return func() Check {
		nodes, edges, attacks := getCounts()
		check := Check{
			Name: "data",
			Details: map[string]any{
				"nodes":   nodes,
				"edges":   edges,
				"attacks": attacks,
			},
		}

		if nodes == 0 {
			check.Status = StatusDegraded
			check.Message = "Topology is empty"
		} else {
			check.Status = StatusHealthy
			check.Message = "Topology loaded"
		}

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		usagePercent := 0.0
		if sys > 0 {
			usagePercent = float64(alloc) / float64(sys) * 100
		}

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}
