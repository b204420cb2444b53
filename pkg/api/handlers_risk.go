package api

import (
	"net/http"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/risk"
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

// handleAttacks lists attacks in mitigation order. Optional query
// parameters: level filters by risk level, limit caps the list.
func (s *Server) handleAttacks(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	level := severity.Level(r.URL.Query().Get("level"))

	var ranked []risk.Ranked
	s.session.Do(func(sess *dashboard.Session) error {
		ranked = sess.Prioritized()
		return nil
	})

	out := make([]risk.Ranked, 0, len(ranked))
	for _, rk := range ranked {
		if level != "" && rk.Level != level {
			continue
		}
		out = append(out, rk)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	s.respondJSON(w, http.StatusOK, AttacksResponse{Attacks: out, Count: len(out)})
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var (
		a     topology.Attack
		found bool
	)
	s.session.Do(func(sess *dashboard.Session) error {
		a, found = sess.Attack(id)
		return nil
	})
	if !found {
		s.respondError(w, http.StatusNotFound, "attack not found")
		return
	}

	s.respondJSON(w, http.StatusOK, AttackDetailResponse{
		Attack:    a,
		Breakdown: severity.Assess(a),
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var sum risk.Summary
	s.session.Do(func(sess *dashboard.Session) error {
		sum = sess.Summary()
		return nil
	})
	s.respondJSON(w, http.StatusOK, sum)
}
