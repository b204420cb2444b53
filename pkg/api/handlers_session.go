package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/validation"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
)

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.session.Snapshot()
	s.respondJSON(w, http.StatusOK, InfoResponse{
		Version:       s.version,
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		SessionID:     snap.SessionID,
		State:         snap.State.String(),
	})
}

func (s *Server) handleLoadData(w http.ResponseWriter, r *http.Request) {
	var upload DataUpload
	if s.NewRequestDecoder(w, r).DecodeJSON(&upload).RespondError() {
		return
	}
	if len(upload.Graph) == 0 {
		s.respondError(w, http.StatusBadRequest, "graph is required")
		return
	}

	g, err := topology.DecodeGraph(bytes.NewReader(upload.Graph), topology.FormatJSON)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	attacks := []topology.Attack{}
	if len(upload.Attacks) > 0 && !bytes.Equal(bytes.TrimSpace(upload.Attacks), []byte("null")) {
		attacks, err = topology.DecodeAttacks(bytes.NewReader(upload.Attacks), topology.FormatJSON)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	req := validation.DataRequest{Graph: g, Attacks: attacks}
	if s.NewRequestDecoder(w, r).ValidateData(&req).RespondError() {
		return
	}

	var resp LoadResponse
	err = s.session.Do(func(sess *dashboard.Session) error {
		if err := sess.Load(req.Graph, req.Attacks); err != nil {
			return err
		}
		snap := sess.Snapshot()
		resp = LoadResponse{
			State:        snap.State.String(),
			Nodes:        snap.Nodes,
			Edges:        snap.Edges,
			Attacks:      snap.Attacks,
			NetworkScore: snap.NetworkScore,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidTransition) {
			s.respondSessionError(w, err, "load data")
			return
		}
		// Remaining load errors come from validation and are safe to show
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	var resp GraphStatsResponse
	s.session.Do(func(sess *dashboard.Session) error {
		resp.Stats = sess.Graph().Stats()
		resp.AttackedNodes = sess.Index().AttackedNodes()
		return nil
	})
	if resp.AttackedNodes == nil {
		resp.AttackedNodes = []string{}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	var nodes []dashboard.NodeView
	s.session.Do(func(sess *dashboard.Session) error {
		nodes = sess.Nodes()
		return nil
	})
	s.respondJSON(w, http.StatusOK, nodes)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var plan visualization.Plan
	err := s.session.Do(func(sess *dashboard.Session) error {
		var err error
		plan, err = sess.Plan()
		return err
	})
	if err != nil {
		s.respondSessionError(w, err, "build plan")
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}
