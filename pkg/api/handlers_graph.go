package api

import (
	"net/http"
	"slices"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var resp GraphResponse
	s.session.Do(func(sess *dashboard.Session) error {
		g := sess.Graph()
		resp.Nodes = slices.Clone(g.Nodes)
		resp.Edges = slices.Clone(g.Edges)
		return nil
	})
	if resp.Nodes == nil {
		resp.Nodes = []topology.Node{}
	}
	if resp.Edges == nil {
		resp.Edges = []topology.Edge{}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// graphEdit runs one session edit and answers with the change event
func (s *Server) graphEdit(w http.ResponseWriter, status int, operation string, edit func(*dashboard.Session) (dashboard.GraphChangeEvent, error)) {
	var ev dashboard.GraphChangeEvent
	err := s.session.Do(func(sess *dashboard.Session) error {
		var err error
		ev, err = edit(sess)
		return err
	})
	if err != nil {
		s.respondSessionError(w, err, operation)
		return
	}
	s.respondJSON(w, status, ev)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var node topology.Node
	if s.NewRequestDecoder(w, r).DecodeJSON(&node).RespondError() {
		return
	}
	s.graphEdit(w, http.StatusCreated, "add node", func(sess *dashboard.Session) (dashboard.GraphChangeEvent, error) {
		return sess.AddNode(node)
	})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.graphEdit(w, http.StatusOK, "remove node", func(sess *dashboard.Session) (dashboard.GraphChangeEvent, error) {
		return sess.RemoveNode(id)
	})
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var edge topology.Edge
	if s.NewRequestDecoder(w, r).DecodeEdge(&edge).RespondError() {
		return
	}
	s.graphEdit(w, http.StatusCreated, "add edge", func(sess *dashboard.Session) (dashboard.GraphChangeEvent, error) {
		return sess.AddEdge(edge)
	})
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	source, target := r.PathValue("source"), r.PathValue("target")
	s.graphEdit(w, http.StatusOK, "remove edge", func(sess *dashboard.Session) (dashboard.GraphChangeEvent, error) {
		return sess.RemoveEdge(source, target)
	})
}
