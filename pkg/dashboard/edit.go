package dashboard

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/validation"
)

var (
	// ErrNodeNotFound is returned when removing an unknown node
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeNotFound is returned when removing an unknown edge
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrInvalidEdit wraps validation failures of an edited graph
	ErrInvalidEdit = errors.New("invalid graph edit")
)

// OnGraphChange registers a listener for topology edits
func (s *Session) OnGraphChange(l GraphListener) {
	s.graphListeners = append(s.graphListeners, l)
}

// AddNode appends a node to the loaded topology. The layout is recomputed
// on the next plan because the node order changed.
func (s *Session) AddNode(n topology.Node) (GraphChangeEvent, error) {
	if s.state != StateReady {
		return GraphChangeEvent{}, ErrNotReady
	}

	g := s.graph.WithNode(n)
	if err := validation.ValidateGraph(&g); err != nil {
		return GraphChangeEvent{}, fmt.Errorf("%w: %w", ErrInvalidEdit, err)
	}

	return s.applyEdit(g, GraphChangeEvent{
		Type:   NodeAdded,
		NodeID: n.ID,
		Node:   &n,
	}), nil
}

// RemoveNode drops a node and every edge touching it. Removing the
// selected node clears the selection.
func (s *Session) RemoveNode(id string) (GraphChangeEvent, error) {
	if s.state != StateReady {
		return GraphChangeEvent{}, ErrNotReady
	}

	g, dropped, ok := s.graph.WithoutNode(id)
	if !ok {
		return GraphChangeEvent{}, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}

	return s.applyEdit(g, GraphChangeEvent{
		Type:         NodeRemoved,
		NodeID:       id,
		RemovedEdges: dropped,
	}), nil
}

// AddEdge adds a directed edge, replacing an existing edge with the same
// source and target. Endpoints need not exist yet; such edges are skipped
// when drawing.
func (s *Session) AddEdge(e topology.Edge) (GraphChangeEvent, error) {
	if s.state != StateReady {
		return GraphChangeEvent{}, ErrNotReady
	}

	g, replaced := s.graph.WithEdge(e)
	if err := validation.ValidateGraph(&g); err != nil {
		return GraphChangeEvent{}, fmt.Errorf("%w: %w", ErrInvalidEdit, err)
	}

	return s.applyEdit(g, GraphChangeEvent{
		Type:     EdgeAdded,
		Edge:     &e,
		Replaced: replaced,
	}), nil
}

// RemoveEdge drops the source→target edge
func (s *Session) RemoveEdge(source, target string) (GraphChangeEvent, error) {
	if s.state != StateReady {
		return GraphChangeEvent{}, ErrNotReady
	}

	removed, ok := s.graph.Edge(source, target)
	if !ok {
		return GraphChangeEvent{}, fmt.Errorf("%w: %s->%s", ErrEdgeNotFound, source, target)
	}
	g, _ := s.graph.WithoutEdge(source, target)

	return s.applyEdit(g, GraphChangeEvent{
		Type: EdgeRemoved,
		Edge: &removed,
	}), nil
}

// applyEdit installs an already validated graph and notifies listeners
func (s *Session) applyEdit(g topology.Graph, ev GraphChangeEvent) GraphChangeEvent {
	s.graph = g

	if sel, ok := s.view.Selected(); ok {
		if _, still := s.graph.Node(sel); !still {
			s.view.ClearSelection()
			ev.SelectionCleared = true
		}
	}

	ev.SessionID = s.id
	ev.Nodes = len(g.Nodes)
	ev.Edges = len(g.Edges)

	stats := g.Stats()
	if s.metrics != nil {
		s.metrics.RecordGraphEdit(string(ev.Type))
		s.metrics.UpdateTopology(stats.NodeCount, stats.EdgeCount, stats.DanglingEdges, len(s.index.AttackedNodes()))
	}
	s.logger.Info("graph edited",
		logging.Operation(string(ev.Type)),
		logging.Int("nodes", stats.NodeCount),
		logging.Int("edges", stats.EdgeCount),
	)

	for _, l := range s.graphListeners {
		l(ev)
	}
	return ev
}
