package dashboard

import (
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
)

// SelectionEvent is emitted after every pick, hit or miss
type SelectionEvent struct {
	SessionID string                 `json:"session_id"`
	NodeID    string                 `json:"node_id,omitempty"`
	Selected  bool                   `json:"selected"`
	Screen    visualization.Position `json:"screen"`
	Model     visualization.Position `json:"model"`
	Node      *topology.Node         `json:"node,omitempty"`
	Attacks   []topology.Attack      `json:"attacks,omitempty"`
}

// SelectionListener receives selection events synchronously, in the
// order the clicks were handled
type SelectionListener func(SelectionEvent)

// GraphChange names an incremental topology edit
type GraphChange string

const (
	NodeAdded   GraphChange = "node_added"
	NodeRemoved GraphChange = "node_removed"
	EdgeAdded   GraphChange = "edge_added"
	EdgeRemoved GraphChange = "edge_removed"
)

// GraphChangeEvent is emitted after every successful edit. Nodes and
// Edges are the topology size after the edit.
type GraphChangeEvent struct {
	SessionID string         `json:"session_id"`
	Type      GraphChange    `json:"type"`
	NodeID    string         `json:"node_id,omitempty"`
	Node      *topology.Node `json:"node,omitempty"`
	Edge      *topology.Edge `json:"edge,omitempty"`
	// Replaced is set when an added edge overwrote one with the same
	// source and target
	Replaced         bool `json:"replaced,omitempty"`
	RemovedEdges     int  `json:"removed_edges,omitempty"`
	SelectionCleared bool `json:"selection_cleared,omitempty"`
	Nodes            int  `json:"nodes"`
	Edges            int  `json:"edges"`
}

// GraphListener receives graph change events synchronously
type GraphListener func(GraphChangeEvent)
