package dashboard

import (
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
)

// Snapshot is a read-only copy of session state for host surfaces
type Snapshot struct {
	SessionID    string                 `json:"session_id"`
	State        LoadState              `json:"state"`
	Error        string                 `json:"error,omitempty"`
	Zoom         float64                `json:"zoom"`
	Offset       visualization.Position `json:"offset"`
	SelectedNode string                 `json:"selected_node,omitempty"`
	Nodes        int                    `json:"nodes"`
	Edges        int                    `json:"edges"`
	Attacks      int                    `json:"attacks"`
	NetworkScore int                    `json:"network_risk_score"`
}

// NodeView is a node with its layout position and attack status
type NodeView struct {
	topology.Node
	Position  visualization.Position `json:"position"`
	Attacked  bool                   `json:"attacked"`
	AttackIDs []string               `json:"attack_ids,omitempty"`
}
