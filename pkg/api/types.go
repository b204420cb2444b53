package api

import (
	"encoding/json"

	"github.com/dd0wney/cluso-attackmap/pkg/risk"
	"github.com/dd0wney/cluso-attackmap/pkg/severity"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
)

// API Request/Response Types

// DataUpload is the body of POST /api/data. Both parts use the file
// document formats, so edge defaults apply and attacks may be a bare list.
type DataUpload struct {
	Graph   json.RawMessage `json:"graph"`
	Attacks json.RawMessage `json:"attacks,omitempty"`
}

// PanRequest shifts the view by screen units
type PanRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ClickRequest is a pointer click in screen coordinates
type ClickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewResponse is the view state after a view action
type ViewResponse struct {
	Zoom         float64                `json:"zoom"`
	Offset       visualization.Position `json:"offset"`
	SelectedNode string                 `json:"selected_node,omitempty"`
}

// AttackDetailResponse is one attack with its score breakdown
type AttackDetailResponse struct {
	Attack    topology.Attack    `json:"attack"`
	Breakdown severity.Breakdown `json:"breakdown"`
}

// AttacksResponse lists attacks in mitigation order
type AttacksResponse struct {
	Attacks []risk.Ranked `json:"attacks"`
	Count   int           `json:"count"`
}

// GraphStatsResponse describes the loaded topology
type GraphStatsResponse struct {
	topology.Stats
	AttackedNodes []string `json:"attacked_nodes"`
}

// GraphResponse is the loaded topology in graph order
type GraphResponse struct {
	Nodes []topology.Node `json:"nodes"`
	Edges []topology.Edge `json:"edges"`
}

// LoadResponse confirms a data upload
type LoadResponse struct {
	State        string `json:"state"`
	Nodes        int    `json:"nodes"`
	Edges        int    `json:"edges"`
	Attacks      int    `json:"attacks"`
	NetworkScore int    `json:"network_risk_score"`
}

// InfoResponse describes the running server
type InfoResponse struct {
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	SessionID     string  `json:"session_id"`
	State         string  `json:"state"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
