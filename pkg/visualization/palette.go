package visualization

import "github.com/dd0wney/cluso-attackmap/pkg/topology"

// Color is a hex RGB string understood by host surfaces
type Color string

const (
	ColorBlue   Color = "#3b82f6"
	ColorGreen  Color = "#10b981"
	ColorAmber  Color = "#f59e0b"
	ColorPurple Color = "#8b5cf6"
	ColorCyan   Color = "#06b6d4"
	ColorGray   Color = "#6b7280"
	ColorRed    Color = "#ef4444"

	ColorEdge      Color = "#9ca3af"
	ColorSelection Color = "#facc15"
	ColorLabel     Color = "#e5e7eb"
)

var nodeColors = map[topology.NodeType]Color{
	topology.NodeServer:   ColorBlue,
	topology.NodeClient:   ColorGreen,
	topology.NodeRouter:   ColorAmber,
	topology.NodeFirewall: ColorPurple,
	topology.NodeDatabase: ColorCyan,
}

// NodeColor returns the fill for a node; attacked nodes are always red.
func NodeColor(t topology.NodeType, attacked bool) Color {
	if attacked {
		return ColorRed
	}
	if c, ok := nodeColors[t]; ok {
		return c
	}
	return ColorGray
}

// EdgeColor returns the stroke for an edge
func EdgeColor(attacked bool) Color {
	if attacked {
		return ColorRed
	}
	return ColorEdge
}
