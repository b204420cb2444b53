package visualization

import "math"

// Zoom bounds and step
const (
	MinZoom  = 0.5
	MaxZoom  = 3.0
	ZoomStep = 1.2
)

// MaxOffset bounds each offset component in screen units
const MaxOffset = 1e9

// ViewState holds the session's zoom, pan offset and selected node.
//
// The zero value is usable and equivalent to a freshly reset view. Zoom
// is kept inside [MinZoom, MaxZoom] so ToModel is always defined.
type ViewState struct {
	zoom     float64
	offset   Position
	selected string
	hasSel   bool
}

// NewViewState returns a view at zoom 1, offset (0, 0), nothing selected
func NewViewState() *ViewState {
	return &ViewState{zoom: 1}
}

// Zoom returns the current scale factor
func (v *ViewState) Zoom() float64 {
	if v.zoom == 0 {
		return 1
	}
	return v.zoom
}

// Offset returns the current translation in screen units
func (v *ViewState) Offset() Position {
	return v.offset
}

// ToScreen maps a model-space point to screen space: p*zoom + offset.
func (v *ViewState) ToScreen(p Position) Position {
	z := v.Zoom()
	return Position{
		X: p.X*z + v.offset.X,
		Y: p.Y*z + v.offset.Y,
	}
}

// ToModel is the exact inverse of ToScreen: (s - offset) / zoom.
func (v *ViewState) ToModel(s Position) Position {
	z := v.Zoom()
	return Position{
		X: (s.X - v.offset.X) / z,
		Y: (s.Y - v.offset.Y) / z,
	}
}

// ZoomIn multiplies zoom by ZoomStep up to MaxZoom
func (v *ViewState) ZoomIn() {
	v.zoom = math.Min(v.Zoom()*ZoomStep, MaxZoom)
}

// ZoomOut divides zoom by ZoomStep down to MinZoom
func (v *ViewState) ZoomOut() {
	v.zoom = math.Max(v.Zoom()/ZoomStep, MinZoom)
}

// SetZoom clamps z into [MinZoom, MaxZoom]. Non-finite values are ignored.
func (v *ViewState) SetZoom(z float64) {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	v.zoom = math.Min(math.Max(z, MinZoom), MaxZoom)
}

// Pan shifts the offset by (dx, dy) screen units. Non-finite deltas are
// ignored and each offset component is clamped to ±MaxOffset.
func (v *ViewState) Pan(dx, dy float64) {
	if !finite(dx) || !finite(dy) {
		return
	}
	v.offset.X = clampOffset(v.offset.X + dx)
	v.offset.Y = clampOffset(v.offset.Y + dy)
}

// Reset restores zoom 1, offset (0, 0) and clears the selection
func (v *ViewState) Reset() {
	v.zoom = 1
	v.offset = Position{}
	v.ClearSelection()
}

// Select marks a node as selected
func (v *ViewState) Select(nodeID string) {
	v.selected = nodeID
	v.hasSel = true
}

// ClearSelection drops the current selection
func (v *ViewState) ClearSelection() {
	v.selected = ""
	v.hasSel = false
}

// Selected returns the selected node id, if any
func (v *ViewState) Selected() (string, bool) {
	return v.selected, v.hasSel
}

// clampOffset also maps an overflowed sum back into range
func clampOffset(f float64) float64 {
	return math.Min(math.Max(f, -MaxOffset), MaxOffset)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
