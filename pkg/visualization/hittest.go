package visualization

import "math"

// PickRadius is the model-space pick distance; it matches NodeRadius
const PickRadius = 20.0

// HitTest resolves a screen coordinate to a node id.
//
// The point is mapped back to model space and nodes are scanned in
// nodeIDs order; the first node within PickRadius wins even when a later
// node is closer. Ids without a position are skipped.
func HitTest(screen Position, view *ViewState, nodeIDs []string, positions map[string]Position) (string, bool) {
	p := view.ToModel(screen)
	for _, id := range nodeIDs {
		pos, ok := positions[id]
		if !ok {
			continue
		}
		if math.Hypot(pos.X-p.X, pos.Y-p.Y) <= PickRadius {
			return id, true
		}
	}
	return "", false
}
