package visualization

import (
	"math"
	"slices"

	"github.com/dd0wney/cluso-attackmap/pkg/topology"
)

// Planner turns a graph, its attack status and the view into a Plan. It
// caches positions until the node id sequence changes.
type Planner struct {
	layout    Layout
	lastIDs   []string
	positions map[string]Position
}

// NewPlanner creates a planner over the given layout
func NewPlanner(layout Layout) *Planner {
	return &Planner{layout: layout}
}

// Positions returns the layout for the graph's node order.
func (p *Planner) Positions(g topology.Graph) map[string]Position {
	ids := g.NodeIDs()
	if p.positions == nil || !slices.Equal(ids, p.lastIDs) {
		p.positions = p.layout.ComputeLayout(ids)
		p.lastIDs = ids
	}
	return p.positions
}

// Plan builds the draw list. Edges with an endpoint missing from the
// layout are skipped and counted in SkippedEdges. A nil oracle marks
// nothing as attacked.
func (p *Planner) Plan(g topology.Graph, oracle AttackOracle, view *ViewState) Plan {
	if oracle == nil {
		oracle = noAttacks{}
	}
	if view == nil {
		view = NewViewState()
	}
	positions := p.Positions(g)
	offset := view.Offset()

	plan := Plan{
		PreTransform: true,
		Transform: Transform{
			Zoom:    view.Zoom(),
			OffsetX: offset.X,
			OffsetY: offset.Y,
		},
		Primitives: make([]Primitive, 0, 2*len(g.Edges)+3*len(g.Nodes)),
	}

	for _, e := range g.Edges {
		from, okFrom := positions[e.Source]
		to, okTo := positions[e.Target]
		if !okFrom || !okTo {
			plan.SkippedEdges++
			continue
		}

		attacked := oracle.IsEdgeAttacked(e.Source, e.Target)
		color := EdgeColor(attacked)
		width := EdgeWidth
		if attacked {
			width = AttackedWidth
		}

		plan.Primitives = append(plan.Primitives, Primitive{
			Kind:     KindLine,
			Points:   []Position{from, to},
			Width:    width,
			Color:    color,
			Source:   e.Source,
			Target:   e.Target,
			Attacked: attacked,
		})

		if head, ok := arrowHead(from, to); ok {
			plan.Primitives = append(plan.Primitives, Primitive{
				Kind:     KindArrowHead,
				Points:   head,
				Width:    width,
				Color:    color,
				Source:   e.Source,
				Target:   e.Target,
				Attacked: attacked,
			})
		}
	}

	selected, hasSel := view.Selected()
	if hasSel {
		plan.SelectedNode = selected
	}

	for _, n := range g.Nodes {
		pos, ok := positions[n.ID]
		if !ok {
			continue
		}
		attacked := oracle.IsNodeAttacked(n.ID)

		plan.Primitives = append(plan.Primitives, Primitive{
			Kind:     KindCircle,
			Center:   pos,
			Radius:   NodeRadius,
			Color:    NodeColor(n.Type, attacked),
			NodeID:   n.ID,
			Attacked: attacked,
		})

		if hasSel && n.ID == selected {
			plan.Primitives = append(plan.Primitives, Primitive{
				Kind:   KindRing,
				Center: pos,
				Radius: NodeRadius + SelectionGap,
				Width:  2,
				Color:  ColorSelection,
				NodeID: n.ID,
			})
		}

		plan.Primitives = append(plan.Primitives, Primitive{
			Kind:   KindLabel,
			Center: Position{X: pos.X, Y: pos.Y + NodeRadius + LabelOffset},
			Color:  ColorLabel,
			Text:   n.ID,
			NodeID: n.ID,
		})
	}

	return plan
}

// arrowHead returns [left, tip, right] with the tip on the target's
// circle boundary. Zero-length edges have no direction and get no head.
func arrowHead(from, to Position) ([]Position, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return nil, false
	}

	angle := math.Atan2(dy, dx)
	inset := math.Min(NodeRadius, dist)
	tip := Position{
		X: to.X - inset*math.Cos(angle),
		Y: to.Y - inset*math.Sin(angle),
	}

	half := ArrowHalfAngle * math.Pi / 180
	left := Position{
		X: tip.X - ArrowLength*math.Cos(angle-half),
		Y: tip.Y - ArrowLength*math.Sin(angle-half),
	}
	right := Position{
		X: tip.X - ArrowLength*math.Cos(angle+half),
		Y: tip.Y - ArrowLength*math.Sin(angle+half),
	}
	return []Position{left, tip, right}, true
}
