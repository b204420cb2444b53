package visualization

// Geometry of drawn elements, in model units
const (
	NodeRadius     = 20.0
	SelectionGap   = 4.0
	ArrowLength    = 10.0
	ArrowHalfAngle = 30.0 // degrees
	LabelOffset    = 12.0
	EdgeWidth      = 1.0
	AttackedWidth  = 2.0
)

// PrimitiveKind names a drawing primitive
type PrimitiveKind string

const (
	KindLine      PrimitiveKind = "line"
	KindArrowHead PrimitiveKind = "arrowhead"
	KindCircle    PrimitiveKind = "circle"
	KindRing      PrimitiveKind = "ring"
	KindLabel     PrimitiveKind = "label"
)

// Primitive is one model-space drawing instruction.
//
// Points holds [from, to] for lines and [left, tip, right] for arrow
// heads, i.e. the two segments tip->left and tip->right. Circles and rings
// use Center and Radius; labels use Center and Text.
type Primitive struct {
	Kind     PrimitiveKind `json:"kind"`
	Points   []Position    `json:"points,omitempty"`
	Center   Position      `json:"center"`
	Radius   float64       `json:"radius,omitempty"`
	Width    float64       `json:"width,omitempty"`
	Color    Color         `json:"color"`
	Text     string        `json:"text,omitempty"`
	NodeID   string        `json:"node_id,omitempty"`
	Source   string        `json:"source,omitempty"`
	Target   string        `json:"target,omitempty"`
	Attacked bool          `json:"attacked,omitempty"`
}

// Transform is the view transform the host applies once around the whole
// plan (save, translate by offset, scale by zoom, draw, restore).
type Transform struct {
	Zoom    float64 `json:"zoom"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Plan is an ordered draw list: edges first, then nodes on top
type Plan struct {
	PreTransform bool        `json:"pre_transform"`
	Transform    Transform   `json:"transform"`
	Primitives   []Primitive `json:"primitives"`
	SelectedNode string      `json:"selected_node,omitempty"`
	SkippedEdges int         `json:"skipped_edges"`
}

// Count returns the number of primitives of a kind
func (p Plan) Count(kind PrimitiveKind) int {
	n := 0
	for _, prim := range p.Primitives {
		if prim.Kind == kind {
			n++
		}
	}
	return n
}

// AttackOracle answers attacked-status queries for nodes and edges
type AttackOracle interface {
	IsNodeAttacked(nodeID string) bool
	IsEdgeAttacked(source, target string) bool
}

type noAttacks struct{}

func (noAttacks) IsNodeAttacked(string) bool         { return false }
func (noAttacks) IsEdgeAttacked(string, string) bool { return false }
