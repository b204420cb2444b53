package visualization

import (
	"math"
)

// CircularLayout arranges nodes evenly on a circle. Positions depend only
// on the length and order of the id list.
type CircularLayout struct {
	config LayoutConfig
}

// NewCircularLayout creates a new circular layout. A zero config means
// DefaultLayoutConfig; otherwise only zero dimensions are defaulted and a
// zero padding is kept, giving a circle that touches the canvas edge.
func NewCircularLayout(config LayoutConfig) *CircularLayout {
	def := DefaultLayoutConfig()
	if config == (LayoutConfig{}) {
		return &CircularLayout{config: def}
	}
	if config.Width == 0 {
		config.Width = def.Width
	}
	if config.Height == 0 {
		config.Height = def.Height
	}
	return &CircularLayout{config: config}
}

// Center returns the circle center
func (cl *CircularLayout) Center() Position {
	return Position{X: cl.config.Width / 2, Y: cl.config.Height / 2}
}

// Radius returns the circle radius
func (cl *CircularLayout) Radius() float64 {
	c := cl.Center()
	return math.Min(c.X, c.Y) - cl.config.Padding
}

// ComputeLayout places the i-th node at angle 2*pi*i/N. A repeated id keeps
// the position of its last occurrence.
func (cl *CircularLayout) ComputeLayout(nodeIDs []string) map[string]Position {
	positions := make(map[string]Position, len(nodeIDs))

	if len(nodeIDs) == 0 {
		return positions
	}

	center := cl.Center()
	radius := cl.Radius()

	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = Position{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}

	return positions
}
