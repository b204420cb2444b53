package visualization

// Position represents a 2D coordinate in model space
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width   float64 `mapstructure:"width" yaml:"width"`     // Canvas width
	Height  float64 `mapstructure:"height" yaml:"height"`   // Canvas height
	Padding float64 `mapstructure:"padding" yaml:"padding"` // Gap between the circle and the nearest canvas edge
}

// DefaultLayoutConfig centers the circle at (400, 300) with radius 150
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:   800,
		Height:  600,
		Padding: 150,
	}
}

// Layout assigns model-space positions to an ordered list of node ids
type Layout interface {
	ComputeLayout(nodeIDs []string) map[string]Position
}
