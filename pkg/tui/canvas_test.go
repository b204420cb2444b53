package tui

import (
	"strings"
	"testing"

	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
	"github.com/stretchr/testify/assert"
)

func identityPlan(prims ...visualization.Primitive) visualization.Plan {
	return visualization.Plan{
		PreTransform: true,
		Transform:    visualization.Transform{Zoom: 1},
		Primitives:   prims,
	}
}

func TestCellMapping(t *testing.T) {
	col, row := CellAt(ScreenAt(3, 4))
	assert.Equal(t, 3, col)
	assert.Equal(t, 4, row)

	col, row = CellAt(visualization.Position{X: -1, Y: -1})
	assert.Equal(t, -1, col)
	assert.Equal(t, -1, row)
}

func TestCanvasDrawNodeAndLabel(t *testing.T) {
	c := NewCanvas(20, 6)
	c.Draw(identityPlan(
		visualization.Primitive{Kind: visualization.KindCircle, Center: visualization.Position{X: 40, Y: 40}, Color: visualization.ColorBlue},
		visualization.Primitive{Kind: visualization.KindLabel, Center: visualization.Position{X: 40, Y: 72}, Text: "ab"},
	))

	assert.Equal(t, '●', c.At(5, 2))
	assert.Equal(t, 'a', c.At(4, 4))
	assert.Equal(t, 'b', c.At(5, 4))
}

func TestCanvasDrawLineLeavesEndpointsFree(t *testing.T) {
	c := NewCanvas(12, 2)
	c.Draw(identityPlan(visualization.Primitive{
		Kind:   visualization.KindLine,
		Points: []visualization.Position{{X: 8, Y: 8}, {X: 80, Y: 8}},
	}))

	assert.Equal(t, ' ', c.At(1, 0))
	for col := 2; col <= 9; col++ {
		assert.Equal(t, '─', c.At(col, 0), "col %d", col)
	}
	assert.Equal(t, ' ', c.At(10, 0))
}

func TestCanvasAttackedLine(t *testing.T) {
	c := NewCanvas(4, 6)
	c.Draw(identityPlan(visualization.Primitive{
		Kind:     visualization.KindLine,
		Points:   []visualization.Position{{X: 12, Y: 8}, {X: 12, Y: 88}},
		Attacked: true,
	}))

	assert.Equal(t, '•', c.At(1, 2))
}

func TestCanvasAppliesTransform(t *testing.T) {
	c := NewCanvas(20, 8)
	plan := identityPlan(visualization.Primitive{Kind: visualization.KindCircle, Center: visualization.Position{X: 40, Y: 40}})
	plan.Transform = visualization.Transform{Zoom: 2, OffsetX: 8}
	c.Draw(plan)

	// (40, 40) * 2 + (8, 0) = (88, 80)
	assert.Equal(t, '●', c.At(11, 5))
	assert.Equal(t, ' ', c.At(5, 2))
}

func TestCanvasRingAndArrow(t *testing.T) {
	c := NewCanvas(20, 4)
	c.Draw(identityPlan(
		visualization.Primitive{
			Kind:   visualization.KindArrowHead,
			Points: []visualization.Position{{X: 60, Y: 4}, {X: 72, Y: 8}, {X: 60, Y: 12}},
		},
		visualization.Primitive{Kind: visualization.KindCircle, Center: visualization.Position{X: 120, Y: 40}},
		visualization.Primitive{Kind: visualization.KindRing, Center: visualization.Position{X: 120, Y: 40}},
	))

	assert.Equal(t, '▶', c.At(9, 0))
	assert.Equal(t, '[', c.At(14, 2))
	assert.Equal(t, '●', c.At(15, 2))
	assert.Equal(t, ']', c.At(16, 2))
}

func TestCanvasClipsOutsidePrimitives(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Draw(identityPlan(
		visualization.Primitive{Kind: visualization.KindCircle, Center: visualization.Position{X: -500, Y: 900}},
		visualization.Primitive{Kind: visualization.KindLine, Points: []visualization.Position{{X: -100, Y: -100}, {X: 400, Y: 300}}},
		visualization.Primitive{Kind: visualization.KindLabel, Center: visualization.Position{X: 0, Y: 0}, Text: "long-label"},
	))

	assert.Len(t, strings.Split(c.String(), "\n"), 2)
	assert.Equal(t, 'l', c.At(0, 0))
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(6, 2)
	c.Draw(identityPlan(visualization.Primitive{Kind: visualization.KindCircle, Center: visualization.Position{X: 4, Y: 4}, Color: visualization.ColorRed}))

	out := c.Render()
	assert.Contains(t, out, "●")
	assert.Equal(t, 1, strings.Count(out, "\n"))

	empty := NewCanvas(0, 0)
	assert.Empty(t, empty.Render())
}
