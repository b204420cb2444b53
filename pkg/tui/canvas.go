package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dd0wney/cluso-attackmap/pkg/visualization"
)

// A terminal cell covers CellWidth x CellHeight screen units, roughly the
// aspect ratio of a monospace glyph.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

type cell struct {
	r     rune
	color visualization.Color
}

// Canvas rasterizes a draw plan onto a grid of terminal cells
type Canvas struct {
	width  int
	height int
	cells  []cell
}

// NewCanvas creates a blank canvas of width x height cells
func NewCanvas(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &Canvas{width: width, height: height, cells: make([]cell, width*height)}
	c.Clear()
	return c
}

// Size returns the canvas dimensions in cells
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Clear blanks every cell
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

// At returns the rune drawn at (col, row), or a space outside the canvas
func (c *Canvas) At(col, row int) rune {
	if !c.inside(col, row) {
		return ' '
	}
	return c.cells[row*c.width+col].r
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.width && row < c.height
}

func (c *Canvas) set(col, row int, r rune, color visualization.Color) {
	if !c.inside(col, row) {
		return
	}
	c.cells[row*c.width+col] = cell{r: r, color: color}
}

// CellAt maps a screen position to the cell containing it
func CellAt(p visualization.Position) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// ScreenAt returns the screen position at the centre of a cell
func ScreenAt(col, row int) visualization.Position {
	return visualization.Position{
		X: (float64(col) + 0.5) * CellWidth,
		Y: (float64(row) + 0.5) * CellHeight,
	}
}

// Draw clears the canvas and rasterizes plan. Primitives are in model
// space; the plan transform is applied here once per point. Edges are
// drawn first so nodes and labels sit on top.
func (c *Canvas) Draw(plan visualization.Plan) {
	c.Clear()

	t := plan.Transform
	toScreen := func(p visualization.Position) visualization.Position {
		if !plan.PreTransform {
			return p
		}
		return visualization.Position{X: p.X*t.Zoom + t.OffsetX, Y: p.Y*t.Zoom + t.OffsetY}
	}

	for _, p := range plan.Primitives {
		switch p.Kind {
		case visualization.KindLine:
			if len(p.Points) == 2 {
				c.line(toScreen(p.Points[0]), toScreen(p.Points[1]), p.Color, p.Attacked)
			}
		case visualization.KindArrowHead:
			if len(p.Points) == 3 {
				left, tip, right := toScreen(p.Points[0]), toScreen(p.Points[1]), toScreen(p.Points[2])
				base := visualization.Position{X: (left.X + right.X) / 2, Y: (left.Y + right.Y) / 2}
				col, row := CellAt(tip)
				c.set(col, row, arrowRune(base, tip), p.Color)
			}
		}
	}

	for _, p := range plan.Primitives {
		col, row := CellAt(toScreen(p.Center))
		switch p.Kind {
		case visualization.KindCircle:
			c.set(col, row, '●', p.Color)
		case visualization.KindRing:
			c.set(col-1, row, '[', p.Color)
			c.set(col+1, row, ']', p.Color)
		case visualization.KindLabel:
			c.text(col, row, p.Text, p.Color)
		}
	}
}

// line walks from a to b in cell space, leaving the end cells free for
// the node glyphs
func (c *Canvas) line(a, b visualization.Position, color visualization.Color, attacked bool) {
	c0, r0 := CellAt(a)
	c1, r1 := CellAt(b)

	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	glyph := lineRune(c1-c0, r1-r0, attacked)

	err := dc + dr
	col, row := c0, r0
	for {
		if (col != c0 || row != r0) && (col != c1 || row != r1) {
			c.set(col, row, glyph, color)
		}
		if col == c1 && row == r1 {
			return
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			col += sc
		}
		if e2 <= dc {
			err += dc
			row += sr
		}
	}
}

// text centres s on col
func (c *Canvas) text(col, row int, s string, color visualization.Color) {
	runes := []rune(s)
	start := col - len(runes)/2
	for i, r := range runes {
		c.set(start+i, row, r, color)
	}
}

// Render returns the canvas as styled lines
func (c *Canvas) Render() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var (
			run   strings.Builder
			color visualization.Color
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if color == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(string(color))).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.width; col++ {
			cl := c.cells[row*c.width+col]
			if cl.color != color {
				flush()
				color = cl.color
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// String returns the canvas without styling
func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.width; col++ {
			b.WriteRune(c.cells[row*c.width+col].r)
		}
	}
	return b.String()
}

func lineRune(dc, dr int, attacked bool) rune {
	if attacked {
		return '•'
	}
	switch {
	case dr == 0:
		return '─'
	case dc == 0:
		return '│'
	case 2*abs(dr) < abs(dc):
		return '─'
	case 2*abs(dc) < abs(dr):
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

func arrowRune(base, tip visualization.Position) rune {
	dx, dy := tip.X-base.X, (tip.Y-base.Y)*CellWidth/CellHeight
	if math.Abs(dx) >= math.Abs(dy) {
		if dx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if dy >= 0 {
		return '▼'
	}
	return '▲'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
