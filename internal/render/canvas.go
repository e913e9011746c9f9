package render

import (
	"strings"

	"netdiagram/internal/selection"
)

// Canvas is a Surface backed by a grid of runes. Each cell covers
// CellWidth × CellHeight viewport units.
type Canvas struct {
	cols, rows int
	cellW      float64
	cellH      float64
	cells      [][]rune
}

// NewCanvas creates a blank canvas
func NewCanvas(cols, rows int, cellW, cellH float64) *Canvas {
	c := &Canvas{cols: cols, rows: rows, cellW: cellW, cellH: cellH}
	c.cells = make([][]rune, rows)
	for r := range c.cells {
		c.cells[r] = make([]rune, cols)
	}
	c.Reset()
	return c
}

// Reset blanks every cell
func (c *Canvas) Reset() {
	for _, row := range c.cells {
		for i := range row {
			row[i] = ' '
		}
	}
}

// Viewport returns the viewport size the canvas covers
func (c *Canvas) Viewport() (float64, float64) {
	return float64(c.cols) * c.cellW, float64(c.rows) * c.cellH
}

// DrawLine rasterises the segment with Bresenham's algorithm
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64) {
	c0, r0 := c.cell(x1, y1)
	c1, r1 := c.cell(x2, y2)

	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	errv := dc + dr
	for {
		c.set(c0, r0, lineRune(dc, -dr))
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * errv
		if e2 >= dr {
			errv += dr
			c0 += sc
		}
		if e2 <= dc {
			errv += dc
			r0 += sr
		}
	}
}

// Place writes the element's glyph at (x, y) and its text to the right
func (c *Canvas) Place(e Element, x, y float64) {
	col, row := c.cell(x, y)
	if e.Kind == ElementLinkLabel {
		c.write(col-len([]rune(e.Text))/2, row, e.Text)
		return
	}
	c.set(col, row, glyph(e))
	if e.Text != "" {
		c.write(col+2, row, e.Text)
	}
}

// String returns the grid as newline-separated rows
func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

func (c *Canvas) cell(x, y float64) (int, int) {
	return int(x / c.cellW), int(y / c.cellH)
}

func (c *Canvas) set(col, row int, r rune) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = r
}

func (c *Canvas) write(col, row int, s string) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r)
	}
}

func glyph(e Element) rune {
	switch e.Highlight {
	case selection.Selected:
		return '*'
	case selection.Selectable:
		return '?'
	}
	if e.Kind == ElementRouter {
		return 'R'
	}
	return 'H'
}

func lineRune(dc, dr int) rune {
	switch {
	case dr == 0:
		return '-'
	case dc == 0:
		return '|'
	}
	return '.'
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
