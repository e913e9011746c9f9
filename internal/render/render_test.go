package render

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netdiagram/internal/domain"
	"netdiagram/internal/selection"
)

type placed struct {
	e    Element
	x, y float64
}

type recorder struct {
	lines  [][4]float64
	placed []placed
}

func (r *recorder) DrawLine(x1, y1, x2, y2 float64) {
	r.lines = append(r.lines, [4]float64{x1, y1, x2, y2})
}
func (r *recorder) Place(e Element, x, y float64) { r.placed = append(r.placed, placed{e, x, y}) }
func (r *recorder) Viewport() (float64, float64)  { return 800, 600 }

func sample(t *testing.T) (*domain.Graph, *domain.Device, *domain.Device) {
	t.Helper()
	g := domain.NewGraph()
	h := g.AddDevice(domain.KindHost, 10, 20)
	h.Label = "web"
	r := g.AddDevice(domain.KindRouter, 30, 60)
	r.Label = "gw"
	l, err := g.AddLink(h.ID, r.ID)
	require.NoError(t, err)
	l.Label = "uplink"
	return g, h, r
}

func TestDraw(t *testing.T) {
	g, h, r := sample(t)
	rec := &recorder{}

	Draw(rec, g, func(id domain.DeviceID) selection.Highlight {
		if id == r.ID {
			return selection.Selected
		}
		return selection.None
	})

	require.Len(t, rec.lines, 1)
	assert.Equal(t, [4]float64{10, 20, 30, 60}, rec.lines[0])

	require.Len(t, rec.placed, 3)
	assert.Equal(t, placed{Element{Kind: ElementLinkLabel, Text: "uplink"}, 20, 40}, rec.placed[0])
	assert.Equal(t, placed{Element{Kind: ElementHost, Text: "web"}, h.X, h.Y}, rec.placed[1])
	assert.Equal(t, placed{Element{Kind: ElementRouter, Text: "gw", Highlight: selection.Selected}, r.X, r.Y}, rec.placed[2])
}

func TestCanvas(t *testing.T) {
	t.Run("horizontal line", func(t *testing.T) {
		c := NewCanvas(5, 3, 1, 1)
		c.DrawLine(0, 1, 4, 1)
		assert.Equal(t, "     \n-----\n     ", c.String())
	})

	t.Run("vertical line", func(t *testing.T) {
		c := NewCanvas(3, 3, 1, 1)
		c.DrawLine(1, 0, 1, 2)
		assert.Equal(t, " | \n | \n | ", c.String())
	})

	t.Run("diagonal line", func(t *testing.T) {
		c := NewCanvas(3, 3, 10, 10)
		c.DrawLine(0, 0, 25, 25)
		assert.Equal(t, ".  \n . \n  .", c.String())
	})

	t.Run("placed elements and clipping", func(t *testing.T) {
		c := NewCanvas(8, 2, 1, 1)
		c.Place(Element{Kind: ElementHost, Text: "web"}, 0, 0)
		c.Place(Element{Kind: ElementRouter, Text: "gateway"}, 4, 1)
		c.Place(Element{Kind: ElementHost, Highlight: selection.Selectable}, 100, 100)
		assert.Equal(t, "H web   \n    R ga", c.String())
	})

	t.Run("viewport and reset", func(t *testing.T) {
		c := NewCanvas(80, 24, 10, 25)
		w, h := c.Viewport()
		assert.Equal(t, 800.0, w)
		assert.Equal(t, 600.0, h)

		c.Place(Element{Kind: ElementHost}, 0, 0)
		c.Reset()
		assert.Equal(t, strings.Repeat(" ", 80), strings.Split(c.String(), "\n")[0])
	})
}

func TestToDOT(t *testing.T) {
	g, _, _ := sample(t)

	b, err := ToDOT(g)
	require.NoError(t, err)
	out := string(b)

	assert.True(t, strings.HasPrefix(out, "graph netdiagram {"), out)
	assert.Contains(t, out, "d1 -- d2")
	assert.Contains(t, out, `"10.00,-20.00!"`)
	assert.Contains(t, out, "shape=ellipse")
	assert.Contains(t, out, "label=uplink")
	assert.Contains(t, out, "layout=neato")
}

func TestRenderSVG(t *testing.T) {
	g, _, _ := sample(t)
	src, err := ToDOT(g)
	require.NoError(t, err)

	svg, err := RenderSVG(context.Background(), src)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), []byte("not valid DOT {{{"))
	assert.Error(t, err)
}
