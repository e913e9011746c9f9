package render

import (
	"netdiagram/internal/domain"
	"netdiagram/internal/selection"
)

// ElementKind says what a placed element stands for
type ElementKind int

const (
	ElementHost ElementKind = iota
	ElementRouter
	ElementLinkLabel
)

// Element is something placed on a surface at a point
type Element struct {
	Kind      ElementKind
	Text      string
	Highlight selection.Highlight
}

// Surface is a drawing target
type Surface interface {
	DrawLine(x1, y1, x2, y2 float64)
	Place(e Element, x, y float64)
	Viewport() (width, height float64)
}

// HighlightFunc reports a device's highlight; nil means no highlights
type HighlightFunc func(id domain.DeviceID) selection.Highlight

// Draw paints one frame. Links go first so devices are drawn over them.
func Draw(s Surface, g *domain.Graph, hl HighlightFunc) {
	for _, l := range g.Links() {
		a, okA := g.Device(l.A)
		b, okB := g.Device(l.B)
		if !okA || !okB {
			continue
		}
		s.DrawLine(a.X, a.Y, b.X, b.Y)
		if l.Label != "" {
			s.Place(Element{Kind: ElementLinkLabel, Text: l.Label}, (a.X+b.X)/2, (a.Y+b.Y)/2)
		}
	}

	for _, d := range g.Devices() {
		e := Element{Kind: ElementHost, Text: d.Label}
		if d.Kind == domain.KindRouter {
			e.Kind = ElementRouter
		}
		if hl != nil {
			e.Highlight = hl(d.ID)
		}
		s.Place(e, d.X, d.Y)
	}
}
