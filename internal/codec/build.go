package codec

import (
	"fmt"
	"math/rand/v2"

	"netdiagram/internal/domain"
	"netdiagram/internal/layout"
)

// DefaultSpacing is the horizontal distance between imported devices
const DefaultSpacing = 128

// Placement controls where imported devices are put
type Placement struct {
	// Spacing is the horizontal step between devices and the height of
	// the vertical jitter band.
	Spacing float64
	// Viewport provides the vertical midpoint.
	Viewport layout.Viewport
	// Rand supplies the jitter; nil uses the global source.
	Rand *rand.Rand
}

func (p Placement) jitter() float64 {
	f := rand.Float64
	if p.Rand != nil {
		f = p.Rand.Float64
	}
	return (f() - 0.5) * p.Spacing
}

// Build creates a new graph from an import document. Hosts come first,
// then routers, each in listed order; the n-th device (from 1) is placed
// at x = n·spacing with y jittered around the viewport midpoint. Devices
// are labelled with their id and links with theirs. On error no graph is
// returned.
func Build(doc *Document, p Placement) (*domain.Graph, error) {
	if p.Spacing <= 0 {
		p.Spacing = DefaultSpacing
	}
	g := domain.NewGraph()
	if doc == nil {
		return g, nil
	}

	ids := make(map[string]domain.DeviceID, len(doc.Hosts)+len(doc.Routers))
	x := p.Spacing
	midY := p.Viewport.Center().Y

	add := func(kind domain.DeviceKind, recs []DeviceRecord) error {
		for _, rec := range recs {
			if _, dup := ids[rec.ID]; dup {
				return fmt.Errorf("%s %q: %w", kind, rec.ID, ErrDuplicateDevice)
			}
			d := g.AddDevice(kind, x, midY+p.jitter())
			d.Label = rec.ID
			ids[rec.ID] = d.ID
			x += p.Spacing
		}
		return nil
	}
	if err := add(domain.KindHost, doc.Hosts); err != nil {
		return nil, err
	}
	if err := add(domain.KindRouter, doc.Routers); err != nil {
		return nil, err
	}

	for _, rec := range doc.Links {
		a, ok := ids[rec.Left]
		if !ok {
			return nil, fmt.Errorf("link %q: left device %q: %w", rec.ID, rec.Left, ErrUnknownReference)
		}
		b, ok := ids[rec.Right]
		if !ok {
			return nil, fmt.Errorf("link %q: right device %q: %w", rec.ID, rec.Right, ErrUnknownReference)
		}
		l, err := g.AddLink(a, b)
		if err != nil {
			return nil, fmt.Errorf("link %q: %w", rec.ID, err)
		}
		l.Label = rec.ID
	}

	return g, nil
}

// Export describes the graph in the export schema, devices in graph order
func Export(g *domain.Graph) *ExportDocument {
	doc := &ExportDocument{
		Hosts:   []ExportDevice{},
		Routers: []ExportDevice{},
		Links:   []any{},
		Flows:   []any{},
	}
	for _, d := range g.Devices() {
		entry := ExportDevice{ID: d.Label, Links: g.LinkLabels(d.ID)}
		switch d.Kind {
		case domain.KindRouter:
			doc.Routers = append(doc.Routers, entry)
		default:
			doc.Hosts = append(doc.Hosts, entry)
		}
	}
	return doc
}
