package render

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/multi"

	"netdiagram/internal/domain"
)

// Attrs holds graphviz attributes for a graph, node or line
type Attrs map[string]string

// Attributes implements encoding.Attributer
func (a Attrs) Attributes() (enc []encoding.Attribute) {
	for k, v := range a {
		enc = append(enc, encoding.Attribute{Key: k, Value: v})
	}
	return enc
}

var (
	_ encoding.Attributer = Attrs{}
	_ encoding.Attributer = dotNode{}
	_ encoding.Attributer = dotLine{}
)

type dotGraph struct {
	*multi.UndirectedGraph
	graphAttrs, nodeAttrs, edgeAttrs Attrs
}

func (g *dotGraph) DOTID() string { return "netdiagram" }
func (g *dotGraph) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return g.graphAttrs, g.nodeAttrs, g.edgeAttrs
}

type dotNode struct {
	id int64
	Attrs
}

func (n dotNode) ID() int64     { return n.id }
func (n dotNode) DOTID() string { return fmt.Sprintf("d%d", n.id) }

type dotLine struct {
	from, to graph.Node
	id       int64
	Attrs
}

func (l dotLine) From() graph.Node { return l.from }
func (l dotLine) To() graph.Node   { return l.to }
func (l dotLine) ID() int64        { return l.id }
func (l dotLine) ReversedLine() graph.Line {
	l.from, l.to = l.to, l.from
	return l
}

// ToDOT describes the graph in the DOT language. Positions are pinned in
// points with the y axis flipped, for the neato engine.
func ToDOT(g *domain.Graph) ([]byte, error) {
	dg := &dotGraph{
		UndirectedGraph: multi.NewUndirectedGraph(),
		graphAttrs: Attrs{
			"layout":     "neato",
			"inputscale": "72",
			"splines":    "true",
			"bgcolor":    "transparent",
		},
		nodeAttrs: Attrs{"fontname": "Helvetica", "fontsize": "12"},
		edgeAttrs: Attrs{"fontname": "Helvetica", "fontsize": "10"},
	}

	nodes := make(map[domain.DeviceID]dotNode, g.DeviceCount())
	for _, d := range g.Devices() {
		shape := "box"
		if d.Kind == domain.KindRouter {
			shape = "ellipse"
		}
		n := dotNode{id: int64(d.ID), Attrs: Attrs{
			"label": d.Label,
			"shape": shape,
			"pos":   fmt.Sprintf("%.2f,%.2f!", d.X, -d.Y),
		}}
		nodes[d.ID] = n
		dg.AddNode(n)
	}

	for _, l := range g.Links() {
		a, okA := nodes[l.A]
		b, okB := nodes[l.B]
		if !okA || !okB {
			return nil, fmt.Errorf("link %d: %w", l.ID, domain.ErrUnknownDevice)
		}
		dg.SetLine(dotLine{from: a, to: b, id: int64(l.ID), Attrs: Attrs{"label": l.Label}})
	}

	b, err := dot.MarshalMulti(dg, "", "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal DOT: %w", err)
	}
	return b, nil
}
