package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"netdiagram/internal/domain"
)

// Engine runs the discrete-time force simulation over a graph.
// It is not safe for concurrent use.
type Engine struct {
	params Params

	// collective is the drift velocity shared by every linked device,
	// driven by the centering spring. It persists across steps.
	collective r2.Vec
}

// Stats summarises one simulation step
type Stats struct {
	// Linked is the number of devices that took part in the step.
	Linked int `json:"linked"`
	// Kinetic is the sum of ½|v|² over linked devices after the step,
	// excluding the collective drift.
	Kinetic float64 `json:"kinetic"`
}

// NewEngine creates an engine with the given constants. A non-positive
// MinDistance falls back to the default.
func NewEngine(p Params) *Engine {
	e := &Engine{}
	e.SetParams(p)
	return e
}

// Params returns the current constants
func (e *Engine) Params() Params {
	return e.params
}

// SetParams replaces the constants; the collective velocity is kept
func (e *Engine) SetParams(p Params) {
	if p.MinDistance <= 0 {
		p.MinDistance = DefaultParams().MinDistance
	}
	e.params = p
}

// Collective returns the current centering drift velocity
func (e *Engine) Collective() r2.Vec {
	return e.collective
}

// Reset zeroes the collective velocity, e.g. after the graph is replaced
func (e *Engine) Reset() {
	e.collective = r2.Vec{}
}

// Step advances the simulation by one frame
func (e *Engine) Step(g *domain.Graph, vp Viewport) Stats {
	var linked []*domain.Device
	for _, d := range g.Devices() {
		if d.Linked() {
			linked = append(linked, d)
		}
	}

	e.repel(linked)
	e.spring(g)
	e.center(linked, vp)

	var stats Stats
	stats.Linked = len(linked)
	for _, d := range linked {
		v := velocity(d)
		d.X += v.X + e.collective.X
		d.Y += v.Y + e.collective.Y
		stats.Kinetic += 0.5 * r2.Norm2(v)
	}
	return stats
}

// Run advances the simulation by n frames and returns the last step's stats
func (e *Engine) Run(g *domain.Graph, vp Viewport, n int) Stats {
	var stats Stats
	for range n {
		stats = e.Step(g, vp)
	}
	return stats
}

func (e *Engine) repel(linked []*domain.Device) {
	for i, a := range linked {
		for _, b := range linked[i+1:] {
			u, r := direction(position(a), position(b))
			r = math.Max(r, e.params.MinDistance)
			f := -e.params.Repulsion / (r * r)
			push := r2.Scale(f, u)
			accelerate(a, push)
			accelerate(b, r2.Scale(-1, push))
		}
	}
}

func (e *Engine) spring(g *domain.Graph) {
	for _, l := range g.Links() {
		a, okA := g.Device(l.A)
		b, okB := g.Device(l.B)
		if !okA || !okB {
			continue
		}
		u, r := direction(position(a), position(b))
		f := e.params.Spring * (r - e.params.RestLength)
		damp := r2.Scale(e.params.Damping, r2.Sub(velocity(b), velocity(a)))
		pull := r2.Add(r2.Scale(f, u), damp)
		accelerate(a, pull)
		accelerate(b, r2.Scale(-1, pull))
	}
}

func (e *Engine) center(linked []*domain.Device, vp Viewport) {
	if len(linked) == 0 {
		return
	}
	var c r2.Vec
	for _, d := range linked {
		c = r2.Add(c, position(d))
	}
	c = r2.Scale(1/float64(len(linked)), c)

	pull := r2.Scale(e.params.Spring, r2.Sub(vp.Center(), c))
	drag := r2.Scale(e.params.Damping, e.collective)
	e.collective = r2.Add(e.collective, r2.Sub(pull, drag))
}

// direction returns the unit vector from p to q and the distance between
// them. Coincident points get +x so they separate instead of producing NaN.
func direction(p, q r2.Vec) (r2.Vec, float64) {
	delta := r2.Sub(q, p)
	r := r2.Norm(delta)
	if r == 0 {
		return r2.Vec{X: 1}, 0
	}
	return r2.Scale(1/r, delta), r
}

func position(d *domain.Device) r2.Vec {
	return r2.Vec{X: d.X, Y: d.Y}
}

func velocity(d *domain.Device) r2.Vec {
	return r2.Vec{X: d.VX, Y: d.VY}
}

func accelerate(d *domain.Device, dv r2.Vec) {
	d.VX += dv.X
	d.VY += dv.Y
}
