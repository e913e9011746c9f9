// Package selection implements the two-click gesture that creates a link.
//
// A gesture starts with StartBoth (no device chosen yet) or StartFrom
// (first device already chosen). Every device is highlighted as
// selectable; each chosen device is highlighted as selected. When the
// second distinct device is chosen the link is created, the protocol
// returns to idle and all highlights are cleared. Cancel abandons the
// gesture at any point.
package selection

import (
	"fmt"

	"netdiagram/internal/domain"
)

// Highlight is the visual state of a device during a gesture
type Highlight int

const (
	None Highlight = iota
	Selectable
	Selected
)

func (h Highlight) String() string {
	switch h {
	case Selectable:
		return "selectable"
	case Selected:
		return "selected"
	default:
		return "none"
	}
}

// MarshalText encodes the highlight by name
func (h Highlight) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a highlight name
func (h *Highlight) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*h = None
	case "selectable":
		*h = Selectable
	case "selected":
		*h = Selected
	default:
		return fmt.Errorf("unknown highlight %q", text)
	}
	return nil
}

// Highlighter receives highlight changes
type Highlighter interface {
	SetHighlight(id domain.DeviceID, h Highlight)
}

// Graph is the part of the graph model the protocol needs
type Graph interface {
	DeviceIDs() []domain.DeviceID
	AddLink(a, b domain.DeviceID) (*domain.Link, error)
}

// State describes where the protocol is
type State struct {
	Active bool              `json:"active"`
	Chosen []domain.DeviceID `json:"chosen"`
}

// Protocol tracks one link-creation gesture at a time
type Protocol struct {
	graph  Graph
	hl     Highlighter
	active bool
	chosen []domain.DeviceID
}

// New creates an idle protocol
func New(g Graph, hl Highlighter) *Protocol {
	return &Protocol{graph: g, hl: hl}
}

// Active reports whether a gesture is in progress
func (p *Protocol) Active() bool {
	return p.active
}

// Chosen returns the number of devices chosen so far
func (p *Protocol) Chosen() int {
	return len(p.chosen)
}

// State returns a copy of the current state
func (p *Protocol) State() State {
	return State{
		Active: p.active,
		Chosen: append([]domain.DeviceID{}, p.chosen...),
	}
}

// StartBoth begins a gesture with no device chosen. A gesture already in
// progress is restarted.
func (p *Protocol) StartBoth() {
	p.active = true
	p.chosen = p.chosen[:0]
	for _, id := range p.graph.DeviceIDs() {
		p.hl.SetHighlight(id, Selectable)
	}
}

// StartFrom begins a gesture with d already chosen
func (p *Protocol) StartFrom(d domain.DeviceID) (*domain.Link, error) {
	p.StartBoth()
	return p.Select(d)
}

// Select chooses d. It is ignored while idle or when d is already chosen.
// Choosing the second device creates the link and ends the gesture; if the
// link cannot be created the gesture still ends and the error is returned.
func (p *Protocol) Select(d domain.DeviceID) (*domain.Link, error) {
	if !p.active {
		return nil, nil
	}
	for _, c := range p.chosen {
		if c == d {
			return nil, nil
		}
	}

	p.chosen = append(p.chosen, d)
	p.hl.SetHighlight(d, Selected)
	if len(p.chosen) < 2 {
		return nil, nil
	}

	a, b := p.chosen[0], p.chosen[1]
	p.finish()
	l, err := p.graph.AddLink(a, b)
	if err != nil {
		return nil, fmt.Errorf("link %d to %d: %w", a, b, err)
	}
	return l, nil
}

// Cancel abandons the gesture without creating a link
func (p *Protocol) Cancel() {
	if !p.active {
		return
	}
	p.finish()
}

// Forget must be called when a device is removed. A gesture that already
// chose d is cancelled.
func (p *Protocol) Forget(d domain.DeviceID) bool {
	for _, c := range p.chosen {
		if c == d {
			p.finish()
			return true
		}
	}
	return false
}

func (p *Protocol) finish() {
	// chosen devices may already be gone from the graph
	for _, id := range p.chosen {
		p.hl.SetHighlight(id, None)
	}
	for _, id := range p.graph.DeviceIDs() {
		p.hl.SetHighlight(id, None)
	}
	p.active = false
	p.chosen = p.chosen[:0]
}
