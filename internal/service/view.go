package service

import (
	"netdiagram/internal/domain"
	"netdiagram/internal/layout"
	"netdiagram/internal/selection"
)

// DeviceView is the JSON form of a device
type DeviceView struct {
	ID        domain.DeviceID     `json:"id"`
	Kind      domain.DeviceKind   `json:"kind"`
	Label     string              `json:"label"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Links     []domain.LinkID     `json:"links"`
	Highlight selection.Highlight `json:"highlight"`
}

// LinkView is the JSON form of a link
type LinkView struct {
	ID    domain.LinkID   `json:"id"`
	A     domain.DeviceID `json:"a"`
	B     domain.DeviceID `json:"b"`
	Label string          `json:"label"`
}

// SelectionView is the payload of selection events
type SelectionView struct {
	State      selection.State                         `json:"state"`
	Highlights map[domain.DeviceID]selection.Highlight `json:"highlights"`
}

// GraphView is the whole session as served by the API
type GraphView struct {
	Session   string          `json:"session"`
	Frame     uint64          `json:"frame"`
	Viewport  layout.Viewport `json:"viewport"`
	Devices   []DeviceView    `json:"devices"`
	Links     []LinkView      `json:"links"`
	Selection selection.State `json:"selection"`
}

// Position is a device position in a frame event
type Position struct {
	ID domain.DeviceID `json:"id"`
	X  float64         `json:"x"`
	Y  float64         `json:"y"`
}

// FrameView is the payload of frame events
type FrameView struct {
	Frame     uint64       `json:"frame"`
	Stats     layout.Stats `json:"stats"`
	Positions []Position   `json:"positions"`
}

// View returns the current graph with highlights and selection state
func (s *Session) View() GraphView {
	v := GraphView{
		Session:   s.id,
		Frame:     s.frame,
		Viewport:  s.viewport,
		Devices:   make([]DeviceView, 0, s.graph.DeviceCount()),
		Links:     make([]LinkView, 0, s.graph.LinkCount()),
		Selection: s.protocol.State(),
	}
	for _, d := range s.graph.Devices() {
		v.Devices = append(v.Devices, deviceView(d, s.highlights))
	}
	for _, l := range s.graph.Links() {
		v.Links = append(v.Links, linkView(l))
	}
	return v
}

// FrameView returns the positions of linked devices, which are the only
// ones that move
func (s *Session) FrameView(stats layout.Stats) FrameView {
	f := FrameView{Frame: s.frame, Stats: stats, Positions: make([]Position, 0, stats.Linked)}
	for _, d := range s.graph.Devices() {
		if d.Linked() {
			f.Positions = append(f.Positions, Position{ID: d.ID, X: d.X, Y: d.Y})
		}
	}
	return f
}

// DescribeDevice returns the view of a single device
func (s *Session) DescribeDevice(id domain.DeviceID) (DeviceView, bool) {
	d, ok := s.graph.Device(id)
	if !ok {
		return DeviceView{}, false
	}
	return deviceView(d, s.highlights), true
}

// DescribeLink returns the view of a single link
func (s *Session) DescribeLink(id domain.LinkID) (LinkView, bool) {
	l, ok := s.graph.Link(id)
	if !ok {
		return LinkView{}, false
	}
	return linkView(l), true
}

func deviceView(d *domain.Device, hl highlights) DeviceView {
	return DeviceView{
		ID:        d.ID,
		Kind:      d.Kind,
		Label:     d.Label,
		X:         d.X,
		Y:         d.Y,
		Links:     d.Links(),
		Highlight: hl[d.ID],
	}
}

func linkView(l *domain.Link) LinkView {
	return LinkView{ID: l.ID, A: l.A, B: l.B, Label: l.Label}
}
