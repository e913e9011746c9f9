package domain

import "fmt"

// Snapshot is a value copy of a graph: devices with their positions and
// links with their endpoints. Velocities are not captured.
type Snapshot struct {
	Devices []DeviceState `json:"devices"`
	Links   []LinkState   `json:"links"`
}

// DeviceState is the saved form of a device
type DeviceState struct {
	ID    DeviceID   `json:"id"`
	Kind  DeviceKind `json:"kind"`
	Label string     `json:"label"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
}

// LinkState is the saved form of a link
type LinkState struct {
	ID    LinkID   `json:"id"`
	Label string   `json:"label"`
	A     DeviceID `json:"a"`
	B     DeviceID `json:"b"`
}

// Snapshot captures the current graph
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Devices: make([]DeviceState, 0, len(g.devices)),
		Links:   make([]LinkState, 0, len(g.links)),
	}
	for _, d := range g.devices {
		s.Devices = append(s.Devices, DeviceState{
			ID:    d.ID,
			Kind:  d.Kind,
			Label: d.Label,
			X:     d.X,
			Y:     d.Y,
		})
	}
	for _, l := range g.links {
		s.Links = append(s.Links, LinkState{
			ID:    l.ID,
			Label: l.Label,
			A:     l.A,
			B:     l.B,
		})
	}
	return s
}

// FromSnapshot rebuilds a graph from a snapshot. Devices and links get
// fresh IDs in snapshot order; link endpoints are resolved through the
// saved device IDs.
func FromSnapshot(s *Snapshot) (*Graph, error) {
	g := NewGraph()
	if s == nil {
		return g, nil
	}

	ids := make(map[DeviceID]DeviceID, len(s.Devices))
	for _, ds := range s.Devices {
		if !ds.Kind.Valid() {
			return nil, fmt.Errorf("restore device %d: %w: %q", ds.ID, ErrInvalidKind, ds.Kind)
		}
		if _, dup := ids[ds.ID]; dup {
			return nil, fmt.Errorf("restore device %d: duplicate id", ds.ID)
		}
		d := g.AddDevice(ds.Kind, ds.X, ds.Y)
		d.Label = ds.Label
		ids[ds.ID] = d.ID
	}

	for _, ls := range s.Links {
		a, ok := ids[ls.A]
		if !ok {
			return nil, fmt.Errorf("restore link %d: device %d: %w", ls.ID, ls.A, ErrUnknownDevice)
		}
		b, ok := ids[ls.B]
		if !ok {
			return nil, fmt.Errorf("restore link %d: device %d: %w", ls.ID, ls.B, ErrUnknownDevice)
		}
		l, err := g.AddLink(a, b)
		if err != nil {
			return nil, fmt.Errorf("restore link %d: %w", ls.ID, err)
		}
		l.Label = ls.Label
	}

	return g, nil
}
