package domain

import (
	"fmt"
	"slices"
)

// Graph is the arena owning every live device and link.
//
// Devices and links are kept in slices addressed through ID→index maps.
// Removal swaps the target with the last element, so the order returned
// by Devices and Links changes after a removal.
type Graph struct {
	devices   []*Device
	deviceIdx map[DeviceID]int
	links     []*Link
	linkIdx   map[LinkID]int

	nextDevice DeviceID
	nextLink   LinkID
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		devices:   make([]*Device, 0),
		deviceIdx: make(map[DeviceID]int),
		links:     make([]*Link, 0),
		linkIdx:   make(map[LinkID]int),
	}
}

// AddDevice creates a device at (x, y) with no links and zero velocity
func (g *Graph) AddDevice(kind DeviceKind, x, y float64) *Device {
	g.nextDevice++
	d := &Device{
		ID:   g.nextDevice,
		Kind: kind,
		X:    x,
		Y:    y,
	}
	g.deviceIdx[d.ID] = len(g.devices)
	g.devices = append(g.devices, d)
	return d
}

// RemoveDevice removes every link incident to the device, then the device itself
func (g *Graph) RemoveDevice(id DeviceID) error {
	d, ok := g.Device(id)
	if !ok {
		return fmt.Errorf("remove device %d: %w", id, ErrUnknownDevice)
	}

	for len(d.links) > 0 {
		if err := g.RemoveLink(d.links[0]); err != nil {
			return fmt.Errorf("remove device %d: %w", id, err)
		}
	}

	i := g.deviceIdx[id]
	last := len(g.devices) - 1
	g.devices[i] = g.devices[last]
	g.deviceIdx[g.devices[i].ID] = i
	g.devices[last] = nil
	g.devices = g.devices[:last]
	delete(g.deviceIdx, id)

	return nil
}

// AddLink creates a link between a and b and registers it on both devices
func (g *Graph) AddLink(a, b DeviceID) (*Link, error) {
	da, ok := g.Device(a)
	if !ok {
		return nil, fmt.Errorf("add link: device %d: %w", a, ErrUnknownDevice)
	}
	db, ok := g.Device(b)
	if !ok {
		return nil, fmt.Errorf("add link: device %d: %w", b, ErrUnknownDevice)
	}
	if a == b {
		return nil, fmt.Errorf("add link: device %d: %w", a, ErrSelfLink)
	}

	g.nextLink++
	l := &Link{ID: g.nextLink, A: a, B: b}
	g.linkIdx[l.ID] = len(g.links)
	g.links = append(g.links, l)

	da.addLink(l.ID)
	db.addLink(l.ID)

	return l, nil
}

// RemoveLink deregisters the link from both endpoints and from the graph
func (g *Graph) RemoveLink(id LinkID) error {
	i, ok := g.linkIdx[id]
	if !ok {
		return fmt.Errorf("remove link %d: %w", id, ErrUnknownLink)
	}
	l := g.links[i]

	if d, ok := g.Device(l.A); ok {
		d.removeLink(id)
	}
	if d, ok := g.Device(l.B); ok {
		d.removeLink(id)
	}

	last := len(g.links) - 1
	g.links[i] = g.links[last]
	g.linkIdx[g.links[i].ID] = i
	g.links[last] = nil
	g.links = g.links[:last]
	delete(g.linkIdx, id)

	return nil
}

// Clear removes every device, and with them every link
func (g *Graph) Clear() {
	for len(g.devices) > 0 {
		// Cannot fail: the ID comes from the live collection.
		_ = g.RemoveDevice(g.devices[0].ID)
	}
}

// Device looks up a live device
func (g *Graph) Device(id DeviceID) (*Device, bool) {
	i, ok := g.deviceIdx[id]
	if !ok {
		return nil, false
	}
	return g.devices[i], true
}

// Link looks up a live link
func (g *Graph) Link(id LinkID) (*Link, bool) {
	i, ok := g.linkIdx[id]
	if !ok {
		return nil, false
	}
	return g.links[i], true
}

// Devices returns the live devices in storage order
func (g *Graph) Devices() []*Device {
	return slices.Clone(g.devices)
}

// DeviceIDs returns the IDs of the live devices in storage order
func (g *Graph) DeviceIDs() []DeviceID {
	ids := make([]DeviceID, len(g.devices))
	for i, d := range g.devices {
		ids[i] = d.ID
	}
	return ids
}

// Links returns the live links in storage order
func (g *Graph) Links() []*Link {
	return slices.Clone(g.links)
}

// DeviceCount returns the number of live devices
func (g *Graph) DeviceCount() int { return len(g.devices) }

// LinkCount returns the number of live links
func (g *Graph) LinkCount() int { return len(g.links) }

// IncidentLinks returns the links touching the device, in incidence order
func (g *Graph) IncidentLinks(id DeviceID) []*Link {
	d, ok := g.Device(id)
	if !ok {
		return nil
	}
	links := make([]*Link, 0, len(d.links))
	for _, lid := range d.links {
		if l, ok := g.Link(lid); ok {
			links = append(links, l)
		}
	}
	return links
}

// LinkLabels returns the labels of the links touching the device
func (g *Graph) LinkLabels(id DeviceID) []string {
	links := g.IncidentLinks(id)
	labels := make([]string, len(links))
	for i, l := range links {
		labels[i] = l.Label
	}
	return labels
}

// SetDeviceLabel renames a device
func (g *Graph) SetDeviceLabel(id DeviceID, label string) error {
	d, ok := g.Device(id)
	if !ok {
		return fmt.Errorf("rename device %d: %w", id, ErrUnknownDevice)
	}
	d.Label = label
	return nil
}

// SetLinkLabel renames a link
func (g *Graph) SetLinkLabel(id LinkID, label string) error {
	l, ok := g.Link(id)
	if !ok {
		return fmt.Errorf("rename link %d: %w", id, ErrUnknownLink)
	}
	l.Label = label
	return nil
}

// Validate checks referential integrity: every link joins two distinct
// live devices, and every device's incidence set is exactly the set of
// links referencing it.
func (g *Graph) Validate() error {
	if len(g.deviceIdx) != len(g.devices) || len(g.linkIdx) != len(g.links) {
		return fmt.Errorf("index size mismatch: %d/%d devices, %d/%d links",
			len(g.deviceIdx), len(g.devices), len(g.linkIdx), len(g.links))
	}

	want := make(map[DeviceID][]LinkID, len(g.devices))
	for i, l := range g.links {
		if g.linkIdx[l.ID] != i {
			return fmt.Errorf("link %d indexed at %d, stored at %d", l.ID, g.linkIdx[l.ID], i)
		}
		if l.A == l.B {
			return fmt.Errorf("link %d: %w", l.ID, ErrSelfLink)
		}
		for _, end := range []DeviceID{l.A, l.B} {
			if _, ok := g.Device(end); !ok {
				return fmt.Errorf("link %d endpoint %d: %w", l.ID, end, ErrUnknownDevice)
			}
			want[end] = append(want[end], l.ID)
		}
	}

	for i, d := range g.devices {
		if g.deviceIdx[d.ID] != i {
			return fmt.Errorf("device %d indexed at %d, stored at %d", d.ID, g.deviceIdx[d.ID], i)
		}
		got := slices.Clone(d.links)
		exp := want[d.ID]
		slices.Sort(got)
		slices.Sort(exp)
		if !slices.Equal(got, exp) {
			return fmt.Errorf("device %d incidence %v, links reference it %v", d.ID, got, exp)
		}
	}

	return nil
}
