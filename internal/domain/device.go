package domain

import "slices"

// DeviceID identifies a device within a graph. IDs are never reused.
type DeviceID uint64

// Device represents a host or router in the diagram
type Device struct {
	ID    DeviceID
	Kind  DeviceKind
	Label string

	// Position and velocity in viewport coordinates. Velocity is only
	// meaningful while the device has at least one link.
	X, Y   float64
	VX, VY float64

	links []LinkID
}

// Links returns the IDs of the links incident to the device
func (d *Device) Links() []LinkID {
	return slices.Clone(d.links)
}

// Degree returns the number of incident links
func (d *Device) Degree() int {
	return len(d.links)
}

// Linked reports whether the device takes part in the layout simulation
func (d *Device) Linked() bool {
	return len(d.links) > 0
}

func (d *Device) addLink(id LinkID) {
	d.links = append(d.links, id)
}

// removeLink swap-removes id from the incidence set. A device left with
// no links stops moving.
func (d *Device) removeLink(id LinkID) bool {
	i := slices.Index(d.links, id)
	if i < 0 {
		return false
	}
	last := len(d.links) - 1
	d.links[i] = d.links[last]
	d.links = d.links[:last]

	if len(d.links) == 0 {
		d.VX, d.VY = 0, 0
	}
	return true
}
