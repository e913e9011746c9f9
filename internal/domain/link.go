package domain

// LinkID identifies a link within a graph. IDs are never reused.
type LinkID uint64

// Link represents an undirected connection between two devices.
// A and B are interchangeable.
type Link struct {
	ID    LinkID
	A, B  DeviceID
	Label string
}

// Other returns the endpoint opposite to id
func (l *Link) Other(id DeviceID) DeviceID {
	if id == l.A {
		return l.B
	}
	return l.A
}

// Touches reports whether id is one of the link's endpoints
func (l *Link) Touches(id DeviceID) bool {
	return l.A == id || l.B == id
}
