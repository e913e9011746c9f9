package domain

import "errors"

var (
	// ErrUnknownDevice is returned when a device ID is not a live member of the graph.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrUnknownLink is returned when a link ID is not a live member of the graph.
	ErrUnknownLink = errors.New("unknown link")

	// ErrSelfLink is returned when both endpoints of a link are the same device.
	ErrSelfLink = errors.New("link endpoints must be distinct")

	// ErrInvalidKind is returned for a device kind other than host or router.
	ErrInvalidKind = errors.New("invalid device kind")
)
