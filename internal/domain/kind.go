package domain

import (
	"fmt"
	"strings"
)

// DeviceKind represents the type of device in the diagram
type DeviceKind string

const (
	KindHost   DeviceKind = "host"
	KindRouter DeviceKind = "router"
)

// Valid reports whether k is one of the known kinds
func (k DeviceKind) Valid() bool {
	return k == KindHost || k == KindRouter
}

// ParseDeviceKind parses a kind name, case-insensitively
func ParseDeviceKind(s string) (DeviceKind, error) {
	k := DeviceKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}
