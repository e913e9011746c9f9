package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTarget is returned for a malformed target string
var ErrInvalidTarget = errors.New("invalid target")

// TargetKind says which element a target names
type TargetKind string

const (
	TargetCanvas TargetKind = "canvas"
	TargetDevice TargetKind = "device"
	TargetLink   TargetKind = "link"
)

// Target names the canvas, a device or a link
type Target struct {
	Kind TargetKind
	ID   uint64
}

// CanvasTarget is the background of the diagram
var CanvasTarget = Target{Kind: TargetCanvas}

// DeviceTarget names a device
func DeviceTarget(id uint64) Target { return Target{Kind: TargetDevice, ID: id} }

// LinkTarget names a link
func LinkTarget(id uint64) Target { return Target{Kind: TargetLink, ID: id} }

func (t Target) String() string {
	if t.Kind == TargetCanvas {
		return string(TargetCanvas)
	}
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// ParseTarget parses "canvas", "device:<id>" or "link:<id>"
func ParseTarget(s string) (Target, error) {
	if s == string(TargetCanvas) {
		return CanvasTarget, nil
	}
	kind, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %q: %v", ErrInvalidTarget, s, err)
	}
	switch TargetKind(kind) {
	case TargetDevice, TargetLink:
		return Target{Kind: TargetKind(kind), ID: id}, nil
	}
	return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, s)
}
