package ui

import (
	"errors"
	"fmt"
	"slices"
)

// ErrNoOption is returned when invoking a label the menu does not offer
var ErrNoOption = errors.New("no such menu option")

// Menu is a context menu the editor populates
type Menu interface {
	AddOption(label string, onSelect func(x, y float64))
}

type option struct {
	label    string
	onSelect func(x, y float64)
}

// ContextMenu is an in-memory Menu that can be opened and invoked
type ContextMenu struct {
	options []option
	open    bool
	x, y    float64
}

// NewContextMenu creates an empty, closed menu
func NewContextMenu() *ContextMenu {
	return &ContextMenu{}
}

// AddOption appends an option; labels keep insertion order
func (m *ContextMenu) AddOption(label string, onSelect func(x, y float64)) {
	m.options = append(m.options, option{label: label, onSelect: onSelect})
}

// Options returns the option labels in order
func (m *ContextMenu) Options() []string {
	labels := make([]string, len(m.options))
	for i, o := range m.options {
		labels[i] = o.label
	}
	return labels
}

// Open shows the menu at (x, y)
func (m *ContextMenu) Open(x, y float64) {
	m.open = true
	m.x, m.y = x, y
}

// IsOpen reports whether the menu is showing
func (m *ContextMenu) IsOpen() bool {
	return m.open
}

// Close dismisses the menu without choosing anything
func (m *ContextMenu) Close() {
	m.open = false
}

// Invoke runs the option's callback with the position the menu was opened
// at, then closes the menu
func (m *ContextMenu) Invoke(label string) error {
	i := slices.IndexFunc(m.options, func(o option) bool { return o.label == label })
	if i < 0 {
		return fmt.Errorf("%q: %w", label, ErrNoOption)
	}
	x, y := m.x, m.y
	m.open = false
	if cb := m.options[i].onSelect; cb != nil {
		cb(x, y)
	}
	return nil
}
