package layout

import "gonum.org/v1/gonum/spatial/r2"

// Params holds the tunable constants of the simulation
type Params struct {
	// Repulsion is the inverse-square constant between linked devices.
	Repulsion float64 `yaml:"repulsion" toml:"repulsion" json:"repulsion"`
	// Spring is the spring constant of links and of the centering spring.
	Spring float64 `yaml:"spring" toml:"spring" json:"spring"`
	// RestLength is the preferred link length.
	RestLength float64 `yaml:"rest_length" toml:"rest_length" json:"rest_length"`
	// Damping resists relative velocity along links and collective drift.
	Damping float64 `yaml:"damping" toml:"damping" json:"damping"`
	// MinDistance is the smallest separation used when computing forces.
	MinDistance float64 `yaml:"min_distance" toml:"min_distance" json:"min_distance"`
}

// DefaultParams returns the constants the editor ships with
func DefaultParams() Params {
	return Params{
		Repulsion:   100000,
		Spring:      0.02,
		RestLength:  0,
		Damping:     0.2,
		MinDistance: 1,
	}
}

// Viewport is the visible area the diagram is centered in
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the midpoint of the viewport
func (v Viewport) Center() r2.Vec {
	return r2.Vec{X: v.Width / 2, Y: v.Height / 2}
}
