// Package dock implements the edge-detection state machine that decides when a
// panel parked off the left screen edge should slide or toggle into view.
//
// The package never talks to a display server. Pointer samples come from a
// Sampler and window effects go through a WindowPort, both supplied by the host.
package dock

import "fmt"

// Coordinate is a point in logical (scale-independent) screen units.
type Coordinate struct {
	X float64
	Y float64
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.X, c.Y)
}

// Geometry holds the fixed panel dimensions.
type Geometry struct {
	Width    float64
	Height   float64
	Velocity float64 // distance per tick for the continuous policy
}

const (
	DefaultWidth  = 180.0
	DefaultHeight = 800.0
)

// DefaultGeometry returns the stock 180x800 panel sliding a fifth of its width per tick.
func DefaultGeometry() Geometry {
	return Geometry{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Velocity: DefaultWidth / 5,
	}
}

// HiddenX is the resting x position of a fully hidden panel.
func (g Geometry) HiddenX() float64 {
	return -g.Width
}
