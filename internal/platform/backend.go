package platform

import (
	"fmt"
	"math"

	"github.com/1broseidon/edgedock/internal/dock"
)

// Bounds is a rectangle in logical units.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// LeftCenter returns a width x height rectangle vertically centered against
// the left edge of b, shifted horizontally by offset.
func (b Bounds) LeftCenter(offset, width, height float64) Bounds {
	return Bounds{
		X:      b.X + offset,
		Y:      b.Y + math.Floor((b.Height-height)/2),
		Width:  width,
		Height: height,
	}
}

// SamplerKind selects how the pointer is read.
type SamplerKind string

const (
	// SamplerRoot queries the pointer against the root window.
	SamplerRoot SamplerKind = "root"
	// SamplerWindow queries the pointer relative to the managed window and
	// translates it back to screen coordinates.
	SamplerWindow SamplerKind = "window"
)

// ParseSamplerKind validates a sampler name. Empty selects SamplerRoot.
func ParseSamplerKind(s string) (SamplerKind, error) {
	switch SamplerKind(s) {
	case "", SamplerRoot:
		return SamplerRoot, nil
	case SamplerWindow:
		return SamplerWindow, nil
	default:
		return "", fmt.Errorf("unknown sampler %q (want %q or %q)", s, SamplerRoot, SamplerWindow)
	}
}

// Backend abstracts the display server for one managed window.
type Backend interface {
	dock.WindowPort
	// Sampler returns a pointer sampler of the given kind.
	Sampler(kind SamplerKind) dock.Sampler
	// EdgeBounds returns the monitor that owns the left screen edge.
	EdgeBounds() (Bounds, error)
	// Place moves and resizes the window and asks the window manager to keep
	// it above other windows.
	Place(b Bounds) error
	Close()
}

// ToLogical converts physical pixels to logical units.
func ToLogical(px int, scale float64) float64 {
	if scale <= 0 {
		scale = 1
	}
	return float64(px) / scale
}

// ToPhysical converts logical units to the nearest physical pixel.
func ToPhysical(v float64, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return int(math.Round(v * scale))
}
