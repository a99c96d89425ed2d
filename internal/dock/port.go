package dock

import (
	"errors"
	"fmt"
)

var (
	// ErrSampleUnavailable means the pointer position could not be read this tick.
	ErrSampleUnavailable = errors.New("pointer sample unavailable")
	// ErrWindowOperation wraps any failed call into the host window layer.
	ErrWindowOperation = errors.New("window operation failed")
)

// Sampler reads the current pointer position in logical units. Any error is
// treated by callers as "no new information" for the tick.
type Sampler interface {
	Sample() (Coordinate, error)
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc func() (Coordinate, error)

func (f SamplerFunc) Sample() (Coordinate, error) { return f() }

// WindowPort is the host windowing layer for the single managed window.
// All values are logical units; the port does any platform conversion.
type WindowPort interface {
	Position() (Coordinate, error)
	SetPosition(Coordinate) error
	Size() (width, height float64, err error)
	ScaleFactor() float64
	Show() error
	Hide() error
}

// Apply performs an action against the port. window is the position the
// decision was based on. Failures are wrapped with ErrWindowOperation and
// leave the state machine untouched.
func Apply(port WindowPort, a Action, window Coordinate) error {
	var err error
	switch a.Kind {
	case ActionNone:
		return nil
	case ActionSlideIn, ActionSlideOut:
		err = port.SetPosition(Coordinate{X: window.X + a.Delta, Y: window.Y})
	case ActionShow:
		err = port.Show()
	case ActionHide:
		err = port.Hide()
	default:
		return fmt.Errorf("unsupported action %v", a.Kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWindowOperation, a, err)
	}
	return nil
}
