//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend drives one managed X11 window.
type LinuxBackend struct {
	conn   *x11.Connection
	window xproto.Window
	scale  float64
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection and window.
func NewLinuxBackend(conn *x11.Connection, window xproto.Window, scale float64) *LinuxBackend {
	if scale <= 0 {
		scale = 1
	}
	return &LinuxBackend{conn: conn, window: window, scale: scale}
}

// OpenLinuxBackend connects to display and locates the managed window by
// WM_CLASS and/or title.
func OpenLinuxBackend(display, class, title string, scale float64) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	window, err := conn.FindWindow(class, title)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return NewLinuxBackend(conn, window, scale), nil
}

// Close closes the underlying X11 connection.
func (b *LinuxBackend) Close() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// WindowID returns the managed window.
func (b *LinuxBackend) WindowID() xproto.Window {
	return b.window
}

func (b *LinuxBackend) Sampler(kind SamplerKind) dock.Sampler {
	if kind == SamplerWindow {
		return dock.SamplerFunc(b.sampleWindow)
	}
	return dock.SamplerFunc(b.sampleRoot)
}

func (b *LinuxBackend) sampleRoot() (dock.Coordinate, error) {
	conn, err := b.connection()
	if err != nil {
		return dock.Coordinate{}, err
	}
	x, y, err := conn.QueryPointer()
	if err != nil {
		return dock.Coordinate{}, fmt.Errorf("%w: %v", dock.ErrSampleUnavailable, err)
	}
	return dock.Coordinate{X: ToLogical(x, b.scale), Y: ToLogical(y, b.scale)}, nil
}

func (b *LinuxBackend) sampleWindow() (dock.Coordinate, error) {
	conn, err := b.connection()
	if err != nil {
		return dock.Coordinate{}, err
	}
	rect, err := conn.WindowRect(b.window)
	if err != nil {
		return dock.Coordinate{}, fmt.Errorf("%w: %v", dock.ErrSampleUnavailable, err)
	}
	x, y, err := conn.QueryPointerRelative(b.window)
	if err != nil {
		return dock.Coordinate{}, fmt.Errorf("%w: %v", dock.ErrSampleUnavailable, err)
	}
	return dock.Coordinate{
		X: ToLogical(rect.X+x, b.scale),
		Y: ToLogical(rect.Y+y, b.scale),
	}, nil
}

// Position returns the window's top-left corner in logical units.
func (b *LinuxBackend) Position() (dock.Coordinate, error) {
	rect, err := b.rect()
	if err != nil {
		return dock.Coordinate{}, err
	}
	return dock.Coordinate{X: ToLogical(rect.X, b.scale), Y: ToLogical(rect.Y, b.scale)}, nil
}

func (b *LinuxBackend) SetPosition(c dock.Coordinate) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MoveWindow(b.window, ToPhysical(c.X, b.scale), ToPhysical(c.Y, b.scale))
}

func (b *LinuxBackend) Size() (float64, float64, error) {
	rect, err := b.rect()
	if err != nil {
		return 0, 0, err
	}
	return ToLogical(rect.Width, b.scale), ToLogical(rect.Height, b.scale), nil
}

func (b *LinuxBackend) ScaleFactor() float64 {
	return b.scale
}

func (b *LinuxBackend) Show() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.MapWindow(b.window)
}

func (b *LinuxBackend) Hide() error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.UnmapWindow(b.window)
}

// EdgeBounds returns the left-edge monitor in logical units.
func (b *LinuxBackend) EdgeBounds() (Bounds, error) {
	conn, err := b.connection()
	if err != nil {
		return Bounds{}, err
	}
	m, err := conn.EdgeMonitor()
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{
		X:      ToLogical(m.X, b.scale),
		Y:      ToLogical(m.Y, b.scale),
		Width:  ToLogical(m.Width, b.scale),
		Height: ToLogical(m.Height, b.scale),
	}, nil
}

// Place moves and resizes the managed window and keeps it above others.
func (b *LinuxBackend) Place(bounds Bounds) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	rect := x11.Rect{
		X:      ToPhysical(bounds.X, b.scale),
		Y:      ToPhysical(bounds.Y, b.scale),
		Width:  ToPhysical(bounds.Width, b.scale),
		Height: ToPhysical(bounds.Height, b.scale),
	}
	if err := conn.MoveResizeWindow(b.window, rect); err != nil {
		return fmt.Errorf("place window: %w", err)
	}
	return conn.KeepAbove(b.window)
}

func (b *LinuxBackend) rect() (x11.Rect, error) {
	conn, err := b.connection()
	if err != nil {
		return x11.Rect{}, err
	}
	return conn.WindowRect(b.window)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
