package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   outputName,
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		})
	}

	return monitors, nil
}

// EdgeMonitor returns the monitor that owns the left screen edge (root x = 0).
// Without RandR the whole root window is treated as one monitor.
func (c *Connection) EdgeMonitor() (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err == nil && len(monitors) > 0 {
		return LeftEdgeMonitor(monitors), nil
	}

	geom, gerr := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if gerr != nil {
		if err != nil {
			return Monitor{}, fmt.Errorf("no monitors (%v) and root geometry failed: %w", err, gerr)
		}
		return Monitor{}, fmt.Errorf("root geometry failed: %w", gerr)
	}
	return Monitor{Name: "root", Width: int(geom.Width), Height: int(geom.Height)}, nil
}

// LeftEdgeMonitor picks the leftmost monitor, breaking ties by the one whose
// vertical span starts highest.
func LeftEdgeMonitor(monitors []Monitor) Monitor {
	best := monitors[0]
	for _, m := range monitors[1:] {
		if m.X < best.X || (m.X == best.X && m.Y < best.Y) {
			best = m
		}
	}
	return best
}
