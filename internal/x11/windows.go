package x11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrWindowNotFound is returned when no client matches the selector.
var ErrWindowNotFound = errors.New("managed window not found")

// Rect is a window or monitor rectangle in root coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowInfo is what FindWindow matches against.
type WindowInfo struct {
	ID       xproto.Window
	Class    string
	Instance string
	Title    string
}

// Matches reports whether the window satisfies a class/title selector. Empty
// selector fields match anything; class compares case-insensitively against
// WM_CLASS class or instance, title is a substring match.
func (w WindowInfo) Matches(class, title string) bool {
	if class == "" && title == "" {
		return false
	}
	if class != "" && !strings.EqualFold(w.Class, class) && !strings.EqualFold(w.Instance, class) {
		return false
	}
	if title != "" && !strings.Contains(w.Title, title) {
		return false
	}
	return true
}

// FindWindow searches the EWMH client list for the first window matching the
// selector.
func (c *Connection) FindWindow(class, title string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get client list: %w", err)
	}
	for _, win := range clients {
		if c.windowInfo(win).Matches(class, title) {
			return win, nil
		}
	}
	return 0, fmt.Errorf("%w (class=%q title=%q)", ErrWindowNotFound, class, title)
}

func (c *Connection) windowInfo(win xproto.Window) WindowInfo {
	info := WindowInfo{ID: win}
	if wmClass, err := icccm.WmClassGet(c.XUtil, win); err == nil {
		info.Class = strings.TrimSpace(wmClass.Class)
		info.Instance = strings.TrimSpace(wmClass.Instance)
	}

	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil && strings.TrimSpace(title) != "" {
		info.Title = strings.TrimSpace(title)
	} else if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		info.Title = strings.TrimSpace(title)
	}
	return info
}

// WindowRect returns the window's position in root coordinates and its size.
func (c *Connection) WindowRect(windowID xproto.Window) (Rect, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("get geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return Rect{}, fmt.Errorf("translate coordinates: %w", err)
	}

	return Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// MoveWindow moves a window, preferring the EWMH request so the window
// manager cooperates, and falling back to a direct configure.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err == nil {
		return nil
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	values := []uint32{uint32(int32(x)), uint32(int32(y))}
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); err != nil {
		return fmt.Errorf("configure window: %w", err)
	}
	return nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, r Rect) error {
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, r.X, r.Y, r.Width, r.Height); err != nil {
		xwindow.New(c.XUtil, windowID).MoveResize(r.X, r.Y, r.Width, r.Height)
	}
	return nil
}

// MapWindow makes the window visible.
func (c *Connection) MapWindow(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// UnmapWindow hides the window.
func (c *Connection) UnmapWindow(windowID xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// KeepAbove asks the window manager to keep the window above others and out
// of the taskbar and pager.
func (c *Connection) KeepAbove(windowID xproto.Window) error {
	for _, state := range []string{"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER"} {
		if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, state); err != nil {
			return fmt.Errorf("set %s: %w", state, err)
		}
	}
	return nil
}
