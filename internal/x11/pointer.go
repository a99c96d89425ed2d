package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// ErrPointerOffScreen is returned when the pointer is on another X screen.
var ErrPointerOffScreen = errors.New("pointer is not on this screen")

// QueryPointer returns the pointer position relative to the root window.
func (c *Connection) QueryPointer() (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	if !reply.SameScreen {
		return 0, 0, ErrPointerOffScreen
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// QueryPointerRelative returns the pointer position relative to windowID's
// origin. The values may be negative or exceed the window size.
func (c *Connection) QueryPointerRelative(windowID xproto.Window) (x, y int, err error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("query pointer: %w", err)
	}
	if !reply.SameScreen {
		return 0, 0, ErrPointerOffScreen
	}
	return int(reply.WinX), int(reply.WinY), nil
}
