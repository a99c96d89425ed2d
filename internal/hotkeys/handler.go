package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/1broseidon/edgedock/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler manages global keyboard shortcuts on a dedicated X connection, so
// the event loop never competes with the dock's per-tick queries.
type Handler struct {
	conn   *x11.Connection
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler opens its own connection to display and prepares key grabs.
func NewHandler(display string, logger *slog.Logger) (*Handler, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Initialize keybind module (required for global hotkeys)
	keybind.Initialize(conn.XUtil)

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{conn: conn, logger: logger}, nil
}

// RegisterFunc registers an arbitrary hotkey callback, e.g. "Mod4-grave".
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.logger.Debug("hotkey pressed", "keys", keySequence)
		callback()
	}).Connect(h.conn.XUtil, h.conn.Root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to register hotkey %q: %w", keySequence, err)
	}
	return nil
}

// Run dispatches key events until ctx is cancelled or the event loop ends on
// its own.
func (h *Handler) Run(ctx context.Context) {
	done := make(chan struct{})
	defer close(done)
	go quitOnCancel(ctx, done, func() { xevent.Quit(h.conn.XUtil) })
	xevent.Main(h.conn.XUtil)
}

// quitOnCancel calls quit when ctx ends first. Once done is closed the event
// loop is gone and quit must not touch the connection.
func quitOnCancel(ctx context.Context, done <-chan struct{}, quit func()) {
	select {
	case <-ctx.Done():
		quit()
	case <-done:
	}
}

// Close releases the hotkey connection.
func (h *Handler) Close() {
	h.conn.Close()
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = ignoreMasks(
		uint16(xproto.ModMaskLock),
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// ignoreMasks returns every combination of the lock modifiers, so a grab
// fires regardless of CapsLock, NumLock or ScrollLock state.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
