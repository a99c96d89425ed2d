package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/platform"
	"github.com/1broseidon/edgedock/internal/ticker"
)

// ErrEdgeOffset is returned when the leftmost monitor does not start at root
// x = 0. Both policies treat x = 0 as the edge.
var ErrEdgeOffset = errors.New("left edge monitor does not start at x = 0")

// Placer is the part of the platform backend used before the loop starts.
type Placer interface {
	EdgeBounds() (platform.Bounds, error)
	Place(platform.Bounds) error
	Size() (width, height float64, err error)
	Show() error
	Hide() error
}

// StartupConfig describes the initial placement.
type StartupConfig struct {
	Policy   string
	Geometry dock.Geometry
	Delay    time.Duration
	Clock    ticker.Clock
	Logger   *slog.Logger
}

// Prepare puts the managed window at its resting place and waits for the
// window manager to settle. The continuous policy parks the mapped window
// just off the left edge; the discrete policy puts it flush against the edge
// and unmaps it. Either way the panel starts hidden.
func Prepare(ctx context.Context, p Placer, cfg StartupConfig) (dock.Coordinate, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = ticker.WallClock()
	}

	edge, err := p.EdgeBounds()
	if err != nil {
		return dock.Coordinate{}, fmt.Errorf("failed to read monitor bounds: %w", err)
	}
	if edge.X != 0 {
		logger.Warn("left edge monitor is offset from the root origin", "monitor_x", edge.X)
		return dock.Coordinate{}, fmt.Errorf("%w (monitor x = %g)", ErrEdgeOffset, edge.X)
	}

	offset := cfg.Geometry.HiddenX()
	if cfg.Policy == dock.PolicyDiscrete {
		offset = 0
	}
	target := edge.LeftCenter(offset, cfg.Geometry.Width, cfg.Geometry.Height)

	if err := p.Place(target); err != nil {
		return dock.Coordinate{}, err
	}
	if w, h, err := p.Size(); err == nil && (w != target.Width || h != target.Height) {
		logger.Warn("window manager did not honour panel size",
			"want_width", target.Width, "want_height", target.Height,
			"width", w, "height", h)
	}
	if cfg.Policy == dock.PolicyDiscrete {
		err = p.Hide()
	} else {
		err = p.Show()
	}
	if err != nil {
		return dock.Coordinate{}, fmt.Errorf("%w: %v", dock.ErrWindowOperation, err)
	}

	logger.Info("panel placed",
		"policy", cfg.Policy,
		"x", target.X,
		"y", target.Y,
		"width", target.Width,
		"height", target.Height,
		"settle", cfg.Delay)

	if cfg.Delay > 0 {
		select {
		case <-ctx.Done():
			return dock.Coordinate{}, ctx.Err()
		case <-clock.After(cfg.Delay):
		}
	}
	return dock.Coordinate{X: target.X, Y: target.Y}, nil
}
