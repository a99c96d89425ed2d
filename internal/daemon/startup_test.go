package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (p *fakePort) EdgeBounds() (platform.Bounds, error) { return p.edge, nil }

func (p *fakePort) Place(b platform.Bounds) error {
	p.placed = append(p.placed, b)
	p.pos = dock.Coordinate{X: b.X, Y: b.Y}
	return nil
}

var testMonitor = platform.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}

func TestPrepare_ContinuousParksOffscreen(t *testing.T) {
	port := &fakePort{edge: testMonitor}
	clock := &fakeClock{now: time.Unix(0, 0)}

	got, err := Prepare(context.Background(), port, StartupConfig{
		Policy:   dock.PolicyContinuous,
		Geometry: dock.DefaultGeometry(),
		Delay:    time.Second,
		Clock:    clock,
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	require.Len(t, port.placed, 1)
	assert.Equal(t, platform.Bounds{X: -180, Y: 140, Width: 180, Height: 800}, port.placed[0])
	assert.Equal(t, dock.Coordinate{X: -180, Y: 140}, got)
	assert.Equal(t, 1, port.shows)
	assert.Zero(t, port.hides)
	assert.Equal(t, time.Unix(1, 0), clock.now, "should wait for the settle delay")
}

func TestPrepare_DiscreteUnmapsAtEdge(t *testing.T) {
	port := &fakePort{edge: testMonitor}

	got, err := Prepare(context.Background(), port, StartupConfig{
		Policy:   dock.PolicyDiscrete,
		Geometry: dock.DefaultGeometry(),
		Clock:    &fakeClock{},
		Logger:   quietLogger(),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.X)
	assert.Equal(t, 1, port.hides)
	assert.Zero(t, port.shows)
}

func TestPrepare_ShowFailureIsWindowOperation(t *testing.T) {
	port := &fakePort{edge: testMonitor, failShow: true}

	_, err := Prepare(context.Background(), port, StartupConfig{
		Policy:   dock.PolicyContinuous,
		Geometry: dock.DefaultGeometry(),
		Logger:   quietLogger(),
	})
	assert.True(t, errors.Is(err, dock.ErrWindowOperation), "got %v", err)
}

func TestPrepare_RejectsOffsetEdge(t *testing.T) {
	port := &fakePort{edge: platform.Bounds{X: 1920, Y: 0, Width: 2560, Height: 1440}}

	_, err := Prepare(context.Background(), port, StartupConfig{
		Policy:   dock.PolicyContinuous,
		Geometry: dock.DefaultGeometry(),
		Clock:    &fakeClock{},
		Logger:   quietLogger(),
	})
	assert.ErrorIs(t, err, ErrEdgeOffset)
	assert.Empty(t, port.placed)
	assert.Zero(t, port.shows)
}

func TestPrepare_CancelledDuringSettle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	port := &fakePort{edge: testMonitor}
	_, err := Prepare(ctx, port, StartupConfig{
		Policy:   dock.PolicyContinuous,
		Geometry: dock.DefaultGeometry(),
		Delay:    time.Hour,
		Clock:    blockingClock{},
		Logger:   quietLogger(),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

type blockingClock struct{}

func (blockingClock) Now() time.Time { return time.Time{} }
func (blockingClock) After(time.Duration) <-chan time.Time { return nil }
