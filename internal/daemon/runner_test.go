package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// fakePort is an in-memory window that records every call.
type fakePort struct {
	pos      dock.Coordinate
	mapped   bool
	moves    []dock.Coordinate
	shows    int
	hides    int
	placed   []platform.Bounds
	edge     platform.Bounds
	failMove bool
	failPos  bool
	failShow bool
}

func (p *fakePort) Position() (dock.Coordinate, error) {
	if p.failPos {
		return dock.Coordinate{}, errors.New("bad drawable")
	}
	return p.pos, nil
}

func (p *fakePort) SetPosition(c dock.Coordinate) error {
	if p.failMove {
		return errors.New("configure refused")
	}
	p.moves = append(p.moves, c)
	p.pos = c
	return nil
}

func (p *fakePort) Size() (float64, float64, error) { return dock.DefaultWidth, dock.DefaultHeight, nil }
func (p *fakePort) ScaleFactor() float64 { return 1 }

func (p *fakePort) Show() error {
	if p.failShow {
		return errors.New("map refused")
	}
	p.shows++
	p.mapped = true
	return nil
}

func (p *fakePort) Hide() error {
	p.hides++
	p.mapped = false
	return nil
}

// script replays pointer x positions; a NaN entry is a failed read.
type script struct {
	xs    []float64
	calls int
}

func (s *script) Sample() (dock.Coordinate, error) {
	i := s.calls
	s.calls++
	if i >= len(s.xs) {
		i = len(s.xs) - 1
	}
	if math.IsNaN(s.xs[i]) {
		return dock.Coordinate{}, dock.ErrSampleUnavailable
	}
	return dock.Coordinate{X: s.xs[i], Y: 400}, nil
}

func repeat(x float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x
	}
	return out
}

func newTestRunner(policy dock.DecisionPolicy, initial dock.Visibility, sampler dock.Sampler, port dock.WindowPort) *Runner {
	m := dock.NewEdgeStateMachine(policy, dock.DefaultGeometry(), initial)
	return NewRunner(RunnerConfig{Clock: &fakeClock{}, Logger: quietLogger()}, m, sampler, port)
}

func TestRunner_ContinuousSlidesIn(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: -180, Y: 500}}
	r := newTestRunner(dock.ContinuousSlide{Threshold: 15}, dock.Hidden, &script{xs: repeat(0, 30)}, port)

	for i := 0; i < 20; i++ {
		r.TickNow()
	}

	require.Len(t, port.moves, 5)
	assert.Equal(t, dock.Coordinate{X: -144, Y: 500}, port.moves[0])
	assert.Equal(t, dock.Coordinate{X: 0, Y: 500}, port.pos)

	st := r.Status()
	assert.Equal(t, "shown", st.Visibility)
	assert.Equal(t, uint64(20), st.Ticks)
	assert.Equal(t, "slide-in(+36)", st.LastAction)
	assert.Equal(t, uint32(20), st.EdgeHits)
	assert.Equal(t, 0.0, st.WindowX)
}

func TestRunner_ContinuousSlidesOut(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0, Y: 500}}
	r := newTestRunner(dock.ContinuousSlide{Threshold: 15}, dock.Shown, &script{xs: repeat(600, 10)}, port)

	for i := 0; i < 10; i++ {
		r.TickNow()
	}

	assert.Equal(t, -180.0, port.pos.X)
	assert.Equal(t, "hidden", r.Status().Visibility)
}

func TestRunner_SampleFailureLeavesCounters(t *testing.T) {
	nan := math.NaN()
	port := &fakePort{pos: dock.Coordinate{X: 0}}
	s := &script{xs: []float64{0, 0, 0, nan, nan, nan}}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, s, port)

	for i := 0; i < 6; i++ {
		r.TickNow()
	}

	st := r.Status()
	assert.Equal(t, uint32(3), st.EdgeHits)
	assert.Equal(t, uint64(3), st.SampleFailures)
	assert.Equal(t, "hidden", st.Visibility)
	assert.Zero(t, port.shows)
}

func TestRunner_DiscreteShowsThenHides(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0}}
	xs := append(repeat(0, 6), repeat(400, 6)...)
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: xs}, port)

	for i := 0; i < 4; i++ {
		r.TickNow()
	}
	assert.Equal(t, 1, port.shows)
	assert.True(t, port.mapped)

	for i := 0; i < 8; i++ {
		r.TickNow()
	}
	assert.Equal(t, 1, port.shows)
	assert.Equal(t, 1, port.hides)
	assert.False(t, port.mapped)
	assert.Equal(t, "hide", r.Status().LastAction)
}

func TestRunner_WindowFailureIsLoggedAndSkipped(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: -180}, failMove: true}
	r := newTestRunner(dock.ContinuousSlide{Threshold: 15}, dock.Hidden, &script{xs: repeat(0, 20)}, port)

	assert.NotPanics(t, func() {
		for i := 0; i < 16; i++ {
			r.TickNow()
		}
	})

	st := r.Status()
	assert.Equal(t, uint64(2), st.WindowFailures)
	assert.Equal(t, uint32(16), st.EdgeHits)
	assert.Equal(t, -180.0, port.pos.X)
}

func TestRunner_PositionFailureStillCounts(t *testing.T) {
	port := &fakePort{failPos: true}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: repeat(0, 10)}, port)

	for i := 0; i < 6; i++ {
		r.TickNow()
	}

	st := r.Status()
	assert.Equal(t, uint32(6), st.EdgeHits)
	assert.Equal(t, uint64(6), st.WindowFailures)
	assert.Zero(t, port.shows)
}

func TestRunner_RequestForcesVisibility(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0}}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: repeat(0, 10)}, port)

	r.TickNow()
	r.TickNow()
	require.NoError(t, r.Request(CommandShow))
	r.TickNow()

	assert.Equal(t, 1, port.shows)
	st := r.Status()
	assert.Equal(t, "shown", st.Visibility)
	// Counters were cleared by the forced show and then saw one sample.
	assert.Equal(t, uint32(1), st.EdgeHits)

	require.NoError(t, r.Request(CommandHide))
	r.TickNow()
	assert.Equal(t, 1, port.hides)
	assert.Equal(t, "hidden", r.Status().Visibility)
}

func TestRunner_RequestContinuousJumps(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: -180, Y: 500}}
	r := newTestRunner(dock.ContinuousSlide{Threshold: 15}, dock.Hidden, &script{xs: repeat(90, 10)}, port)

	r.TickNow()
	require.NoError(t, r.Request(CommandShow))
	r.TickNow()

	require.NotEmpty(t, port.moves)
	assert.Equal(t, dock.Coordinate{X: 0, Y: 500}, port.moves[0])
	assert.Equal(t, "shown", r.Status().Visibility)
}

func TestRunner_Toggle(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0}}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: repeat(400, 10)}, port)

	require.NoError(t, r.Toggle())
	r.TickNow()
	assert.Equal(t, "shown", r.Status().Visibility)

	require.NoError(t, r.Toggle())
	r.TickNow()
	assert.Equal(t, "hidden", r.Status().Visibility)
	assert.Equal(t, 1, port.shows)
	assert.Equal(t, 1, port.hides)
}

func TestRunner_ToggleTwiceWithinOneTick(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0}}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: repeat(400, 10)}, port)

	require.NoError(t, r.Toggle())
	require.NoError(t, r.Toggle())
	r.TickNow()

	assert.Equal(t, 1, port.shows)
	assert.Equal(t, 1, port.hides)
	assert.False(t, port.mapped)
	assert.Equal(t, "hidden", r.Status().Visibility)
}

func TestRunner_DiscreteShowFailureRetries(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0}, failShow: true}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: repeat(0, 50)}, port)

	for i := 0; i < 4; i++ {
		r.TickNow()
	}
	st := r.Status()
	assert.Equal(t, "hidden", st.Visibility, "a failed map must not flip visibility")
	assert.Equal(t, uint64(1), st.WindowFailures)
	assert.Zero(t, port.shows)

	port.failShow = false
	for i := 0; i < 40; i++ {
		r.TickNow()
	}

	st = r.Status()
	assert.Equal(t, 1, port.shows)
	assert.True(t, port.mapped)
	assert.Equal(t, "shown", st.Visibility)
	assert.Equal(t, uint64(1), st.WindowFailures)
}

func TestRunner_ForcedShowFailureKeepsVisibility(t *testing.T) {
	port := &fakePort{pos: dock.Coordinate{X: 0}, failShow: true}
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: repeat(400, 10)}, port)

	require.NoError(t, r.Request(CommandShow))
	r.TickNow()

	st := r.Status()
	assert.Equal(t, "hidden", st.Visibility)
	assert.Equal(t, uint64(1), st.WindowFailures)
	assert.False(t, port.mapped)
}

func TestRunner_RequestQueue(t *testing.T) {
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, &script{xs: []float64{0}}, &fakePort{})

	for i := 0; i < commandQueueSize; i++ {
		require.NoError(t, r.Request(CommandShow))
	}
	assert.ErrorIs(t, r.Request(CommandShow), ErrCommandQueueFull)
	assert.Error(t, r.Request(Command(42)))
}

func TestRunner_RecoversFromPanic(t *testing.T) {
	sampler := dock.SamplerFunc(func() (dock.Coordinate, error) { panic("boom") })
	r := newTestRunner(dock.Discrete{Threshold: 4}, dock.Hidden, sampler, &fakePort{})

	assert.NotPanics(t, r.TickNow)
	assert.Equal(t, uint64(1), r.Status().Ticks)
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	sampler := dock.SamplerFunc(func() (dock.Coordinate, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return dock.Coordinate{X: 500}, nil
	})
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	m := dock.NewEdgeStateMachine(dock.Discrete{Threshold: 4}, dock.DefaultGeometry(), dock.Hidden)
	r := NewRunner(RunnerConfig{Interval: 50 * time.Millisecond, Clock: clock, Logger: quietLogger()}, m, sampler, &fakePort{})

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	st := r.Status()
	assert.Equal(t, uint64(3), st.Ticks)
	assert.Equal(t, time.Unix(1700000000, 0), st.StartedAt)
	assert.Equal(t, 50*time.Millisecond, st.Interval)
	assert.Equal(t, uint32(3), st.OutsideHits)
}
