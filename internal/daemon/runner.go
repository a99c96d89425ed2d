package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/ticker"
)

// Command is a control request applied by the loop between ticks.
type Command int

const (
	CommandShow Command = iota + 1
	CommandHide
	// CommandToggle is resolved on the loop goroutine against the visibility
	// left by any earlier command in the same drain.
	CommandToggle
)

func (c Command) String() string {
	switch c {
	case CommandShow:
		return "show"
	case CommandHide:
		return "hide"
	case CommandToggle:
		return "toggle"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// ErrCommandQueueFull is returned by Request when the loop has not yet drained
// earlier commands.
var ErrCommandQueueFull = errors.New("command queue full")

const commandQueueSize = 8

// Status is a read-only snapshot of the loop, published after every tick.
type Status struct {
	Policy         string        `json:"policy"`
	Visibility     string        `json:"visibility"`
	EdgeHits       uint32        `json:"edge_hits"`
	OutsideHits    uint32        `json:"outside_hits"`
	LastAction     string        `json:"last_action"`
	WindowX        float64       `json:"window_x"`
	WindowY        float64       `json:"window_y"`
	Ticks          uint64        `json:"ticks"`
	SampleFailures uint64        `json:"sample_failures"`
	WindowFailures uint64        `json:"window_failures"`
	Interval       time.Duration `json:"interval"`
	StartedAt      time.Time     `json:"started_at"`
}

// RunnerConfig holds configuration for the runner.
type RunnerConfig struct {
	Interval time.Duration
	Clock    ticker.Clock
	Logger   *slog.Logger
}

// Runner drives the sampler, the state machine and the window port once per
// tick. The loop goroutine is the only one touching the machine; other
// goroutines talk to it through Request and Status.
type Runner struct {
	machine   *dock.EdgeStateMachine
	sampler   dock.Sampler
	port      dock.WindowPort
	scheduler *ticker.Scheduler
	clock     ticker.Clock
	logger    *slog.Logger
	commands  chan Command

	lastAction     dock.Action
	ticks          uint64
	sampleFailures uint64
	windowFailures uint64
	startedAt      time.Time

	mu     sync.RWMutex
	status Status
}

// NewRunner creates a runner around an already-configured state machine.
func NewRunner(cfg RunnerConfig, machine *dock.EdgeStateMachine, sampler dock.Sampler, port dock.WindowPort) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scheduler := ticker.New(cfg.Interval, cfg.Clock)
	clock := cfg.Clock
	if clock == nil {
		clock = ticker.WallClock()
	}

	r := &Runner{
		machine:   machine,
		sampler:   sampler,
		port:      port,
		scheduler: scheduler,
		clock:     clock,
		logger:    logger,
		commands:  make(chan Command, commandQueueSize),
	}
	r.publish()
	return r
}

// Run starts the tick loop. Blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	r.startedAt = r.clock.Now()
	r.publish()

	r.logger.Info("dock loop started",
		"policy", r.machine.Policy().Name(),
		"interval", r.scheduler.Interval(),
		"visibility", r.machine.Visibility())

	_ = r.scheduler.Run(ctx, func(time.Time) { r.tick() })

	r.logger.Info("dock loop stopped", "ticks", r.ticks)
}

// Request queues a forced show or hide. It never blocks.
func (r *Runner) Request(cmd Command) error {
	switch cmd {
	case CommandShow, CommandHide, CommandToggle:
	default:
		return fmt.Errorf("unsupported command %v", cmd)
	}
	select {
	case r.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// Toggle requests the opposite of the visibility the loop holds when the
// command is drained.
func (r *Runner) Toggle() error {
	return r.Request(CommandToggle)
}

// Status returns the snapshot published after the last tick.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// TickNow runs a single iteration on the caller's goroutine. It must not be
// called while Run is active.
func (r *Runner) TickNow() {
	r.tick()
}

func (r *Runner) tick() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("dock loop panic recovered", "error", err)
		}
	}()
	defer r.publish()

	r.ticks++
	r.drainCommands()

	sample, err := r.sampler.Sample()
	ok := err == nil
	if err != nil {
		r.sampleFailures++
		r.logger.Debug("pointer sample skipped", "error", err)
	}

	window, err := r.port.Position()
	if err != nil {
		r.windowFailures++
		r.logger.Warn("failed to read window position", "error", err)
		// Counters still follow the pointer; the move is skipped this tick.
		r.machine.Update(sample, ok, r.machine.Observation().Window)
		return
	}

	r.machine.Update(sample, ok, window)
	a := r.machine.Decide()
	if a.Kind == dock.ActionNone {
		return
	}
	_ = r.apply(a, window)
}

func (r *Runner) drainCommands() {
	for {
		select {
		case cmd := <-r.commands:
			prev := r.machine.Visibility()
			target := dock.Shown
			switch {
			case cmd == CommandHide:
				target = dock.Hidden
			case cmd == CommandToggle && prev == dock.Shown:
				target = dock.Hidden
			}
			window := r.machine.Observation().Window
			a := r.machine.Jump(target)
			r.logger.Info("forced visibility", "command", cmd, "action", a)
			if a.Kind == dock.ActionNone {
				continue
			}
			if err := r.apply(a, window); err != nil {
				r.machine.Force(prev)
			}
		default:
			return
		}
	}
}

// apply sends a to the port and records it. A failed slide is still
// committed because the next tick re-reads the real position. A failed Show
// or Hide is not: visibility is never read back from the port, so the
// machine keeps its old state and the armed counter retries next tick.
func (r *Runner) apply(a dock.Action, window dock.Coordinate) error {
	err := dock.Apply(r.port, a, window)
	if err != nil {
		r.windowFailures++
		r.logger.Warn("window operation failed", "action", a, "error", err)
		if a.Kind == dock.ActionShow || a.Kind == dock.ActionHide {
			return err
		}
	}
	r.lastAction = a
	if r.machine.Commit(a) {
		r.logger.Info("panel "+r.machine.Visibility().String(), "action", a)
	} else {
		r.logger.Debug("panel moved", "action", a, "x", r.machine.Observation().Window.X)
	}
	return err
}

func (r *Runner) publish() {
	obs := r.machine.Observation()
	s := Status{
		Policy:         r.machine.Policy().Name(),
		Visibility:     obs.Visibility.String(),
		EdgeHits:       obs.Counters.EdgeHits,
		OutsideHits:    obs.Counters.OutsideHits,
		LastAction:     r.lastAction.String(),
		WindowX:        obs.Window.X,
		WindowY:        obs.Window.Y,
		Ticks:          r.ticks,
		SampleFailures: r.sampleFailures,
		WindowFailures: r.windowFailures,
		Interval:       r.scheduler.Interval(),
		StartedAt:      r.startedAt,
	}
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}
