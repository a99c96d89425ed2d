package dock

import (
	"fmt"
	"math"
)

// ActionKind identifies what the host should do with the managed window.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSlideIn
	ActionSlideOut
	ActionShow
	ActionHide
)

// String returns the string representation of the action kind
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionSlideIn:
		return "slide-in"
	case ActionSlideOut:
		return "slide-out"
	case ActionShow:
		return "show"
	case ActionHide:
		return "hide"
	default:
		return "unknown"
	}
}

// Action is a single decision. Delta is only meaningful for slides and is the
// signed x offset to apply this tick.
type Action struct {
	Kind  ActionKind
	Delta float64
}

var NoAction = Action{Kind: ActionNone}

func (a Action) String() string {
	switch a.Kind {
	case ActionSlideIn, ActionSlideOut:
		return fmt.Sprintf("%s(%+g)", a.Kind, a.Delta)
	default:
		return a.Kind.String()
	}
}

// Observation is everything a policy may look at for one tick.
type Observation struct {
	Sample     Coordinate
	HasSample  bool
	Window     Coordinate
	Counters   Counters
	Visibility Visibility
	Geometry   Geometry
}

// DecisionPolicy turns an observation into an action. Implementations must be
// pure: all state lives in the EdgeStateMachine.
type DecisionPolicy interface {
	Name() string
	Decide(obs Observation) Action
}

const (
	PolicyContinuous = "continuous"
	PolicyDiscrete   = "discrete"

	DefaultContinuousThreshold = 15 // ~250ms at 60 Hz
	DefaultDiscreteThreshold   = 4  // ~267ms at 15 Hz
)

// ContinuousSlide moves the window by a fixed step per tick, producing a
// visible animation between x = -Width and x = 0.
type ContinuousSlide struct {
	Threshold uint32
}

var _ DecisionPolicy = ContinuousSlide{}

func (p ContinuousSlide) Name() string { return PolicyContinuous }

func (p ContinuousSlide) Decide(obs Observation) Action {
	if !obs.HasSample {
		return NoAction
	}

	g := obs.Geometry
	x := obs.Window.X
	px := obs.Sample.X

	if px == 0 &&
		obs.Counters.EdgeHits >= p.Threshold &&
		px <= x+g.Width &&
		x >= g.HiddenX() && x < 0 {
		return Action{Kind: ActionSlideIn, Delta: math.Min(g.Velocity, -x)}
	}

	if px > x+g.Width && x > g.HiddenX() {
		return Action{Kind: ActionSlideOut, Delta: -math.Min(g.Velocity, x-g.HiddenX())}
	}

	return NoAction
}

// Discrete snaps the window between mapped and unmapped.
//
// Unlike ContinuousSlide there is no window.x > -Width guard on hide: the
// window never leaves x = 0 under this policy, so the guard has nothing to test.
type Discrete struct {
	Threshold uint32
}

var _ DecisionPolicy = Discrete{}

func (p Discrete) Name() string { return PolicyDiscrete }

func (p Discrete) Decide(obs Observation) Action {
	if !obs.HasSample {
		return NoAction
	}

	if obs.Counters.EdgeHits >= p.Threshold && obs.Visibility == Hidden {
		return Action{Kind: ActionShow}
	}

	// Strict > so a pointer resting on the panel's right border stays docked.
	if obs.Counters.OutsideHits >= p.Threshold &&
		obs.Visibility == Shown &&
		obs.Sample.X > obs.Geometry.Width {
		return Action{Kind: ActionHide}
	}

	return NoAction
}

// NewPolicy resolves a policy by name. A zero threshold selects the policy default.
func NewPolicy(name string, threshold uint32) (DecisionPolicy, error) {
	switch name {
	case PolicyContinuous, "":
		if threshold == 0 {
			threshold = DefaultContinuousThreshold
		}
		return ContinuousSlide{Threshold: threshold}, nil
	case PolicyDiscrete:
		if threshold == 0 {
			threshold = DefaultDiscreteThreshold
		}
		return Discrete{Threshold: threshold}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q (want %q or %q)", name, PolicyContinuous, PolicyDiscrete)
	}
}
