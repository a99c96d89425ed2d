package dock

// Visibility is the discrete panel state.
type Visibility int

const (
	Hidden Visibility = iota
	Shown
)

// String returns the string representation of the visibility
func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Shown:
		return "shown"
	default:
		return "unknown"
	}
}

// Counters are the debounce hit counters. At most one of them is non-zero after
// any sample.
type Counters struct {
	EdgeHits    uint32 // consecutive samples with x == 0
	OutsideHits uint32 // consecutive samples with x != 0
}

// EdgeStateMachine owns the debounce counters and visibility for one panel.
// It is not safe for concurrent use; the tick loop is its only caller.
type EdgeStateMachine struct {
	policy   DecisionPolicy
	geometry Geometry

	counters   Counters
	visibility Visibility

	sample    Coordinate
	hasSample bool
	window    Coordinate
}

// NewEdgeStateMachine creates a machine in the given initial visibility.
func NewEdgeStateMachine(policy DecisionPolicy, geometry Geometry, initial Visibility) *EdgeStateMachine {
	return &EdgeStateMachine{
		policy:     policy,
		geometry:   geometry,
		visibility: initial,
		window:     Coordinate{X: geometry.HiddenX()},
	}
}

// Update feeds one tick's pointer sample and window position. When ok is false
// the sample is treated as no information: counters stay as they are and the
// following Decide returns NoAction.
func (m *EdgeStateMachine) Update(sample Coordinate, ok bool, window Coordinate) {
	m.window = window
	m.hasSample = ok
	if !ok {
		return
	}
	m.sample = sample

	if sample.X == 0 {
		m.counters.EdgeHits++
		m.counters.OutsideHits = 0
	} else {
		m.counters.EdgeHits = 0
		m.counters.OutsideHits++
	}
}

// Decide asks the policy what to do given the last Update. It does not mutate
// state; call Commit with the result.
func (m *EdgeStateMachine) Decide() Action {
	return m.policy.Decide(m.Observation())
}

// Commit records that an action was issued. Show and Hide flip visibility and
// report whether anything changed, so applying either twice is a no-op.
// Slides update the tracked window x and derive visibility from the endpoints.
func (m *EdgeStateMachine) Commit(a Action) bool {
	switch a.Kind {
	case ActionShow:
		if m.visibility == Shown {
			return false
		}
		m.visibility = Shown
		return true
	case ActionHide:
		if m.visibility == Hidden {
			return false
		}
		m.visibility = Hidden
		return true
	case ActionSlideIn, ActionSlideOut:
		m.window.X += a.Delta
		prev := m.visibility
		switch {
		case m.window.X >= 0:
			m.visibility = Shown
		case m.window.X <= m.geometry.HiddenX():
			m.visibility = Hidden
		}
		return prev != m.visibility
	default:
		return false
	}
}

// Step runs Update, Decide and Commit for one tick.
func (m *EdgeStateMachine) Step(sample Coordinate, ok bool, window Coordinate) Action {
	m.Update(sample, ok, window)
	a := m.Decide()
	m.Commit(a)
	return a
}

// Force sets visibility directly and clears both counters, so neither
// threshold is armed until fresh samples accumulate.
func (m *EdgeStateMachine) Force(v Visibility) {
	m.visibility = v
	m.counters = Counters{}
}

// Observation returns the input the policy would see right now.
func (m *EdgeStateMachine) Observation() Observation {
	return Observation{
		Sample:     m.sample,
		HasSample:  m.hasSample,
		Window:     m.window,
		Counters:   m.counters,
		Visibility: m.visibility,
		Geometry:   m.geometry,
	}
}

func (m *EdgeStateMachine) Counters() Counters { return m.counters }
func (m *EdgeStateMachine) Visibility() Visibility { return m.visibility }
func (m *EdgeStateMachine) Geometry() Geometry { return m.geometry }
func (m *EdgeStateMachine) Policy() DecisionPolicy { return m.policy }

// Jump forces the panel to v outside the debounce rules and returns the action
// that moves the window there directly: a single full-length slide for the
// continuous policy, Show/Hide for the discrete one. Counters are cleared.
func (m *EdgeStateMachine) Jump(v Visibility) Action {
	m.Force(v)

	if m.policy.Name() == PolicyDiscrete {
		if v == Shown {
			return Action{Kind: ActionShow}
		}
		return Action{Kind: ActionHide}
	}

	target := m.geometry.HiddenX()
	kind := ActionSlideOut
	if v == Shown {
		target = 0
		kind = ActionSlideIn
	}
	delta := target - m.window.X
	if delta == 0 {
		return NoAction
	}
	return Action{Kind: kind, Delta: delta}
}
