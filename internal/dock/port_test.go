package dock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPort struct {
	pos   Coordinate
	calls []string
	fail  error
}

func (p *recordingPort) Position() (Coordinate, error) { return p.pos, nil }

func (p *recordingPort) SetPosition(c Coordinate) error {
	p.calls = append(p.calls, "set")
	if p.fail != nil {
		return p.fail
	}
	p.pos = c
	return nil
}

func (p *recordingPort) Size() (float64, float64, error) { return DefaultWidth, DefaultHeight, nil }
func (p *recordingPort) ScaleFactor() float64 { return 1 }

func (p *recordingPort) Show() error {
	p.calls = append(p.calls, "show")
	return p.fail
}

func (p *recordingPort) Hide() error {
	p.calls = append(p.calls, "hide")
	return p.fail
}

func TestApply_Slide(t *testing.T) {
	port := &recordingPort{pos: at(-180)}

	err := Apply(port, Action{Kind: ActionSlideIn, Delta: 36}, port.pos)
	require.NoError(t, err)
	assert.Equal(t, at(-144), port.pos)

	err = Apply(port, Action{Kind: ActionSlideOut, Delta: -36}, port.pos)
	require.NoError(t, err)
	assert.Equal(t, at(-180), port.pos)
}

func TestApply_ShowHideAndNone(t *testing.T) {
	port := &recordingPort{}

	require.NoError(t, Apply(port, NoAction, port.pos))
	require.NoError(t, Apply(port, Action{Kind: ActionShow}, port.pos))
	require.NoError(t, Apply(port, Action{Kind: ActionHide}, port.pos))

	assert.Equal(t, []string{"show", "hide"}, port.calls)
}

func TestApply_FailureIsWrappedAndStateSurvives(t *testing.T) {
	port := &recordingPort{pos: at(0), fail: errors.New("BadWindow")}
	m := NewEdgeStateMachine(Discrete{Threshold: 4}, DefaultGeometry(), Hidden)

	var a Action
	for i := 0; i < 4; i++ {
		a = m.Step(at(0), true, port.pos)
	}
	require.Equal(t, ActionShow, a.Kind)

	err := Apply(port, a, port.pos)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWindowOperation))
	assert.Contains(t, err.Error(), "BadWindow")

	assert.Equal(t, Counters{EdgeHits: 4}, m.Counters())
	assert.Equal(t, Shown, m.Visibility())
}

func TestSamplerFunc(t *testing.T) {
	s := SamplerFunc(func() (Coordinate, error) { return Coordinate{}, ErrSampleUnavailable })
	_, err := s.Sample()
	assert.ErrorIs(t, err, ErrSampleUnavailable)
}

func TestGeometry(t *testing.T) {
	g := DefaultGeometry()
	assert.Equal(t, 36.0, g.Velocity)
	assert.Equal(t, -180.0, g.HiddenX())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "slide-in(+36)", Action{Kind: ActionSlideIn, Delta: 36}.String())
	assert.Equal(t, "slide-out(-36)", Action{Kind: ActionSlideOut, Delta: -36}.String())
	assert.Equal(t, "show", Action{Kind: ActionShow}.String())
}
