package nav

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Mode is the controller's strategy state.
type Mode string

const (
	ModeSearch Mode = "SEARCH"
	ModeCycle  Mode = "CYCLE"
)

const (
	stateSearch statekit.StateID = statekit.StateID(ModeSearch)
	stateCycle  statekit.StateID = statekit.StateID(ModeCycle)

	eventCrowded statekit.EventType = "CROWDED"
	eventSparse  statekit.EventType = "SPARSE"
)

// modeContext is the statechart context; it only counts switches.
type modeContext struct {
	switches int
}

func countSwitch(ctx **modeContext, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).switches++
}

func newModeChart() (*statekit.MachineConfig[*modeContext], error) {
	return statekit.NewMachine[*modeContext]("navigation").
		WithInitial(stateSearch).
		WithContext(&modeContext{}).
		WithAction("countSwitch", countSwitch).
		State(stateSearch).
			On(eventCrowded).Target(stateCycle).Do("countSwitch").
			Done().
		State(stateCycle).
			On(eventSparse).Target(stateSearch).Do("countSwitch").
			Done().
		Build()
}

// modeMachine drives SEARCH <-> CYCLE from the occupancy ratio. Events are
// only sent when the current state defines a transition for them.
type modeMachine struct {
	interp *statekit.Interpreter[*modeContext]
	ctx    *modeContext
}

func newModeMachine() (*modeMachine, error) {
	chart, err := newModeChart()
	if err != nil {
		return nil, fmt.Errorf("build mode chart: %w", err)
	}
	ctx := &modeContext{}
	interp := statekit.NewInterpreter(chart)
	interp.UpdateContext(func(c **modeContext) {
		*c = ctx
	})
	interp.Start()
	return &modeMachine{interp: interp, ctx: ctx}, nil
}

func (m *modeMachine) Mode() Mode {
	return Mode(m.interp.State().Value)
}

// Switches is the number of transitions taken so far.
func (m *modeMachine) Switches() int {
	return m.ctx.switches
}

// Update applies the threshold rule: above searchThreshold the board is
// crowded; CYCLE is left once occupancy is back at or below
// searchThreshold-hysteresis.
func (m *modeMachine) Update(occupancy float64, cfg Config) Mode {
	switch m.Mode() {
	case ModeSearch:
		if occupancy > cfg.SearchThreshold {
			m.interp.Send(statekit.Event{Type: eventCrowded})
		}
	case ModeCycle:
		if occupancy <= cfg.SearchThreshold-cfg.Hysteresis {
			m.interp.Send(statekit.Event{Type: eventSparse})
		}
	}
	return m.Mode()
}

// Reset returns the machine to SEARCH.
func (m *modeMachine) Reset() {
	if m.Mode() == ModeCycle {
		m.interp.Send(statekit.Event{Type: eventSparse})
	}
}
