package nav

import (
	"fmt"

	"github.com/brensch/snekpath/game"
)

// Decision is the controller's answer for one tick.
type Decision struct {
	Direction game.Direction
	Source    Source
	Mode      Mode
	Occupancy float64
}

// Stats counts decisions by source since construction or the last Reset.
type Stats struct {
	Decisions    int
	BySource     map[Source]int
	ModeSwitches int
}

// Controller is the hybrid navigation state machine. It owns the mode, the
// cached path and the last issued direction, so one Controller serves one
// agent; the Cycle it holds may be shared.
type Controller struct {
	cfg    Config
	policy Policy
	cycle  *Cycle

	modes  *modeMachine
	search *SearchStrategy
	follow *CycleStrategy
	greedy GreedyStrategy

	mode    Mode
	last    game.Direction
	hasLast bool

	decisions  int
	bySource   map[Source]int
	switchBase int
}

// Option configures New.
type Option func(*Controller)

// WithCycle shares a prebuilt cycle instead of building one.
func WithCycle(c *Cycle) Option {
	return func(ctrl *Controller) {
		ctrl.cycle = c
	}
}

// WithPolicy restricts the controller to a single strategy family.
func WithPolicy(p Policy) Option {
	return func(ctrl *Controller) {
		ctrl.policy = p
	}
}

// New validates cfg and builds a controller in SEARCH mode.
func New(cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:      cfg,
		policy:   PolicyHybrid,
		bySource: make(map[Source]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, err := ParsePolicy(string(c.policy)); err != nil {
		return nil, err
	}

	if c.cycle == nil {
		cycle, err := BuildCycle(cfg.Size)
		if err != nil {
			return nil, err
		}
		c.cycle = cycle
	}
	if c.cycle.Size() != cfg.Size {
		return nil, fmt.Errorf("%w: cycle built for %d, config size %d", ErrInvalidConfig, c.cycle.Size(), cfg.Size)
	}

	modes, err := newModeMachine()
	if err != nil {
		return nil, err
	}
	c.modes = modes
	c.mode = modes.Mode()
	c.search = &SearchStrategy{Weight: cfg.HeuristicWeight}
	c.follow = &CycleStrategy{Cycle: c.cycle, ShortcutThreshold: cfg.ShortcutThreshold}
	return c, nil
}

func (c *Controller) Config() Config { return c.cfg }

func (c *Controller) Cycle() *Cycle { return c.cycle }

func (c *Controller) Mode() Mode { return c.mode }

// CachedPath returns the remaining cells of the cached A* path.
func (c *Controller) CachedPath() []game.Point { return c.search.Path() }

// Decide validates state and returns the move for this tick. Malformed input
// is the only error; an unreachable target or an enclosed head still yields
// a decision.
func (c *Controller) Decide(state *game.State) (Decision, error) {
	if state == nil {
		return Decision{}, fmt.Errorf("decide: %w", game.ErrEmptyBody)
	}
	if state.Size != c.cfg.Size {
		return Decision{}, fmt.Errorf("decide: %w: state size %d, controller size %d", game.ErrSizeMismatch, state.Size, c.cfg.Size)
	}
	if err := state.Validate(); err != nil {
		return Decision{}, fmt.Errorf("decide: %w", err)
	}

	occupancy := state.Occupancy()
	mode := c.modeFor(occupancy)
	if mode != c.mode {
		c.search.Reset()
		c.mode = mode
	}

	var strategy Strategy
	switch {
	case mode == ModeCycle:
		strategy = c.follow
	case c.policy == PolicyGreedy:
		strategy = c.greedy
	default:
		strategy = c.search
	}

	dir, src, ok := strategy.NextMove(state)
	if !ok {
		dir, src = c.fallback(state)
	}

	c.last, c.hasLast = dir, true
	c.decisions++
	c.bySource[src]++

	return Decision{Direction: dir, Source: src, Mode: mode, Occupancy: occupancy}, nil
}

// NextMove makes the controller a Strategy in its own right.
func (c *Controller) NextMove(state *game.State) (game.Direction, Source, bool) {
	d, err := c.Decide(state)
	if err != nil {
		return game.Up, "", false
	}
	return d.Direction, d.Source, true
}

func (c *Controller) modeFor(occupancy float64) Mode {
	switch c.policy {
	case PolicyCycle:
		return ModeCycle
	case PolicySearch, PolicyGreedy:
		return ModeSearch
	}
	return c.modes.Update(occupancy, c.cfg)
}

func (c *Controller) fallback(state *game.State) (game.Direction, Source) {
	heading, ok := state.Heading()
	if !ok && c.hasLast {
		heading = c.last
	}
	dir, safe := SafeDirection(state.Head(), state.Blocked(1), heading)
	if !safe {
		return dir, SourceDoomed
	}
	return dir, SourceFallback
}

// Reset prepares the controller for a new game on the same board.
func (c *Controller) Reset() {
	c.search.Reset()
	c.modes.Reset()
	c.mode = c.modes.Mode()
	c.hasLast = false
	c.decisions = 0
	c.bySource = make(map[Source]int)
	c.switchBase = c.modes.Switches()
}

func (c *Controller) Stats() Stats {
	by := make(map[Source]int, len(c.bySource))
	for k, v := range c.bySource {
		by[k] = v
	}
	return Stats{Decisions: c.decisions, BySource: by, ModeSwitches: c.modes.Switches() - c.switchBase}
}
