package nav

import (
	"fmt"

	"github.com/brensch/snekpath/game"
)

// Source names the component that produced a move.
type Source string

const (
	SourceAStar    Source = "astar"
	SourceCached   Source = "cached"
	SourceTail     Source = "tail"
	SourceShortcut Source = "shortcut"
	SourceCycle    Source = "cycle"
	SourceGreedy   Source = "greedy"
	SourceFallback Source = "fallback"
	SourceDoomed   Source = "doomed"
)

// Strategy proposes the next move for a validated state. ok is false when the
// strategy has nothing to offer and the caller should fall back.
type Strategy interface {
	NextMove(state *game.State) (dir game.Direction, src Source, ok bool)
}

// Policy selects which strategies a Controller may use.
type Policy string

const (
	PolicyHybrid Policy = "hybrid"
	PolicySearch Policy = "astar"
	PolicyCycle  Policy = "cycle"
	PolicyGreedy Policy = "greedy"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyHybrid, PolicySearch, PolicyCycle, PolicyGreedy:
		return p, nil
	case "":
		return PolicyHybrid, nil
	}
	return "", fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, s)
}

// SearchStrategy walks A* paths toward the target and chases the tail when
// the target is walled off. The path to the target is cached and consumed one
// step per tick while it stays safe.
type SearchStrategy struct {
	Weight float64

	path []game.Point
	goal game.Point
}

func (s *SearchStrategy) Reset() {
	s.path = nil
}

// Path returns the cached remainder of the current path.
func (s *SearchStrategy) Path() []game.Point {
	return append([]game.Point(nil), s.path...)
}

func (s *SearchStrategy) NextMove(state *game.State) (game.Direction, Source, bool) {
	if d, ok := s.cached(state); ok {
		return d, SourceCached, true
	}
	s.path = nil

	head := state.Head()
	blocked := state.Blocked(1)

	path := FindPath(head, state.Target, blocked, WithHeuristicWeight(s.Weight))
	if len(path) > 1 && TailReachableAfter(state, path[1]) {
		d, _ := game.DirectionTo(head, path[1])
		s.path = append(s.path, path[2:]...)
		s.goal = state.Target
		return d, SourceAStar, true
	}

	if len(state.Body) > 1 {
		path = FindPath(head, state.Tail(), blocked, WithHeuristicWeight(s.Weight))
		if len(path) > 1 {
			d, _ := game.DirectionTo(head, path[1])
			return d, SourceTail, true
		}
	}
	return game.Up, "", false
}

func (s *SearchStrategy) cached(state *game.State) (game.Direction, bool) {
	if len(s.path) == 0 || s.goal != state.Target {
		return game.Up, false
	}
	next := s.path[0]
	d, ok := game.DirectionTo(state.Head(), next)
	if !ok {
		return game.Up, false
	}
	for _, p := range state.Body[:len(state.Body)-1] {
		if p == next {
			return game.Up, false
		}
	}
	if !TailReachableAfter(state, next) {
		return game.Up, false
	}
	s.path = s.path[1:]
	return d, true
}

// CycleStrategy follows the Hamiltonian cycle, taking shortcuts while the
// board is sparse enough.
type CycleStrategy struct {
	Cycle             *Cycle
	ShortcutThreshold float64
}

func (s *CycleStrategy) NextMove(state *game.State) (game.Direction, Source, bool) {
	head := state.Head()
	if next, ok := FindShortcut(state, s.Cycle, s.ShortcutThreshold); ok {
		d, _ := game.DirectionTo(head, next)
		if next == s.Cycle.Next(head) {
			return d, SourceCycle, true
		}
		return d, SourceShortcut, true
	}

	next := s.Cycle.Next(head)
	for _, p := range state.Body[:len(state.Body)-1] {
		if p == next {
			return game.Up, "", false
		}
	}
	d, _ := game.DirectionTo(head, next)
	return d, SourceCycle, true
}

// GreedyStrategy steps to the free neighbour closest to the target,
// preferring moves that keep the tail reachable.
type GreedyStrategy struct{}

func (GreedyStrategy) NextMove(state *game.State) (game.Direction, Source, bool) {
	head := state.Head()
	blocked := state.Blocked(1)

	var (
		bestDir  game.Direction
		bestDist = -1
		bestSafe bool
	)
	for _, d := range game.Directions {
		p := head.Move(d)
		if !game.InBounds(p, state.Size) || blocked.Has(p) {
			continue
		}
		dist := game.Manhattan(p, state.Target)
		safe := TailReachableAfter(state, p)
		better := bestDist < 0 ||
			(safe && !bestSafe) ||
			(safe == bestSafe && dist < bestDist)
		if better {
			bestDir, bestDist, bestSafe = d, dist, safe
		}
	}
	if bestDist < 0 || !bestSafe {
		return game.Up, "", false
	}
	return bestDir, SourceGreedy, true
}
