// Package rules advances a single-agent board by one tick. It is the game
// loop collaborator the simulator and tests drive the engine against.
package rules

import (
	"math/rand"

	"github.com/brensch/snekpath/game"
)

// Outcome classifies what happened on a tick.
type Outcome int

const (
	OutcomeMoved Outcome = iota
	OutcomeAte
	OutcomeCollision
	OutcomeFilled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeAte:
		return "ate"
	case OutcomeCollision:
		return "collision"
	case OutcomeFilled:
		return "filled"
	}
	return "unknown"
}

// Terminal reports whether the game ends on this outcome.
func (o Outcome) Terminal() bool {
	return o == OutcomeCollision || o == OutcomeFilled
}

// LegalMoves returns the moves that do not hit a wall or the body.
// The tail counts as free because it vacates this tick unless the agent eats.
func LegalMoves(state *game.State) []game.Direction {
	if state == nil || len(state.Body) == 0 {
		return nil
	}
	head := state.Head()
	moves := []game.Direction{}
	for _, d := range game.Directions {
		if isSafe(state, head.Move(d)) {
			moves = append(moves, d)
		}
	}
	return moves
}

func isSafe(state *game.State, p game.Point) bool {
	// 1. Check Bounds
	if !game.InBounds(p, state.Size) {
		return false
	}

	// 2. Check collisions with the body. The tail only moves out of the way
	// when the agent is not growing this tick.
	n := len(state.Body)
	if p != state.Target {
		n--
	}
	for i := 0; i < n; i++ {
		if state.Body[i] == p {
			return false
		}
	}
	return true
}

// Step returns the next state after moving the agent in dir.
//
// Eating grows the body by keeping the tail and relocates the target with
// rng (deterministic when rng is nil). On collision the returned state is the
// input unchanged.
func Step(state *game.State, dir game.Direction, rng *rand.Rand) (*game.State, Outcome) {
	next := state.Clone()
	newHead := state.Head().Move(dir)

	if !isSafe(state, newHead) {
		return next, OutcomeCollision
	}

	ate := newHead == state.Target

	// Update Body
	newBody := make([]game.Point, 0, len(state.Body)+1)
	newBody = append(newBody, newHead)
	newBody = append(newBody, state.Body...)
	if !ate {
		newBody = newBody[:len(newBody)-1]
	}
	next.Body = newBody

	if !ate {
		return next, OutcomeMoved
	}

	target, ok := game.SpawnTarget(next, rng)
	if !ok {
		return next, OutcomeFilled
	}
	next.Target = target
	return next, OutcomeAte
}

// IsTerminal returns true when the agent has no legal move left.
func IsTerminal(state *game.State) bool {
	return len(LegalMoves(state)) == 0
}
