package nav

import (
	"github.com/brensch/snekpath/game"
)

// FindShortcut looks for a neighbour of the head that cuts the forward tour
// distance to the target while the tail stays reachable. Neighbours are tried
// in Up, Down, Left, Right order and the first that qualifies is taken. The
// whole body, tail included, counts as occupied.
//
// Shortcuts are off once the body covers threshold of the board.
func FindShortcut(state *game.State, cycle *Cycle, threshold float64) (game.Point, bool) {
	if float64(len(state.Body)) >= threshold*float64(state.Cells()) {
		return game.Point{}, false
	}

	head := state.Head()
	target := cycle.IndexOf(state.Target)
	current := cycle.Distance(cycle.IndexOf(head), target)
	body := state.Blocked(0)

	for _, next := range game.Neighbors(head, state.Size) {
		if body.Has(next) {
			continue
		}
		if cycle.Distance(cycle.IndexOf(next), target) >= current {
			continue
		}
		if !TailReachableAfter(state, next) {
			continue
		}
		return next, true
	}
	return game.Point{}, false
}
