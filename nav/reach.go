// Package nav is the navigation engine: it decides one move per tick for an
// agent on an n×n board so that it reaches the target without trapping
// itself.
//
// The building blocks are a breadth-first reachability oracle, an A* path
// finder, a closed Hamiltonian cycle with a shortcut finder and a greedy
// open-space fallback. Controller switches between them per tick. Everything
// here is synchronous and allocation-bounded by the board size; the only value
// meant to be shared between goroutines is the immutable Cycle.
package nav

import (
	"github.com/brensch/snekpath/game"
)

// CanReach reports whether a breadth-first walk from from over in-bounds,
// unblocked cells visits to. The start cell is never tested against blocked.
func CanReach(from, to game.Point, blocked *game.Occupancy) bool {
	n := blocked.Size()
	if !game.InBounds(from, n) || !game.InBounds(to, n) {
		return false
	}
	_, found := flood(from, blocked, game.Index(to, n))
	return found
}

// FloodCount returns how many free cells are reachable from from, from
// included.
func FloodCount(from game.Point, blocked *game.Occupancy) int {
	if !game.InBounds(from, blocked.Size()) {
		return 0
	}
	count, _ := flood(from, blocked, -1)
	return count
}

// flood runs the BFS. When stop is a cell index the walk ends as soon as that
// cell is dequeued.
func flood(from game.Point, blocked *game.Occupancy, stop int) (int, bool) {
	n := blocked.Size()
	visited := make([]bool, n*n)
	queue := make([]int, 0, n*n)

	start := game.Index(from, n)
	visited[start] = true
	queue = append(queue, start)

	count := 0
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		count++
		if cur == stop {
			return count, true
		}
		p := game.At(cur, n)
		for _, d := range game.Directions {
			q := p.Move(d)
			if !game.InBounds(q, n) {
				continue
			}
			i := game.Index(q, n)
			if visited[i] || blocked.Has(q) {
				continue
			}
			visited[i] = true
			queue = append(queue, i)
		}
	}
	return count, false
}

// TailReachableAfter simulates stepping the head to next and reports whether
// the new head can still reach the new tail. The tail is treated as free: it
// vacates its cell on the following tick. Stepping onto the target grows the
// body, so the tail stays put.
func TailReachableAfter(state *game.State, next game.Point) bool {
	ate := next == state.Target

	body := make([]game.Point, 0, len(state.Body)+1)
	body = append(body, next)
	body = append(body, state.Body...)
	if !ate {
		body = body[:len(body)-1]
	}

	tail := body[len(body)-1]
	if tail == next {
		return true
	}
	blocked := game.OccupancyOf(state.Size, body[:len(body)-1]...)
	return CanReach(next, tail, blocked)
}
