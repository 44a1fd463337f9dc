package nav

import (
	"github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/brensch/snekpath/game"
)

// searchNode is an open-set entry. seq records insertion order so equal f
// scores pop first-in first-out.
type searchNode struct {
	cell int
	g    int
	f    float64
	seq  int
}

func byPriority(a, b interface{}) int {
	x, y := a.(searchNode), b.(searchNode)
	switch {
	case x.f < y.f:
		return -1
	case x.f > y.f:
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	}
	return 0
}

type pathOptions struct {
	weight float64
}

// PathOption tunes FindPath.
type PathOption func(*pathOptions)

// WithHeuristicWeight scales the Manhattan heuristic. Weights above 1 trade
// optimality for fewer expansions.
func WithHeuristicWeight(w float64) PathOption {
	return func(o *pathOptions) {
		o.weight = w
	}
}

// FindPath returns a shortest path from start to goal over cells not in
// blocked, both ends included, or nil when goal is unreachable.
//
// The goal is never tested against blocked so a caller can search toward a
// body cell such as the tail. start == goal yields the single-cell path.
func FindPath(start, goal game.Point, blocked *game.Occupancy, opts ...PathOption) []game.Point {
	o := pathOptions{weight: 1.0}
	for _, opt := range opts {
		opt(&o)
	}

	n := blocked.Size()
	if !game.InBounds(start, n) || !game.InBounds(goal, n) {
		return nil
	}
	if start == goal {
		return []game.Point{start}
	}

	total := n * n
	best := make([]int, total)
	parent := make([]int, total)
	closed := make([]bool, total)
	for i := range best {
		best[i] = -1
		parent[i] = -1
	}

	h := func(p game.Point) float64 {
		return o.weight * float64(game.Manhattan(p, goal))
	}

	open := priorityqueue.NewWith(byPriority)
	src, dst := game.Index(start, n), game.Index(goal, n)
	best[src] = 0
	open.Enqueue(searchNode{cell: src, g: 0, f: h(start), seq: 0})
	seq := 1

	for !open.Empty() {
		v, _ := open.Dequeue()
		cur := v.(searchNode)
		if closed[cur.cell] || cur.g > best[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell == dst {
			return reconstruct(parent, dst, n)
		}

		p := game.At(cur.cell, n)
		for _, d := range game.Directions {
			q := p.Move(d)
			if !game.InBounds(q, n) {
				continue
			}
			i := game.Index(q, n)
			if closed[i] {
				continue
			}
			if i != dst && blocked.Has(q) {
				continue
			}
			g := cur.g + 1
			if best[i] >= 0 && g >= best[i] {
				continue
			}
			best[i] = g
			parent[i] = cur.cell
			open.Enqueue(searchNode{cell: i, g: g, f: float64(g) + h(q), seq: seq})
			seq++
		}
	}

	return nil
}

func reconstruct(parent []int, dst, n int) []game.Point {
	var path []game.Point
	for cur := dst; cur >= 0; cur = parent[cur] {
		path = append(path, game.At(cur, n))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
