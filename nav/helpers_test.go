package nav

import (
	"fmt"
	"strings"

	"github.com/brensch/snekpath/game"
)

func newState(n int, target game.Point, body ...game.Point) *game.State {
	return &game.State{Size: n, Body: body, Target: target}
}

func pt(x, y int) game.Point { return game.Point{X: x, Y: y} }

func mustCycle(n int) *Cycle {
	c, err := BuildCycle(n)
	if err != nil {
		panic(err)
	}
	return c
}

// dumpState renders the board with the head as H, body as o, target as F and
// any highlighted cells as *.
func dumpState(s *game.State, marks ...game.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Size=%d Len=%d Target=%v Body:", s.Size, len(s.Body), s.Target)
	for _, p := range s.Body {
		fmt.Fprintf(&b, " %v", p)
	}
	b.WriteString("\n")

	occ := game.OccupancyOf(s.Size, s.Body...)
	mark := game.OccupancyOf(s.Size, marks...)
	for y := 0; y < s.Size; y++ {
		for x := 0; x < s.Size; x++ {
			p := pt(x, y)
			switch {
			case len(s.Body) > 0 && p == s.Head():
				b.WriteByte('H')
			case p == s.Target:
				b.WriteByte('F')
			case occ.Has(p):
				b.WriteByte('o')
			case mark.Has(p):
				b.WriteByte('*')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// bodyAlongCycle returns a body of length cells whose head sits at tour
// position head and whose tail trails backwards along the tour.
func bodyAlongCycle(c *Cycle, head, length int) []game.Point {
	body := make([]game.Point, 0, length)
	for i := 0; i < length; i++ {
		body = append(body, c.At(head-i))
	}
	return body
}

// bfsDistance is a plain reference BFS used to check the optimised searches.
func bfsDistance(from, to game.Point, blocked *game.Occupancy) int {
	n := blocked.Size()
	dist := map[game.Point]int{from: 0}
	queue := []game.Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			return dist[p]
		}
		for _, q := range game.Neighbors(p, n) {
			if _, seen := dist[q]; seen {
				continue
			}
			if q != to && blocked.Has(q) {
				continue
			}
			dist[q] = dist[p] + 1
			queue = append(queue, q)
		}
	}
	return -1
}
