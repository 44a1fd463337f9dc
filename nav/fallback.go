package nav

import (
	"github.com/brensch/snekpath/game"
)

// SafeDirection picks the move that leaves the most open space: each free,
// in-bounds neighbour of head is flood filled and the largest region wins,
// ties going to the earlier direction. With no free neighbour it returns
// heading and false; the agent cannot avoid a collision.
func SafeDirection(head game.Point, blocked *game.Occupancy, heading game.Direction) (game.Direction, bool) {
	n := blocked.Size()
	best, bestDir := -1, heading
	for _, d := range game.Directions {
		p := head.Move(d)
		if !game.InBounds(p, n) || blocked.Has(p) {
			continue
		}
		if c := FloodCount(p, blocked); c > best {
			best, bestDir = c, d
		}
	}
	return bestDir, best >= 0
}
