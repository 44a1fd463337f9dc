package nav

import (
	"errors"
	"fmt"

	"github.com/brensch/snekpath/game"
)

// ErrNoCycle is returned for board sizes that have no Hamiltonian cycle.
// An n×n grid is bipartite, so odd n (an odd number of cells) never closes.
var ErrNoCycle = errors.New("no hamiltonian cycle for grid size")

// Cycle is a closed tour visiting every cell once. It is immutable after
// BuildCycle and safe for concurrent readers.
type Cycle struct {
	n     int
	cells []game.Point
	index []int
}

// BuildCycle lays out a row snake that keeps column 0 free as the return
// lane: row 0 runs left to right across the board, rows 1..n-1 snake over
// columns 1..n-1, and column 0 climbs back from row n-1 to row 1. With even n
// the last cell (0,1) sits next to the first (0,0).
func BuildCycle(n int) (*Cycle, error) {
	if n > MaxSize {
		return nil, fmt.Errorf("%w: n=%d exceeds %d", ErrInvalidConfig, n, MaxSize)
	}
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrNoCycle, n)
	}

	cells := make([]game.Point, 0, n*n)
	for x := 0; x < n; x++ {
		cells = append(cells, game.Point{X: x, Y: 0})
	}
	for y := 1; y < n; y++ {
		if y%2 == 1 {
			for x := n - 1; x >= 1; x-- {
				cells = append(cells, game.Point{X: x, Y: y})
			}
		} else {
			for x := 1; x < n; x++ {
				cells = append(cells, game.Point{X: x, Y: y})
			}
		}
	}
	for y := n - 1; y >= 1; y-- {
		cells = append(cells, game.Point{X: 0, Y: y})
	}

	index := make([]int, n*n)
	for i, p := range cells {
		index[game.Index(p, n)] = i
	}
	return &Cycle{n: n, cells: cells, index: index}, nil
}

func (c *Cycle) Size() int { return c.n }

func (c *Cycle) Len() int { return len(c.cells) }

// At returns the i-th cell, wrapping around the tour.
func (c *Cycle) At(i int) game.Point {
	l := len(c.cells)
	return c.cells[((i%l)+l)%l]
}

// IndexOf returns the tour position of p, or -1 when p is off the board.
func (c *Cycle) IndexOf(p game.Point) int {
	if !game.InBounds(p, c.n) {
		return -1
	}
	return c.index[game.Index(p, c.n)]
}

// Next returns the cell after p on the tour.
func (c *Cycle) Next(p game.Point) game.Point {
	return c.At(c.IndexOf(p) + 1)
}

// Distance is the number of forward steps along the tour from index from to
// index to.
func (c *Cycle) Distance(from, to int) int {
	l := len(c.cells)
	return ((to-from)%l + l) % l
}

// Cells returns a copy of the tour.
func (c *Cycle) Cells() []game.Point {
	out := make([]game.Point, len(c.cells))
	copy(out, c.cells)
	return out
}
