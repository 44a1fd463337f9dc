// Package game defines the core board types shared by the navigation engine,
// the rules used for simulation and the outer surfaces.
//
// These types represent the minimal state needed for one decision: the grid
// size, the agent's body (head first) and the target cell. The state is cheap
// to clone so the simulator can keep per-tick snapshots.
package game

import (
	"errors"
	"fmt"
)

// Point is a board coordinate.
// Coordinates follow screen conventions: (0,0) is top-left and Down is y+1.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Move returns the cell one step away from p in direction d.
func (p Point) Move(d Direction) Point {
	switch d {
	case Up:
		return Point{X: p.X, Y: p.Y - 1}
	case Down:
		return Point{X: p.X, Y: p.Y + 1}
	case Left:
		return Point{X: p.X - 1, Y: p.Y}
	case Right:
		return Point{X: p.X + 1, Y: p.Y}
	}
	return p
}

// State is everything the engine reads on a tick. Body[0] is the head and
// Body[len(Body)-1] the tail.
type State struct {
	Size   int     `json:"size"`
	Body   []Point `json:"body"`
	Target Point   `json:"target"`
}

var (
	ErrEmptyBody      = errors.New("agent body is empty")
	ErrSizeMismatch   = errors.New("invalid grid size")
	ErrOutOfBounds    = errors.New("cell out of bounds")
	ErrDuplicateCell  = errors.New("agent body repeats a cell")
	ErrNonContiguous  = errors.New("agent body is not contiguous")
	ErrTargetOccupied = errors.New("target lies on the agent body")
)

// Head returns the first body cell.
func (s *State) Head() Point { return s.Body[0] }

// Tail returns the last body cell.
func (s *State) Tail() Point { return s.Body[len(s.Body)-1] }

// Cells is the number of cells on the board.
func (s *State) Cells() int { return s.Size * s.Size }

// Occupancy is the fraction of the board covered by the body.
func (s *State) Occupancy() float64 {
	if s.Size <= 0 {
		return 0
	}
	return float64(len(s.Body)) / float64(s.Cells())
}

// Heading is the direction the head last travelled in, derived from the
// neck. ok is false for a single-cell body.
func (s *State) Heading() (Direction, bool) {
	if len(s.Body) < 2 {
		return Up, false
	}
	return DirectionTo(s.Body[1], s.Body[0])
}

// Validate checks the invariants the engine relies on. The returned error
// wraps one of the Err* sentinels.
func (s *State) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("%w: %d", ErrSizeMismatch, s.Size)
	}
	if len(s.Body) == 0 {
		return ErrEmptyBody
	}
	occ := NewOccupancy(s.Size)
	for i, p := range s.Body {
		if !InBounds(p, s.Size) {
			return fmt.Errorf("%w: body[%d]=%v on %dx%d", ErrOutOfBounds, i, p, s.Size, s.Size)
		}
		if occ.Has(p) {
			return fmt.Errorf("%w: body[%d]=%v", ErrDuplicateCell, i, p)
		}
		occ.Set(p)
		if i > 0 && Manhattan(s.Body[i-1], p) != 1 {
			return fmt.Errorf("%w: body[%d]=%v body[%d]=%v", ErrNonContiguous, i-1, s.Body[i-1], i, p)
		}
	}
	if !InBounds(s.Target, s.Size) {
		return fmt.Errorf("%w: target=%v on %dx%d", ErrOutOfBounds, s.Target, s.Size, s.Size)
	}
	if occ.Has(s.Target) {
		return fmt.Errorf("%w: target=%v", ErrTargetOccupied, s.Target)
	}
	return nil
}

// Clone performs a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{Size: s.Size, Target: s.Target}
	if len(s.Body) > 0 {
		out.Body = make([]Point, len(s.Body))
		copy(out.Body, s.Body)
	}
	return out
}

// Blocked returns the occupancy mask of the body, leaving out the last skip
// cells. Skipping the tail models the cell it vacates on the next tick.
func (s *State) Blocked(skip int) *Occupancy {
	occ := NewOccupancy(s.Size)
	n := len(s.Body) - skip
	for i := 0; i < n; i++ {
		occ.Set(s.Body[i])
	}
	return occ
}
