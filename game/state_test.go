package game

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

// dumpState is a test helper to visualize board state.
func dumpState(s *State) string {
	grid := make([][]byte, s.Size)
	for y := 0; y < s.Size; y++ {
		grid[y] = make([]byte, s.Size)
		for x := 0; x < s.Size; x++ {
			grid[y][x] = '.'
		}
	}
	if InBounds(s.Target, s.Size) {
		grid[s.Target.Y][s.Target.X] = '*'
	}
	for i, p := range s.Body {
		if !InBounds(p, s.Size) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = 'H'
		} else {
			grid[p.Y][p.X] = 'o'
		}
	}
	var sb strings.Builder
	for y := 0; y < s.Size; y++ {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  error
	}{
		{
			name:  "ok",
			state: State{Size: 4, Body: []Point{{1, 1}, {1, 2}, {2, 2}}, Target: Point{3, 3}},
		},
		{
			name:  "single cell",
			state: State{Size: 4, Body: []Point{{0, 0}}, Target: Point{3, 0}},
		},
		{
			name:  "zero size",
			state: State{Size: 0, Body: []Point{{0, 0}}},
			want:  ErrSizeMismatch,
		},
		{
			name:  "empty body",
			state: State{Size: 4, Target: Point{1, 1}},
			want:  ErrEmptyBody,
		},
		{
			name:  "body out of bounds",
			state: State{Size: 4, Body: []Point{{4, 0}}, Target: Point{1, 1}},
			want:  ErrOutOfBounds,
		},
		{
			name:  "target out of bounds",
			state: State{Size: 4, Body: []Point{{0, 0}}, Target: Point{-1, 1}},
			want:  ErrOutOfBounds,
		},
		{
			name:  "duplicate",
			state: State{Size: 4, Body: []Point{{1, 1}, {1, 2}, {1, 1}}, Target: Point{3, 3}},
			want:  ErrDuplicateCell,
		},
		{
			name:  "gap",
			state: State{Size: 4, Body: []Point{{0, 0}, {2, 0}}, Target: Point{3, 3}},
			want:  ErrNonContiguous,
		},
		{
			name:  "diagonal",
			state: State{Size: 4, Body: []Point{{0, 0}, {1, 1}}, Target: Point{3, 3}},
			want:  ErrNonContiguous,
		},
		{
			name:  "target on body",
			state: State{Size: 4, Body: []Point{{0, 0}, {1, 0}}, Target: Point{1, 0}},
			want:  ErrTargetOccupied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil\n%s", err, dumpState(&tt.state))
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHeading(t *testing.T) {
	s := State{Size: 5, Body: []Point{{2, 1}, {2, 2}, {2, 3}}}
	d, ok := s.Heading()
	if !ok || d != Up {
		t.Fatalf("Heading() = %v,%v want up,true", d, ok)
	}
	s.Body = s.Body[:1]
	if _, ok := s.Heading(); ok {
		t.Fatalf("single cell body should have no heading")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := &State{Size: 4, Body: []Point{{0, 0}, {1, 0}}, Target: Point{3, 3}}
	c := s.Clone()
	c.Body[0] = Point{2, 2}
	if s.Body[0] != (Point{0, 0}) {
		t.Fatalf("clone shares body with original")
	}
}

func TestBlockedSkipsTail(t *testing.T) {
	s := &State{Size: 4, Body: []Point{{0, 0}, {1, 0}, {2, 0}}}
	occ := s.Blocked(1)
	if !occ.Has(Point{0, 0}) || !occ.Has(Point{1, 0}) {
		t.Fatalf("head and neck should be blocked")
	}
	if occ.Has(Point{2, 0}) {
		t.Fatalf("tail should not be blocked")
	}
	if occ.Count() != 2 {
		t.Fatalf("Count() = %d want 2", occ.Count())
	}
}

func TestSpawnTargetAvoidsBody(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := &State{Size: 3, Body: []Point{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {1, 1}, {0, 1}, {0, 2}, {1, 2}}}
	for i := 0; i < 20; i++ {
		p, ok := SpawnTarget(s, rng)
		if !ok {
			t.Fatalf("expected a free cell")
		}
		if p != (Point{2, 2}) {
			t.Fatalf("SpawnTarget() = %v, only (2,2) is free\n%s", p, dumpState(s))
		}
	}

	s.Body = append(s.Body, Point{2, 2})
	if _, ok := SpawnTarget(s, rng); ok {
		t.Fatalf("full board should have no target")
	}
}

func TestSpawnTargetDeterministicWithoutRNG(t *testing.T) {
	s := &State{Size: 8, Body: []Point{{3, 3}, {3, 4}}}
	a, _ := SpawnTarget(s, nil)
	b, _ := SpawnTarget(s, nil)
	if a != b {
		t.Fatalf("nil rng placement should be stable: %v vs %v", a, b)
	}
}

func TestNewStateIsValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		s := NewState(6, rng)
		if err := s.Validate(); err != nil {
			t.Fatalf("NewState produced invalid state: %v\n%s", err, dumpState(s))
		}
	}
}
