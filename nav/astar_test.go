package nav

import (
	"math/rand"
	"testing"

	"github.com/brensch/snekpath/game"
)

func checkPath(t *testing.T, path []game.Point, start, goal game.Point, blocked *game.Occupancy) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("empty path from %v to %v", start, goal)
	}
	if path[0] != start || path[len(path)-1] != goal {
		t.Fatalf("path endpoints %v..%v, want %v..%v", path[0], path[len(path)-1], start, goal)
	}
	for i := 1; i < len(path); i++ {
		if game.Manhattan(path[i-1], path[i]) != 1 {
			t.Fatalf("step %d: %v -> %v is not a single move", i, path[i-1], path[i])
		}
		if i < len(path)-1 && blocked.Has(path[i]) {
			t.Fatalf("step %d: %v is blocked", i, path[i])
		}
	}
}

func TestFindPathStraightLine(t *testing.T) {
	got := FindPath(pt(1, 1), pt(3, 1), game.NewOccupancy(4))
	want := []game.Point{pt(1, 1), pt(2, 1), pt(3, 1)}
	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path = %v, want %v", got, want)
		}
	}
}

func TestFindPathSameCell(t *testing.T) {
	got := FindPath(pt(2, 2), pt(2, 2), game.NewOccupancy(4))
	if len(got) != 1 || got[0] != pt(2, 2) {
		t.Fatalf("path = %v, want single cell", got)
	}
}

func TestFindPathAroundWall(t *testing.T) {
	blocked := wallColumn(5, 2)
	blocked.Clear(pt(2, 4))

	path := FindPath(pt(0, 0), pt(4, 0), blocked)
	checkPath(t, path, pt(0, 0), pt(4, 0), blocked)
	if len(path) != 13 {
		t.Errorf("path length %d, want 13 cells: %v", len(path), path)
	}
}

func TestFindPathUnreachable(t *testing.T) {
	if got := FindPath(pt(0, 0), pt(3, 3), wallColumn(4, 1)); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := FindPath(pt(0, 0), pt(9, 9), game.NewOccupancy(4)); got != nil {
		t.Errorf("off-board goal: expected nil, got %v", got)
	}
}

func TestFindPathEnclosedTarget(t *testing.T) {
	s := newState(4, pt(3, 3), pt(1, 3), pt(2, 3), pt(2, 2), pt(3, 2), pt(3, 1), pt(3, 0))
	if got := FindPath(s.Head(), s.Target, s.Blocked(1)); got != nil {
		t.Errorf("target is walled off, got path %v\n%s", got, dumpState(s))
	}
	tail := FindPath(s.Head(), s.Tail(), s.Blocked(1))
	if len(tail) == 0 {
		t.Fatalf("tail should be reachable\n%s", dumpState(s))
	}
	checkPath(t, tail, s.Head(), s.Tail(), s.Blocked(1))
}

func TestFindPathGoalMayBeBlocked(t *testing.T) {
	blocked := game.OccupancyOf(4, pt(3, 0))
	path := FindPath(pt(0, 0), pt(3, 0), blocked)
	if len(path) != 4 {
		t.Fatalf("path = %v, want 4 cells", path)
	}
}

func TestFindPathIsShortest(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 10
	for trial := 0; trial < 300; trial++ {
		blocked := game.NewOccupancy(n)
		for i := 0; i < n*n; i++ {
			if rng.Float64() < 0.25 {
				blocked.Set(game.At(i, n))
			}
		}
		start := game.At(rng.Intn(n*n), n)
		goal := game.At(rng.Intn(n*n), n)

		want := bfsDistance(start, goal, blocked)
		path := FindPath(start, goal, blocked)
		if want < 0 {
			if path != nil {
				t.Fatalf("trial %d: expected no path, got %v", trial, path)
			}
			continue
		}
		checkPath(t, path, start, goal, blocked)
		if len(path)-1 != want {
			t.Fatalf("trial %d: path %v has %d steps, shortest is %d", trial, path, len(path)-1, want)
		}
		if len(path)-1 < game.Manhattan(start, goal) {
			t.Fatalf("trial %d: path shorter than manhattan distance", trial)
		}
	}
}

func TestFindPathWeightedStaysValid(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 12
	for trial := 0; trial < 100; trial++ {
		blocked := game.NewOccupancy(n)
		for i := 0; i < n*n; i++ {
			if rng.Float64() < 0.2 {
				blocked.Set(game.At(i, n))
			}
		}
		start := game.At(rng.Intn(n*n), n)
		goal := game.At(rng.Intn(n*n), n)

		path := FindPath(start, goal, blocked, WithHeuristicWeight(2.5))
		if bfsDistance(start, goal, blocked) < 0 {
			if path != nil {
				t.Fatalf("trial %d: expected no path, got %v", trial, path)
			}
			continue
		}
		checkPath(t, path, start, goal, blocked)
	}
}

func BenchmarkFindPath(b *testing.B) {
	const n = 20
	blocked := game.NewOccupancy(n)
	for y := 2; y < n; y += 4 {
		for x := 0; x < n-1; x++ {
			blocked.Set(pt(x, y))
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if FindPath(pt(0, 0), pt(0, n-1), blocked) == nil {
			b.Fatal("no path")
		}
	}
}
