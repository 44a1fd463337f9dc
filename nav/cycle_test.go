package nav

import (
	"errors"
	"testing"

	"github.com/brensch/snekpath/game"
)

func TestBuildCycleIsHamiltonian(t *testing.T) {
	for n := 2; n <= 12; n += 2 {
		c, err := BuildCycle(n)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if c.Len() != n*n || c.Size() != n {
			t.Fatalf("n=%d: len %d size %d", n, c.Len(), c.Size())
		}

		seen := game.NewOccupancy(n)
		for i := 0; i < c.Len(); i++ {
			p := c.At(i)
			if !game.InBounds(p, n) {
				t.Fatalf("n=%d: cell %v off board", n, p)
			}
			if seen.Has(p) {
				t.Fatalf("n=%d: cell %v visited twice", n, p)
			}
			seen.Set(p)

			if next := c.At(i + 1); game.Manhattan(p, next) != 1 {
				t.Fatalf("n=%d: %v -> %v at %d is not adjacent", n, p, next, i)
			}
			if c.IndexOf(p) != i {
				t.Fatalf("n=%d: IndexOf(%v) = %d, want %d", n, p, c.IndexOf(p), i)
			}
		}
		if seen.Count() != n*n {
			t.Fatalf("n=%d: visited %d cells", n, seen.Count())
		}
	}
}

func TestBuildCycleRejectsOddSizes(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5, 9} {
		if _, err := BuildCycle(n); !errors.Is(err, ErrNoCycle) {
			t.Errorf("n=%d: err = %v, want ErrNoCycle", n, err)
		}
	}
}

func TestBuildCycleRejectsOversized(t *testing.T) {
	if _, err := BuildCycle(MaxSize + 2); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestCycleLayout(t *testing.T) {
	c := mustCycle(4)
	want := []game.Point{
		pt(0, 0), pt(1, 0), pt(2, 0), pt(3, 0),
		pt(3, 1), pt(2, 1), pt(1, 1),
		pt(1, 2), pt(2, 2), pt(3, 2),
		pt(3, 3), pt(2, 3), pt(1, 3),
		pt(0, 3), pt(0, 2), pt(0, 1),
	}
	got := c.Cells()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d = %v, want %v (tour %v)", i, got[i], want[i], got)
		}
	}

	got[0] = pt(3, 3)
	if c.At(0) != pt(0, 0) {
		t.Error("Cells must return a copy")
	}
}

func TestCycleNavigation(t *testing.T) {
	c := mustCycle(6)
	last := c.At(c.Len() - 1)

	if c.Next(last) != c.At(0) {
		t.Errorf("Next(%v) = %v, want wrap to %v", last, c.Next(last), c.At(0))
	}
	if c.At(-1) != last {
		t.Errorf("At(-1) = %v, want %v", c.At(-1), last)
	}
	if c.IndexOf(pt(6, 0)) != -1 || c.IndexOf(pt(0, -1)) != -1 {
		t.Error("off-board cells should index to -1")
	}

	for i := 0; i < c.Len(); i++ {
		if d := c.Distance(i, i); d != 0 {
			t.Fatalf("Distance(%d,%d) = %d", i, i, d)
		}
		prev := (i + c.Len() - 1) % c.Len()
		if d := c.Distance(i, prev); d != c.Len()-1 {
			t.Fatalf("Distance(%d,%d) = %d, want %d", i, prev, d, c.Len()-1)
		}
	}
	if d := c.Distance(30, 2); d != 8 {
		t.Errorf("Distance(30,2) = %d, want 8", d)
	}
}
