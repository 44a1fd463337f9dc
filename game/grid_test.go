package game

import "testing"

func TestNeighbors(t *testing.T) {
	tests := []struct {
		p    Point
		want []Point
	}{
		{Point{0, 0}, []Point{{0, 1}, {1, 0}}},
		{Point{2, 2}, []Point{{2, 1}, {2, 3}, {1, 2}, {3, 2}}},
		{Point{4, 4}, []Point{{4, 3}, {3, 4}}},
	}
	for _, tt := range tests {
		got := Neighbors(tt.p, 5)
		if len(got) != len(tt.want) {
			t.Fatalf("Neighbors(%v) = %v want %v", tt.p, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Neighbors(%v) = %v want %v", tt.p, got, tt.want)
			}
		}
	}
}

func TestManhattan(t *testing.T) {
	if d := Manhattan(Point{0, 0}, Point{3, 4}); d != 7 {
		t.Fatalf("Manhattan = %d want 7", d)
	}
	if d := Manhattan(Point{5, 1}, Point{2, 3}); d != 5 {
		t.Fatalf("Manhattan = %d want 5", d)
	}
}

func TestDirectionRoundTrip(t *testing.T) {
	p := Point{2, 2}
	for _, d := range Directions {
		q := p.Move(d)
		got, ok := DirectionTo(p, q)
		if !ok || got != d {
			t.Fatalf("DirectionTo(%v,%v) = %v,%v want %v", p, q, got, ok, d)
		}
		if back, ok := DirectionTo(q, p); !ok || q.Move(back) != p {
			t.Fatalf("no way back from %v to %v", q, p)
		}
	}
	if _, ok := DirectionTo(Point{0, 0}, Point{1, 1}); ok {
		t.Fatalf("diagonal cells are not adjacent")
	}
}

func TestOccupancyCount(t *testing.T) {
	o := OccupancyOf(3, Point{0, 0}, Point{1, 1}, Point{1, 1})
	if o.Count() != 2 {
		t.Fatalf("Count() = %d want 2", o.Count())
	}
	o.Clear(Point{0, 0})
	o.Clear(Point{0, 0})
	if o.Count() != 1 || o.Has(Point{0, 0}) {
		t.Fatalf("Clear did not unmark")
	}
	if o.Has(Point{-1, 0}) || o.Has(Point{3, 3}) {
		t.Fatalf("out of bounds cells are never marked")
	}
	c := o.Clone()
	c.Set(Point{2, 2})
	if o.Has(Point{2, 2}) {
		t.Fatalf("clone shares cells")
	}
}

func TestRender(t *testing.T) {
	s := &State{Size: 3, Body: []Point{{1, 1}, {1, 2}}, Target: Point{2, 0}}
	got := Render(s, Point{0, 0}, Point{1, 1})
	want := "* . F\n. O .\n. o .\n"
	if got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
	if Render(nil) != "" {
		t.Error("nil state should render empty")
	}
}
