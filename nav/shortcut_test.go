package nav

import (
	"testing"

	"github.com/brensch/snekpath/game"
)

func TestFindShortcut(t *testing.T) {
	c := mustCycle(4)

	tests := []struct {
		name      string
		state     *game.State
		threshold float64
		want      game.Point
		wantOK    bool
	}{
		{
			name:      "jump straight to the target",
			state:     newState(4, pt(0, 1), pt(0, 0)),
			threshold: 0.7,
			want:      pt(0, 1),
			wantOK:    true,
		},
		{
			name:      "first reducing neighbour wins",
			state:     newState(4, pt(0, 1), pt(1, 2)),
			threshold: 0.7,
			want:      pt(1, 3),
			wantOK:    true,
		},
		{
			name:      "tail cell counts as blocked",
			state:     newState(4, pt(0, 1), pt(1, 2), pt(0, 2)),
			threshold: 0.7,
			want:      pt(1, 3),
			wantOK:    true,
		},
		{
			name:      "disabled above threshold",
			state:     newState(4, pt(0, 1), pt(0, 0)),
			threshold: 0.05,
			wantOK:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindShortcut(tt.state, c, tt.threshold)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("FindShortcut = %v,%v want %v,%v\n%s", got, ok, tt.want, tt.wantOK, dumpState(tt.state, got))
			}
		})
	}
}

func TestFindShortcutKeepsTailReachable(t *testing.T) {
	c := mustCycle(6)
	for head := 0; head < c.Len(); head++ {
		s := newState(6, pt(0, 0), bodyAlongCycle(c, head, 10)...)
		if contains(s.Body, s.Target) {
			continue
		}
		next, ok := FindShortcut(s, c, 0.7)
		if !ok {
			continue
		}
		if contains(s.Body, next) {
			t.Fatalf("head %d: shortcut %v lands on the body\n%s", head, next, dumpState(s, next))
		}
		if !TailReachableAfter(s, next) {
			t.Fatalf("head %d: shortcut %v loses the tail\n%s", head, next, dumpState(s, next))
		}
		tgt := c.IndexOf(s.Target)
		if c.Distance(c.IndexOf(next), tgt) >= c.Distance(c.IndexOf(s.Head()), tgt) {
			t.Fatalf("head %d: shortcut %v does not reduce the tour distance", head, next)
		}
	}
}

func contains(ps []game.Point, p game.Point) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
