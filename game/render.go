package game

import (
	"strings"
)

// Render draws the board with y=0 on the first line: O is the head, o the
// body, F the target and * any marked cell that is otherwise free.
func Render(s *State, marks ...Point) string {
	if s == nil || s.Size <= 0 {
		return ""
	}
	n := s.Size
	grid := make([]byte, n*n)
	for i := range grid {
		grid[i] = '.'
	}
	for _, p := range marks {
		if InBounds(p, n) {
			grid[Index(p, n)] = '*'
		}
	}
	if InBounds(s.Target, n) {
		grid[Index(s.Target, n)] = 'F'
	}
	for i, p := range s.Body {
		if !InBounds(p, n) {
			continue
		}
		if i == 0 {
			grid[Index(p, n)] = 'O'
		} else {
			grid[Index(p, n)] = 'o'
		}
	}

	var b strings.Builder
	b.Grow(n * (2*n + 1))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte(grid[y*n+x])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
