package game

// Direction is one of the four cardinal moves.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every move in the order used for neighbour expansion and
// tie breaking.
var Directions = [4]Direction{Up, Down, Left, Right}

var directionNames = [4]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// DirectionTo returns the move that takes from to the adjacent cell to.
// ok is false when the cells are not grid neighbours.
func DirectionTo(from, to Point) (Direction, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	switch {
	case dx == 1 && dy == 0:
		return Right, true
	case dx == -1 && dy == 0:
		return Left, true
	case dx == 0 && dy == 1:
		return Down, true
	case dx == 0 && dy == -1:
		return Up, true
	}
	return Up, false
}

// InBounds reports whether p lies on an n×n board.
func InBounds(p Point, n int) bool {
	return p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n
}

// Manhattan is |x1-x2| + |y1-y2|.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Neighbors returns the in-bounds cells adjacent to p, in Directions order.
func Neighbors(p Point, n int) []Point {
	out := make([]Point, 0, 4)
	for _, d := range Directions {
		q := p.Move(d)
		if InBounds(q, n) {
			out = append(out, q)
		}
	}
	return out
}

// Index flattens p into a row-major offset.
func Index(p Point, n int) int { return p.Y*n + p.X }

// At is the inverse of Index.
func At(i, n int) Point { return Point{X: i % n, Y: i / n} }

// Occupancy is a dense bitmap over the cells of an n×n board.
type Occupancy struct {
	n     int
	cells []bool
	count int
}

func NewOccupancy(n int) *Occupancy {
	return &Occupancy{n: n, cells: make([]bool, n*n)}
}

// OccupancyOf marks every point in ps.
func OccupancyOf(n int, ps ...Point) *Occupancy {
	o := NewOccupancy(n)
	for _, p := range ps {
		o.Set(p)
	}
	return o
}

func (o *Occupancy) Size() int { return o.n }

// Count is the number of marked cells.
func (o *Occupancy) Count() int { return o.count }

// Has reports whether p is marked. Out-of-bounds cells are never marked.
func (o *Occupancy) Has(p Point) bool {
	if o == nil || !InBounds(p, o.n) {
		return false
	}
	return o.cells[Index(p, o.n)]
}

func (o *Occupancy) Set(p Point) {
	if !InBounds(p, o.n) {
		return
	}
	i := Index(p, o.n)
	if !o.cells[i] {
		o.cells[i] = true
		o.count++
	}
}

func (o *Occupancy) Clear(p Point) {
	if !InBounds(p, o.n) {
		return
	}
	i := Index(p, o.n)
	if o.cells[i] {
		o.cells[i] = false
		o.count--
	}
}

// Clone performs a deep copy.
func (o *Occupancy) Clone() *Occupancy {
	out := &Occupancy{n: o.n, cells: make([]bool, len(o.cells)), count: o.count}
	copy(out.cells, o.cells)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
