// target.go implements target placement for the simulator.

package game

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// SpawnTarget picks a uniformly random free cell for the next target.
// If rng is nil a seed is derived from the body so placement stays
// deterministic for tests. ok is false when the body fills the board.
func SpawnTarget(s *State, rng *rand.Rand) (Point, bool) {
	if s == nil || s.Size <= 0 {
		return Point{}, false
	}
	occ := s.Blocked(0)
	free := s.Cells() - occ.Count()
	if free <= 0 {
		return Point{}, false
	}

	if rng == nil {
		seed := int64(deterministicU64Fast(s, 0x5441524745545f31)) // "TARGET_1" salt
		if seed == 0 {
			seed = 1
		}
		rng = rand.New(rand.NewSource(seed))
	}

	// Pick the k-th free cell in row-major order instead of materialising
	// the free list.
	k := rng.Intn(free)
	for i := 0; i < s.Cells(); i++ {
		p := At(i, s.Size)
		if occ.Has(p) {
			continue
		}
		if k == 0 {
			return p, true
		}
		k--
	}
	return Point{}, false
}

// NewState places a single-cell agent and a target on an empty n×n board.
func NewState(n int, rng *rand.Rand) *State {
	s := &State{Size: n}
	if rng == nil {
		s.Body = []Point{{X: n / 2, Y: n / 2}}
	} else {
		s.Body = []Point{{X: rng.Intn(n), Y: rng.Intn(n)}}
	}
	if t, ok := SpawnTarget(s, rng); ok {
		s.Target = t
	}
	return s
}

func deterministicU64Fast(s *State, salt uint64) uint64 {
	// Mix board size, salt, length, head and tail.
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(uint32(s.Size)))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], salt)
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(len(s.Body)))
	_, _ = h.Write(buf[:])

	if len(s.Body) > 0 {
		head, tail := s.Head(), s.Tail()
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(head.X))<<32)|uint64(uint32(head.Y)))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], (uint64(uint32(tail.X))<<32)|uint64(uint32(tail.Y)))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
