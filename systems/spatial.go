// Package systems provides the per-cell behaviour run by the simulator.
package systems

// bucketKey identifies one square of the mating hash.
type bucketKey struct {
	col, row uint32
}

// MatingGrid is a coarse spatial hash used to pair cells for mating.
// Each bucket remembers the first cell registered in it during a tick;
// the next cell to land in the same bucket is its partner.
type MatingGrid struct {
	radius  uint32
	buckets map[bucketKey]int
}

// NewMatingGrid creates an empty grid with square buckets of side radius.
func NewMatingGrid(radius int) *MatingGrid {
	if radius < 1 {
		radius = 1
	}
	return &MatingGrid{
		radius:  uint32(radius),
		buckets: make(map[bucketKey]int, 64),
	}
}

// Clear empties the grid so it can be reused for the next tick.
func (g *MatingGrid) Clear() {
	clear(g.buckets)
}

// Len returns the number of occupied buckets.
func (g *MatingGrid) Len() int {
	return len(g.buckets)
}

// Register places index in the bucket covering (x, y).
// If the bucket already holds a different index, that index is returned
// and the bucket is left unchanged.
func (g *MatingGrid) Register(index int, x, y uint32) (occupant int, found bool) {
	key := g.key(x, y)
	if other, ok := g.buckets[key]; ok && other != index {
		return other, true
	}
	g.buckets[key] = index
	return 0, false
}

// occupant returns the index registered in the bucket covering (x, y).
func (g *MatingGrid) occupant(x, y uint32) (int, bool) {
	idx, ok := g.buckets[g.key(x, y)]
	return idx, ok
}

func (g *MatingGrid) key(x, y uint32) bucketKey {
	return bucketKey{col: x / g.radius, row: y / g.radius}
}
