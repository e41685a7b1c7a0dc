// Package food implements the fixed-resolution food grid cells graze on.
package food

import (
	"math"

	"github.com/pthm-cable/cellsim/random"
)

// Item is a single food pellet centred on its grid cell.
type Item struct {
	X, Y uint32
}

// Field is a cols x rows grid where each cell holds at most one Item.
// Storage is flat, row-major.
type Field struct {
	cols, rows int
	spacing    int
	items      []Item
	occupied   []bool
}

// NewField creates an empty field covering width x height world units.
func NewField(width, height, spacing int) *Field {
	cols := width / spacing
	rows := height / spacing

	f := &Field{
		cols:     cols,
		rows:     rows,
		spacing:  spacing,
		items:    make([]Item, cols*rows),
		occupied: make([]bool, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			f.items[row*cols+col] = Item{
				X: uint32(col*spacing + spacing/2),
				Y: uint32(row*spacing + spacing/2),
			}
		}
	}

	return f
}

// Dims returns the grid dimensions.
func (f *Field) Dims() (cols, rows int) { return f.cols, f.rows }

// Spacing returns the distance between neighbouring grid cells.
func (f *Field) Spacing() int { return f.spacing }

// Fill places an item in every grid cell.
func (f *Field) Fill() {
	for i := range f.occupied {
		f.occupied[i] = true
	}
}

// SpawnPass inserts an item into each empty grid cell with probability
// 1/density. Occupied cells are never touched.
func (f *Field) SpawnPass(density int, rng *random.Stream) {
	if density < 1 {
		density = 1
	}
	chance := 1.0 / float64(density)

	for i, ok := range f.occupied {
		if !ok && rng.Float64() < chance {
			f.occupied[i] = true
		}
	}
}

// FindAndConsumeNearest removes the item in the grid cell nearest to (x, y)
// if it lies within eatDistance, reporting whether anything was eaten.
// Distance is sqrt(|dx|+|dy|), not Euclidean; gameplay is balanced on it.
func (f *Field) FindAndConsumeNearest(x, y, eatDistance float64) bool {
	idx, ok := f.nearest(x, y)
	if !ok || !f.occupied[idx] {
		return false
	}

	item := f.items[idx]
	dx := math.Abs(float64(item.X) - x)
	dy := math.Abs(float64(item.Y) - y)
	if math.Sqrt(dx+dy) > eatDistance {
		return false
	}

	f.occupied[idx] = false
	return true
}

// Occupied reports whether the grid cell holds an item.
// Out-of-range cells are empty.
func (f *Field) Occupied(col, row int) bool {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return false
	}
	return f.occupied[row*f.cols+col]
}

// place puts an item into the grid cell and returns its position.
func (f *Field) place(col, row int) (Item, bool) {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return Item{}, false
	}
	idx := row*f.cols + col
	f.occupied[idx] = true
	return f.items[idx], true
}

// CellAt returns the grid coordinates nearest to the world position.
func (f *Field) CellAt(x, y float64) (col, row int) {
	half := float64(f.spacing) / 2
	s := float64(f.spacing)
	return int(math.Round((x - half) / s)), int(math.Round((y - half) / s))
}

// Count returns the number of occupied grid cells.
func (f *Field) Count() int {
	n := 0
	for _, ok := range f.occupied {
		if ok {
			n++
		}
	}
	return n
}

// Availability returns the occupied fraction of the grid, computed on demand.
func (f *Field) Availability() float64 {
	total := len(f.occupied)
	if total == 0 {
		return 0
	}
	return float64(f.Count()) / float64(total)
}

// Items returns the occupied items in row-major order.
func (f *Field) Items() []Item {
	out := make([]Item, 0, f.Count())
	for i, ok := range f.occupied {
		if ok {
			out = append(out, f.items[i])
		}
	}
	return out
}

// nearest maps a world position to a flat grid index.
func (f *Field) nearest(x, y float64) (int, bool) {
	col, row := f.CellAt(x, y)
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return 0, false
	}
	return row*f.cols + col, true
}
