// Package grid implements the numeric grid shared by every stage of flash:
// a rows × columns array of elements, each element being a fixed number of
// numeric lanes (one lane for scalar grids).
//
// A Grid either owns its storage or is a view aliasing somebody else's
// memory (typically the pixel buffer of an image). Views are addressed
// through a row stride and a column step so that a single channel of an
// interleaved pixel buffer can be exposed without copying. A view must not
// outlive the memory it aliases, and mutating a view and its source from
// different goroutines is a data race.
package grid

import (
	"github.com/pkg/errors"
)

// Number is the set of lane types a Grid can hold.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Grid is a 2-D array of elements with Lanes() lanes each.
type Grid[T Number] struct {
	data   []T
	rows   int
	cols   int
	lanes  int
	stride int // elements between the first lanes of consecutive rows
	step   int // elements between the first lanes of horizontally adjacent cells
	view   bool
}

// New allocates an owned scalar grid filled with zeros.
func New[T Number](rows, cols int) (*Grid[T], error) {
	return NewVector[T](rows, cols, 1)
}

// NewVector allocates an owned grid whose elements have the given number of
// lanes. Rows and columns may be zero; negative sizes and lanes < 1 are
// rejected.
func NewVector[T Number](rows, cols, lanes int) (*Grid[T], error) {
	if rows < 0 || cols < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid: negative shape %dx%d", rows, cols)
	}
	if lanes < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid: lane count %d", lanes)
	}
	return &Grid[T]{
		data:   make([]T, rows*cols*lanes),
		rows:   rows,
		cols:   cols,
		lanes:  lanes,
		stride: cols * lanes,
		step:   lanes,
	}, nil
}

// NewView wraps existing memory without copying. stride and step are in
// units of T. The caller keeps ownership of data.
func NewView[T Number](data []T, rows, cols, lanes, stride, step int) (*Grid[T], error) {
	if rows < 0 || cols < 0 || lanes < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid: view shape %dx%dx%d", rows, cols, lanes)
	}
	if step < lanes || stride < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid: view step %d stride %d for %d lanes", step, stride, lanes)
	}
	if rows > 0 && cols > 0 {
		last := (rows-1)*stride + (cols-1)*step + lanes
		if last > len(data) {
			return nil, errors.Wrapf(ErrInvalidArgument, "grid: view needs %d elements, buffer has %d", last, len(data))
		}
	}
	return &Grid[T]{
		data:   data,
		rows:   rows,
		cols:   cols,
		lanes:  lanes,
		stride: stride,
		step:   step,
		view:   true,
	}, nil
}

// FromRows builds an owned scalar grid from row slices; every row must have
// the same length.
func FromRows[T Number](rows [][]T) (*Grid[T], error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	g, err := New[T](len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, errors.Wrapf(ErrInvalidArgument, "grid: row %d has %d columns, want %d", i, len(row), cols)
		}
		copy(g.data[i*g.stride:], row)
	}
	return g, nil
}

func (g *Grid[T]) Rows() int    { return g.rows }
func (g *Grid[T]) Columns() int { return g.cols }
func (g *Grid[T]) Lanes() int   { return g.lanes }

// IsView reports whether the grid aliases memory it does not own.
func (g *Grid[T]) IsView() bool { return g.view }

// Empty reports whether the grid has no cells.
func (g *Grid[T]) Empty() bool { return g.rows == 0 || g.cols == 0 }

// Shaped is anything with grid dimensions.
type Shaped interface {
	Rows() int
	Columns() int
	Lanes() int
}

// SameShape reports whether o has the same rows, columns and lanes.
func (g *Grid[T]) SameShape(o Shaped) bool {
	return g.rows == o.Rows() && g.cols == o.Columns() && g.lanes == o.Lanes()
}

func (g *Grid[T]) offset(r, c int) int {
	return r*g.stride + c*g.step
}

// Cell returns the lanes of element (r, c). The slice aliases the grid.
func (g *Grid[T]) Cell(r, c int) []T {
	off := g.offset(r, c)
	return g.data[off : off+g.lanes : off+g.lanes]
}

// At returns lane 0 of element (r, c).
func (g *Grid[T]) At(r, c int) T {
	return g.data[g.offset(r, c)]
}

// Set writes lane 0 of element (r, c).
func (g *Grid[T]) Set(r, c int, v T) {
	g.data[g.offset(r, c)] = v
}

// SetCell copies lanes into element (r, c).
func (g *Grid[T]) SetCell(r, c int, lanes []T) {
	copy(g.Cell(r, c), lanes)
}

// Row returns row r as a contiguous slice when the grid is compact.
// It returns nil for strided views.
func (g *Grid[T]) Row(r int) []T {
	if g.step != g.lanes {
		return nil
	}
	off := r * g.stride
	return g.data[off : off+g.cols*g.lanes]
}

// Fill sets every lane of every element to v.
func (g *Grid[T]) Fill(v T) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := g.Cell(r, c)
			for i := range cell {
				cell[i] = v
			}
		}
	}
}

// Clone returns an owned, compact copy.
func (g *Grid[T]) Clone() *Grid[T] {
	out, _ := NewVector[T](g.rows, g.cols, g.lanes)
	out.CopyFrom(g)
	return out
}

// CopyFrom copies src into g cell by cell. Shapes must match.
func (g *Grid[T]) CopyFrom(src *Grid[T]) {
	if !g.SameShape(src) {
		panic("grid: CopyFrom shape mismatch")
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			copy(g.Cell(r, c), src.Cell(r, c))
		}
	}
}

// Sub returns a view of the rows × cols block starting at (r0, c0).
func (g *Grid[T]) Sub(r0, c0, rows, cols int) (*Grid[T], error) {
	if r0 < 0 || c0 < 0 || rows < 0 || cols < 0 || r0+rows > g.rows || c0+cols > g.cols {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid: block %dx%d at (%d,%d) outside %dx%d",
			rows, cols, r0, c0, g.rows, g.cols)
	}
	data := g.data
	if rows > 0 && cols > 0 {
		data = g.data[g.offset(r0, c0):]
	}
	return &Grid[T]{
		data:   data,
		rows:   rows,
		cols:   cols,
		lanes:  g.lanes,
		stride: g.stride,
		step:   g.step,
		view:   true,
	}, nil
}

// Equal reports whether both grids have the same shape and lane values.
func (g *Grid[T]) Equal(o *Grid[T]) bool {
	if !g.SameShape(o) {
		return false
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			a, b := g.Cell(r, c), o.Cell(r, c)
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
		}
	}
	return true
}

// Each calls fn for every element in row-major order.
func (g *Grid[T]) Each(fn func(r, c int, cell []T)) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			fn(r, c, g.Cell(r, c))
		}
	}
}
