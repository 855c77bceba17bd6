package detect

import (
	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

// Mask is a rows × columns grid of flags.
type Mask struct {
	rows, cols int
	bits       []bool
}

// NewMask returns a mask with every flag set to fill.
func NewMask(rows, cols int, fill bool) *Mask {
	m := &Mask{rows: rows, cols: cols, bits: make([]bool, rows*cols)}
	if fill {
		for i := range m.bits {
			m.bits[i] = true
		}
	}
	return m
}

func (m *Mask) Rows() int            { return m.rows }
func (m *Mask) Columns() int         { return m.cols }
func (m *Mask) At(r, c int) bool     { return m.bits[r*m.cols+c] }
func (m *Mask) Set(r, c int, v bool) { m.bits[r*m.cols+c] = v }

// Count returns the number of set flags.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Not returns the complement of m.
func (m *Mask) Not() *Mask {
	out := NewMask(m.rows, m.cols, false)
	for i, b := range m.bits {
		out.bits[i] = !b
	}
	return out
}

// Or returns the union of m and o, which must have the same shape.
func (m *Mask) Or(o *Mask) (*Mask, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "detect: mask %dx%d vs %dx%d", m.rows, m.cols, o.rows, o.cols)
	}
	out := NewMask(m.rows, m.cols, false)
	for i := range m.bits {
		out.bits[i] = m.bits[i] || o.bits[i]
	}
	return out, nil
}

// AtLeast marks the cells of a scalar grid whose value is at least t.
func AtLeast[T grid.Number](g *grid.Grid[T], t T) *Mask {
	out := NewMask(g.Rows(), g.Columns(), false)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			out.Set(r, c, g.At(r, c) >= t)
		}
	}
	return out
}

// NonMax marks the cells of a scalar response that survive non-maximum
// suppression over a window × window neighbourhood centred on each cell.
//
// A cell survives when it equals the neighbourhood maximum and at least one
// other cell of the neighbourhood reaches that maximum too. A strict, unique
// local maximum therefore does not survive.
//
// Cells closer than window to any border are not evaluated and keep padding.
// window must be odd and positive.
func NonMax[T grid.Number](g *grid.Grid[T], window int, padding bool) (*Mask, error) {
	if window < 1 || window%2 == 0 {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "detect: window %d must be odd and positive", window)
	}
	if g.Lanes() != 1 {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "detect: need a scalar grid, got %d lanes", g.Lanes())
	}
	out := NewMask(g.Rows(), g.Columns(), padding)
	half := window / 2
	for r := window; r < g.Rows()-window; r++ {
		for c := window; c < g.Columns()-window; c++ {
			centre := g.At(r, c)
			peak := centre
			for i := r - half; i <= r+half; i++ {
				for j := c - half; j <= c+half; j++ {
					if v := g.At(i, j); v > peak {
						peak = v
					}
				}
			}
			other := false
			for i := r - half; i <= r+half && !other; i++ {
				for j := c - half; j <= c+half; j++ {
					if (i != r || j != c) && g.At(i, j) == peak {
						other = true
						break
					}
				}
			}
			out.Set(r, c, other && centre == peak)
		}
	}
	return out, nil
}
