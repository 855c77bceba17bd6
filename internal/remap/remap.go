// Package remap rescales unbounded numeric responses into a bounded range,
// usually the natural range of an integer pixel type.
package remap

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

// Limits returns the natural bounds of U: 0..255 for uint8, −128..127 for
// int8, ±MaxFloat32 for float32 and so on. For 64-bit integers the upper
// bound is the largest float64 below 2^63 (2^64 unsigned), so that it
// narrows back into U.
func Limits[U grid.Number]() (lo, hi float64) {
	var zero U
	bits := int(8 * unsafe.Sizeof(zero))
	if grid.IsFloat[U]() {
		if bits == 32 {
			return -math.MaxFloat32, math.MaxFloat32
		}
		return -math.MaxFloat64, math.MaxFloat64
	}
	one := U(1)
	if zero-one < zero {
		lo, hi = -math.Ldexp(1, bits-1), math.Ldexp(1, bits-1)
	} else {
		lo, hi = 0, math.Ldexp(1, bits)
	}
	if top := hi - 1; top < hi {
		return lo, top
	}
	return lo, math.Nextafter(hi, 0)
}

// Remap applies dstMin + (v − srcMin)/(srcMax − srcMin)·(dstMax − dstMin) to
// every lane in float64 and truncates the result to U. Values outside
// [srcMin, srcMax] are not clamped.
func Remap[U, T grid.Number](g *grid.Grid[T], srcMin, srcMax, dstMin, dstMax float64) (*grid.Grid[U], error) {
	mins := make([]float64, g.Lanes())
	maxs := make([]float64, g.Lanes())
	for i := range mins {
		mins[i], maxs[i] = srcMin, srcMax
	}
	return lanewise[U](g, mins, maxs, dstMin, dstMax)
}

// RemapAuto remaps every lane from its own observed range onto
// [dstMin, dstMax]. A lane holding a single value has no range to map and
// yields ErrDegenerateRange.
func RemapAuto[U, T grid.Number](g *grid.Grid[T], dstMin, dstMax float64) (*grid.Grid[U], error) {
	lo, err := ChannelwiseMin(g)
	if err != nil {
		return nil, err
	}
	hi, err := ChannelwiseMax(g)
	if err != nil {
		return nil, err
	}
	mins := make([]float64, len(lo))
	maxs := make([]float64, len(hi))
	for i := range lo {
		mins[i], maxs[i] = float64(lo[i]), float64(hi[i])
	}
	return lanewise[U](g, mins, maxs, dstMin, dstMax)
}

// ToType remaps g onto the full natural range of U, lane by lane.
func ToType[U, T grid.Number](g *grid.Grid[T]) (*grid.Grid[U], error) {
	lo, hi := Limits[U]()
	return RemapAuto[U](g, lo, hi)
}

func lanewise[U, T grid.Number](g *grid.Grid[T], srcMin, srcMax []float64, dstMin, dstMax float64) (*grid.Grid[U], error) {
	for i := range srcMin {
		if srcMax[i] == srcMin[i] {
			return nil, errors.Wrapf(grid.ErrDegenerateRange, "remap: lane %d spans [%v, %v]", i, srcMin[i], srcMax[i])
		}
	}
	dstLen := dstMax - dstMin
	out, err := grid.NewVector[U](g.Rows(), g.Columns(), g.Lanes())
	if err != nil {
		return nil, err
	}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			src, dst := g.Cell(r, c), out.Cell(r, c)
			for i, v := range src {
				dst[i] = grid.FromFloat[U](dstMin + (float64(v)-srcMin[i])/(srcMax[i]-srcMin[i])*dstLen)
			}
		}
	}
	return out, nil
}

// ChannelwiseMin returns, per lane, the smallest value across all cells.
func ChannelwiseMin[T grid.Number](g *grid.Grid[T]) ([]T, error) {
	return reduce(g, func(a, b T) bool { return b < a })
}

// ChannelwiseMax returns, per lane, the largest value across all cells.
func ChannelwiseMax[T grid.Number](g *grid.Grid[T]) ([]T, error) {
	return reduce(g, func(a, b T) bool { return b > a })
}

func reduce[T grid.Number](g *grid.Grid[T], better func(cur, cand T) bool) ([]T, error) {
	if g.Empty() {
		return nil, errors.Wrap(grid.ErrInvalidArgument, "remap: empty grid has no extrema")
	}
	acc := append([]T(nil), g.Cell(0, 0)...)
	g.Each(func(_, _ int, cell []T) {
		for i, v := range cell {
			if better(acc[i], v) {
				acc[i] = v
			}
		}
	})
	return acc, nil
}
