package grid

import (
	"math"
	"unsafe"

	"github.com/pkg/errors"
)

// Convert copies g into a new owned grid with lane type U, converting each
// lane with Cast.
func Convert[U, T Number](g *Grid[T]) *Grid[U] {
	out, _ := NewVector[U](g.rows, g.cols, g.lanes)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			src, dst := g.Cell(r, c), out.Cell(r, c)
			for i, v := range src {
				dst[i] = Cast[U](v)
			}
		}
	}
	return out
}

// Map returns an owned grid with fn applied to every lane.
func Map[U, T Number](g *Grid[T], fn func(T) U) *Grid[U] {
	out, _ := NewVector[U](g.rows, g.cols, g.lanes)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			src, dst := g.Cell(r, c), out.Cell(r, c)
			for i, v := range src {
				dst[i] = fn(v)
			}
		}
	}
	return out
}

// Sum returns the per-lane sum of all elements, accumulated in float64.
func Sum[T Number](g *Grid[T]) []float64 {
	sums := make([]float64, g.lanes)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			for i, v := range g.Cell(r, c) {
				sums[i] += float64(v)
			}
		}
	}
	return sums
}

// Pad surrounds g with count rows and columns on every side, each lane set
// to value. The source is copied into the centre.
func Pad[T Number](g *Grid[T], count int, value T) (*Grid[T], error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid: pad count %d", count)
	}
	out, err := NewVector[T](g.rows+2*count, g.cols+2*count, g.lanes)
	if err != nil {
		return nil, err
	}
	out.Fill(value)
	inner, err := out.Sub(count, count, g.rows, g.cols)
	if err != nil {
		return nil, err
	}
	inner.CopyFrom(g)
	return out, nil
}

// Flatten returns lane lane of every element in row-major order.
func Flatten[T Number](g *Grid[T], lane int) []T {
	out := make([]T, 0, g.rows*g.cols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			out = append(out, g.Cell(r, c)[lane])
		}
	}
	return out
}

// IsFloat reports whether T is a floating-point lane type.
func IsFloat[T Number]() bool {
	half := 0.5
	return T(half) != 0
}

// FromFloat narrows v to T. Integer lane types truncate toward zero and
// saturate at the bounds of T; NaN becomes zero. Go leaves out-of-range
// float-to-integer conversions implementation-defined, so they never reach
// the conversion itself.
func FromFloat[T Number](v float64) T {
	if IsFloat[T]() {
		return T(v)
	}
	if math.IsNaN(v) {
		return 0
	}
	var zero T
	bits := int(8 * unsafe.Sizeof(zero))
	if zero-1 < zero {
		lim := math.Ldexp(1, bits-1) // -lim is representable, lim is not
		switch {
		case v >= lim:
			return T(int64(^uint64(0) >> (65 - bits)))
		case v < -lim:
			return T(-int64(^uint64(0)>>(65-bits)) - 1)
		}
		return T(int64(v))
	}
	switch {
	case v >= math.Ldexp(1, bits):
		return T(^uint64(0) >> (64 - bits))
	case v <= 0:
		return 0
	}
	return T(uint64(v))
}

// Cast converts one lane value between lane types. Float-to-integer
// conversions go through FromFloat; everything else follows Go rules.
func Cast[U, T Number](v T) U {
	if IsFloat[T]() && !IsFloat[U]() {
		return FromFloat[U](float64(v))
	}
	return U(v)
}
