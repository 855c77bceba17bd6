// Package stencil implements 2-D convolution of numeric grids against small
// square kernels, plus the named derivative kernels the detectors build on.
package stencil

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/simmplecoder/flash/internal/grid"
)

// Kernel is an odd-sided square of coefficients. It is read-only once built;
// integer coefficients are stored exactly.
type Kernel struct {
	m *mat.Dense
}

// NewKernel builds a kernel from rows of coefficients.
func NewKernel(rows [][]float64) (Kernel, error) {
	n := len(rows)
	if n == 0 || n%2 == 0 {
		return Kernel{}, errors.Wrapf(grid.ErrInvalidArgument, "stencil: kernel side %d must be odd", n)
	}
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return Kernel{}, errors.Wrapf(grid.ErrInvalidArgument, "stencil: kernel row %d has %d entries, want %d", i, len(row), n)
		}
		data = append(data, row...)
	}
	return Kernel{m: mat.NewDense(n, n, data)}, nil
}

func mustKernel(rows [][]float64) Kernel {
	k, err := NewKernel(rows)
	if err != nil {
		panic(err)
	}
	return k
}

// Horizontal and vertical first-derivative (Sobel) kernels.
var (
	SobelX = mustKernel([][]float64{
		{1, 0, -1},
		{2, 0, -2},
		{1, 0, -1},
	})
	SobelY = mustKernel([][]float64{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	})
	Laplacian = mustKernel([][]float64{
		{0, 1, 0},
		{1, -4, 1},
		{0, 1, 0},
	})
)

// Identity returns the n×n kernel that reproduces interior cells.
func Identity(n int) (Kernel, error) {
	if n < 1 || n%2 == 0 {
		return Kernel{}, errors.Wrapf(grid.ErrInvalidArgument, "stencil: kernel side %d must be odd", n)
	}
	m := mat.NewDense(n, n, nil)
	m.Set(n/2, n/2, 1)
	return Kernel{m: m}, nil
}

// Box returns the n×n averaging kernel.
func Box(n int) (Kernel, error) {
	if n < 1 || n%2 == 0 {
		return Kernel{}, errors.Wrapf(grid.ErrInvalidArgument, "stencil: kernel side %d must be odd", n)
	}
	data := make([]float64, n*n)
	w := 1 / float64(n*n)
	for i := range data {
		data[i] = w
	}
	return Kernel{m: mat.NewDense(n, n, data)}, nil
}

// Size returns the side length.
func (k Kernel) Size() int {
	if k.m == nil {
		return 0
	}
	n, _ := k.m.Dims()
	return n
}

// At returns the coefficient at (i, j).
func (k Kernel) At(i, j int) float64 {
	return k.m.At(i, j)
}

// Flip returns k rotated by 180 degrees.
func Flip(k Kernel) Kernel {
	n := k.Size()
	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, k.m.At(n-1-i, n-1-j))
		}
	}
	return Kernel{m: out}
}
