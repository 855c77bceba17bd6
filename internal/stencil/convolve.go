package stencil

import (
	"github.com/simmplecoder/flash/internal/grid"
)

// Convolve computes the 2-D convolution of src with k. The kernel is
// point-reflected and then correlated with the window centred on each cell,
// so the result matches the mathematical definition of convolution.
//
// Only cells whose whole footprint lies inside src are computed; the others
// stay at zero (no wraparound, clamping or reflection). Pad first when border
// responses matter. Vector grids are convolved lane by lane. Sums are
// accumulated in float64 and narrowed to T.
func Convolve[T grid.Number](src *grid.Grid[T], k Kernel) *grid.Grid[T] {
	out, _ := grid.NewVector[T](src.Rows(), src.Columns(), src.Lanes())
	n := k.Size()
	if n == 0 || src.Rows() < n || src.Columns() < n {
		return out
	}
	flipped := Flip(k)
	coef := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			coef[i*n+j] = flipped.At(i, j)
		}
	}

	half := n / 2
	lanes := src.Lanes()
	acc := make([]float64, lanes)
	for r := half; r < src.Rows()-half; r++ {
		for c := half; c < src.Columns()-half; c++ {
			for l := range acc {
				acc[l] = 0
			}
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					w := coef[i*n+j]
					if w == 0 {
						continue
					}
					cell := src.Cell(r-half+i, c-half+j)
					for l, v := range cell {
						acc[l] += w * float64(v)
					}
				}
			}
			dst := out.Cell(r, c)
			for l := range dst {
				dst[l] = grid.FromFloat[T](acc[l])
			}
		}
	}
	return out
}
