package detect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simmplecoder/flash/internal/detect"
	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/stencil"
)

func surface(t *testing.T, n int, f func(r, c int) float64) *grid.Grid[float64] {
	t.Helper()
	g, err := grid.New[float64](n, n)
	require.NoError(t, err)
	g.Each(func(r, c int, cell []float64) { cell[0] = f(r, c) })
	return g
}

func TestHarrisFlatIsZero(t *testing.T) {
	g, err := grid.New[uint8](8, 8)
	require.NoError(t, err)
	g.Fill(77)

	h, err := detect.Harris(g, detect.DefaultHarrisK)
	require.NoError(t, err)
	require.Equal(t, []float64{0}, grid.Sum(h))
}

func TestHarrisVerticalEdgeIsNegative(t *testing.T) {
	g := surface(t, 9, func(_, c int) float64 {
		if c >= 4 {
			return 100
		}
		return 0
	})

	h, err := detect.Harris(g, 0.05)
	require.NoError(t, err)
	// Away from the top and bottom rows, dy and the cross term vanish, so
	// the response is −k·dx⁴.
	require.InDelta(t, -0.05*400*400*400*400, h.At(4, 4), 1e-3)
	require.Zero(t, h.At(4, 1))
}

func TestHarrisUsesGradientOfGradientCrossTerm(t *testing.T) {
	g := surface(t, 12, func(r, c int) float64 {
		if r >= 4 && r < 8 && c >= 4 && c < 8 {
			return 255
		}
		return 0
	})
	const k = 0.06

	h, err := detect.Harris(g, k)
	require.NoError(t, err)

	dx := stencil.Convolve(g, stencil.SobelX)
	dy := stencil.Convolve(g, stencil.SobelY)
	dxdy := stencil.Convolve(dx, stencil.SobelY)
	for r := 0; r < 12; r++ {
		for c := 0; c < 12; c++ {
			x2 := dx.At(r, c) * dx.At(r, c)
			y2 := dy.At(r, c) * dy.At(r, c)
			xy := dxdy.At(r, c)
			want := x2*y2 - xy*xy - k*(x2+y2)*(x2+y2)
			require.InDelta(t, want, h.At(r, c), 1e-6, "cell (%d,%d)", r, c)
		}
	}
}

func TestHarrisRejectsVectorGrid(t *testing.T) {
	g, err := grid.NewVector[int64](4, 4, 3)
	require.NoError(t, err)
	_, err = detect.Harris(g, detect.DefaultHarrisK)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestHessianQuadratic(t *testing.T) {
	g := surface(t, 9, func(_, c int) float64 { return float64(c * c) })

	res, err := detect.Hessian(g)
	require.NoError(t, err)
	require.Equal(t, 128.0, res.Traces.At(4, 4))
	require.Equal(t, 0.0, res.Determinants.At(4, 4))
	require.Equal(t, 0.0, res.Traces.At(0, 0))
}

func TestHessianSaddle(t *testing.T) {
	g := surface(t, 9, func(r, c int) float64 { return float64(r * c) })

	res, err := detect.Hessian(g)
	require.NoError(t, err)
	require.Equal(t, -4096.0, res.Determinants.At(4, 4))
	require.Equal(t, 0.0, res.Traces.At(4, 4))
}

func TestNonMaxIsolatedPeakDoesNotSurvive(t *testing.T) {
	g, err := grid.New[int32](11, 11)
	require.NoError(t, err)
	g.Set(5, 5, 10)

	mask, err := detect.NonMax(g, 3, false)
	require.NoError(t, err)
	require.False(t, mask.At(5, 5))
}

func TestNonMaxPlateauSurvives(t *testing.T) {
	g, err := grid.New[int32](11, 11)
	require.NoError(t, err)
	g.Set(5, 5, 10)
	g.Set(5, 6, 10)

	mask, err := detect.NonMax(g, 3, false)
	require.NoError(t, err)
	require.True(t, mask.At(5, 5))
	require.True(t, mask.At(5, 6))
	require.False(t, mask.At(4, 5), "below the window maximum")
}

func TestNonMaxBorderKeepsPadding(t *testing.T) {
	g, err := grid.New[float64](10, 10)
	require.NoError(t, err)

	mask, err := detect.NonMax(g, 3, true)
	require.NoError(t, err)
	require.True(t, mask.At(0, 0))
	require.True(t, mask.At(2, 5))
	require.True(t, mask.At(7, 5))
	// A flat interior is one big plateau.
	require.True(t, mask.At(5, 5))

	mask, err = detect.NonMax(g, 3, false)
	require.NoError(t, err)
	require.False(t, mask.At(2, 5))
	require.Equal(t, 16, mask.Count())
}

func TestNonMaxRejectsEvenWindow(t *testing.T) {
	g, err := grid.New[float64](10, 10)
	require.NoError(t, err)
	_, err = detect.NonMax(g, 4, false)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestMaskCombinators(t *testing.T) {
	g, err := grid.FromRows([][]float64{{1, 5}, {7, -2}})
	require.NoError(t, err)

	hits := detect.AtLeast(g, 5)
	require.Equal(t, 2, hits.Count())
	require.True(t, hits.At(0, 1))

	inv := hits.Not()
	require.Equal(t, 2, inv.Count())
	require.True(t, inv.At(1, 1))

	all, err := hits.Or(inv)
	require.NoError(t, err)
	require.Equal(t, 4, all.Count())

	_, err = hits.Or(detect.NewMask(3, 2, false))
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestClampAndThreshold(t *testing.T) {
	g, err := grid.FromRows([][]int64{{-5, 3}, {10, 0}})
	require.NoError(t, err)

	clamped := detect.ClampNegative(g)
	require.Equal(t, []int64{0, 3, 10, 0}, grid.Flatten(clamped, 0))

	th := detect.Threshold(g, 4)
	require.Equal(t, []int64{0, 0, 10, 0}, grid.Flatten(th, 0))
}
