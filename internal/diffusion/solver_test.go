package diffusion_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/simmplecoder/flash/internal/diffusion"
	"github.com/simmplecoder/flash/internal/grid"
)

func spike(t *testing.T, n int, v float64) *grid.Grid[float64] {
	t.Helper()
	g, err := grid.New[float64](n, n)
	require.NoError(t, err)
	g.Set(n/2, n/2, v)
	return g
}

func TestOptionsValidation(t *testing.T) {
	g := spike(t, 5, 1)

	cases := []struct {
		name string
		opts diffusion.Options
	}{
		{"zero kappa", diffusion.Options{}},
		{"negative kappa", diffusion.Options{Kappa: -1}},
		{"nan kappa", diffusion.Options{Kappa: math.NaN()}},
		{"infinite kappa", diffusion.Options{Kappa: math.Inf(1)}},
		{"unstable step", diffusion.Options{Kappa: 10, DeltaT: 0.3}},
		{"unstable eight", diffusion.Options{Kappa: 10, DeltaT: 0.2, Scheme: diffusion.EightNeighbour}},
		{"negative step", diffusion.Options{Kappa: 10, DeltaT: -0.1}},
		{"unknown scheme", diffusion.Options{Kappa: 10, Scheme: 6}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := diffusion.New(g, tc.opts)
			require.ErrorIs(t, err, grid.ErrInvalidArgument)
		})
	}

	s, err := diffusion.New(g, diffusion.Options{Kappa: 10})
	require.NoError(t, err)
	require.Equal(t, diffusion.FourNeighbour, s.Options().Scheme)
	require.Equal(t, 0.25, s.Options().DeltaT)

	s, err = diffusion.New(g, diffusion.Options{Kappa: 10, Scheme: diffusion.EightNeighbour})
	require.NoError(t, err)
	require.Equal(t, 1.0/7, s.Options().DeltaT)

	require.ErrorIs(t, s.Run(-1), grid.ErrInvalidArgument)
}

func TestZeroIterationsIsIdentity(t *testing.T) {
	src, err := grid.FromRows([][]uint8{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	out, err := diffusion.Diffuse(src, diffusion.Options{Kappa: 5}, 0)
	require.NoError(t, err)
	require.True(t, grid.Convert[float64](src).Equal(out))
	require.False(t, out.IsView())
}

func TestConstantGridIsFixedPoint(t *testing.T) {
	g, err := grid.New[float64](7, 9)
	require.NoError(t, err)
	g.Fill(42)

	for _, scheme := range []diffusion.Scheme{diffusion.FourNeighbour, diffusion.EightNeighbour} {
		out, err := diffusion.Diffuse(g, diffusion.Options{Kappa: 3, Scheme: scheme}, 20)
		require.NoError(t, err)
		require.True(t, g.Equal(out), scheme.String())
	}
}

func TestFourNeighbourConservesMass(t *testing.T) {
	g := spike(t, 9, 100)

	s, err := diffusion.New(g, diffusion.Options{Kappa: 1e6})
	require.NoError(t, err)
	require.NoError(t, s.Run(25))
	require.Equal(t, 25, s.Iterations())

	out := s.Result()
	require.InDelta(t, 100.0, grid.Sum(out)[0], 1e-9)
	require.Less(t, out.At(4, 4), 100.0)
	require.Greater(t, out.At(4, 3), 0.0)
	// Replicated ghosts make the border reflective, so mass reaches the
	// corners without leaking out.
	require.Greater(t, out.At(0, 0), 0.0)
}

func TestSingleStepValues(t *testing.T) {
	g := spike(t, 5, 16)

	// With a huge kappa every conductance is 1 and one step is the discrete
	// heat equation: the spike loses 4·Δt·16 and each axis neighbour gains Δt·16.
	out, err := diffusion.Diffuse(g, diffusion.Options{Kappa: 1e12}, 1)
	require.NoError(t, err)
	require.InDelta(t, 0.0, out.At(2, 2), 1e-9)
	require.InDelta(t, 4.0, out.At(1, 2), 1e-9)
	require.InDelta(t, 4.0, out.At(2, 3), 1e-9)
	require.InDelta(t, 0.0, out.At(1, 1), 1e-9)

	out, err = diffusion.Diffuse(g, diffusion.Options{Kappa: 1e12, Scheme: diffusion.EightNeighbour}, 1)
	require.NoError(t, err)
	require.InDelta(t, 16-16*6.0/7, out.At(2, 2), 1e-9)
	require.InDelta(t, 16.0/7, out.At(1, 2), 1e-9)
	require.InDelta(t, 8.0/7, out.At(1, 1), 1e-9)
}

func TestSmallKappaPreservesEdges(t *testing.T) {
	g, err := grid.New[float64](8, 8)
	require.NoError(t, err)
	g.Each(func(_, c int, cell []float64) {
		if c >= 4 {
			cell[0] = 255
		}
	})

	sharp, err := diffusion.Diffuse(g, diffusion.Options{Kappa: 2}, 30)
	require.NoError(t, err)
	soft, err := diffusion.Diffuse(g, diffusion.Options{Kappa: 1000}, 30)
	require.NoError(t, err)

	stepSharp := sharp.At(4, 4) - sharp.At(4, 3)
	stepSoft := soft.At(4, 4) - soft.At(4, 3)
	require.Greater(t, stepSharp, 250.0)
	require.Less(t, stepSoft, stepSharp)
}

func TestVectorLanesDiffuseIndependently(t *testing.T) {
	vec, err := grid.NewVector[float64](6, 6, 2)
	require.NoError(t, err)
	vec.Each(func(r, c int, cell []float64) {
		cell[0] = float64(r * c)
		cell[1] = float64((r + 2*c) % 5)
	})
	opts := diffusion.Options{Kappa: 4, Scheme: diffusion.EightNeighbour}

	out, err := diffusion.Diffuse(vec, opts, 10)
	require.NoError(t, err)
	require.Equal(t, 2, out.Lanes())

	for lane := 0; lane < 2; lane++ {
		scalar, err := grid.New[float64](6, 6)
		require.NoError(t, err)
		scalar.Each(func(r, c int, cell []float64) { cell[0] = vec.Cell(r, c)[lane] })
		want, err := diffusion.Diffuse(scalar, opts, 10)
		require.NoError(t, err)

		if diff := cmp.Diff(grid.Flatten(want, 0), grid.Flatten(out, lane), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
			t.Errorf("lane %d mismatch (-want +got):\n%s", lane, diff)
		}
	}
}

func TestEmptyGrid(t *testing.T) {
	g, err := grid.New[int16](0, 4)
	require.NoError(t, err)
	out, err := diffusion.Diffuse(g, diffusion.Options{Kappa: 1}, 3)
	require.NoError(t, err)
	require.True(t, out.Empty())
	require.Equal(t, 4, out.Columns())
}

func BenchmarkDiffuse256(b *testing.B) {
	g, _ := grid.New[float64](256, 256)
	g.Each(func(r, c int, cell []float64) { cell[0] = float64((r*31 + c*17) % 256) })
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = diffusion.Diffuse(g, diffusion.Options{Kappa: 20}, 5)
	}
}
