package diffusion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simmplecoder/flash/internal/grid"
)

func TestRefreshGhostsReplicatesBorder(t *testing.T) {
	src, err := grid.FromRows([][]int32{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	s, err := New(src, Options{Kappa: 1})
	require.NoError(t, err)
	s.refreshGhosts()

	want := [][]float64{
		{1, 1, 2, 3, 3},
		{1, 1, 2, 3, 3},
		{4, 4, 5, 6, 6},
		{4, 4, 5, 6, 6},
	}
	for r, row := range want {
		for c, v := range row {
			require.Equal(t, v, s.cur.At(r, c), "ghost (%d,%d)", r, c)
		}
	}
}

func TestStepSwapsBuffers(t *testing.T) {
	src, err := grid.New[float64](3, 3)
	require.NoError(t, err)
	s, err := New(src, Options{Kappa: 1})
	require.NoError(t, err)

	cur, next := s.cur, s.next
	s.Step()
	require.Same(t, next, s.cur)
	require.Same(t, cur, s.next)
}
