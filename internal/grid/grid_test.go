package grid_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/simmplecoder/flash/internal/grid"
)

func TestNewRejectsBadShapes(t *testing.T) {
	_, err := grid.New[uint8](-1, 4)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)

	_, err = grid.NewVector[float64](2, 2, 0)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)

	g, err := grid.New[int32](0, 5)
	require.NoError(t, err)
	require.True(t, g.Empty())
	require.False(t, g.IsView())
}

func TestCellAliasesStorage(t *testing.T) {
	g, err := grid.NewVector[int16](2, 3, 3)
	require.NoError(t, err)

	cell := g.Cell(1, 2)
	require.Len(t, cell, 3)
	cell[1] = 7
	require.Equal(t, int16(7), g.Cell(1, 2)[1])
	require.Equal(t, int16(0), g.At(1, 2))
}

func TestViewStrideAndStep(t *testing.T) {
	// Two rows of RGB-like triples with one padding element per row.
	buf := []uint8{
		1, 2, 3, 4, 5, 6, 0,
		7, 8, 9, 10, 11, 12, 0,
	}
	green, err := grid.NewView(buf[1:], 2, 2, 1, 7, 3)
	require.NoError(t, err)
	require.True(t, green.IsView())
	require.Equal(t, uint8(5), green.At(0, 1))
	require.Equal(t, uint8(8), green.At(1, 0))

	green.Set(1, 1, 99)
	require.Equal(t, uint8(99), buf[11])

	_, err = grid.NewView(buf, 3, 2, 1, 7, 3)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestFromRowsAndEqual(t *testing.T) {
	a, err := grid.FromRows([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b := a.Clone()
	require.True(t, a.Equal(b))

	b.Set(0, 0, 9)
	require.False(t, a.Equal(b))

	_, err = grid.FromRows([][]int{{1, 2}, {3}})
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestSubIsView(t *testing.T) {
	g, err := grid.FromRows([][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	require.NoError(t, err)

	sub, err := g.Sub(1, 1, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 5, sub.At(0, 0))
	require.Equal(t, 9, sub.At(1, 1))

	sub.Set(0, 1, 60)
	require.Equal(t, 60, g.At(1, 2))

	_, err = g.Sub(2, 2, 2, 2)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestPad(t *testing.T) {
	g, err := grid.New[uint8](2, 2)
	require.NoError(t, err)
	g.Fill(255)

	padded, err := grid.Pad(g, 1, 0)
	require.NoError(t, err)
	require.Equal(t, 4, padded.Rows())
	require.Equal(t, 4, padded.Columns())

	want := []uint8{
		0, 0, 0, 0,
		0, 255, 255, 0,
		0, 255, 255, 0,
		0, 0, 0, 0,
	}
	if diff := cmp.Diff(want, grid.Flatten(padded, 0)); diff != "" {
		t.Errorf("padded grid mismatch (-want +got):\n%s", diff)
	}

	_, err = grid.Pad(g, -1, 0)
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestConvertAndSum(t *testing.T) {
	g, err := grid.FromRows([][]float64{{1.9, -2.5}, {3.2, 4}})
	require.NoError(t, err)

	ints := grid.Convert[int32](g)
	if diff := cmp.Diff([]int32{1, -2, 3, 4}, grid.Flatten(ints, 0)); diff != "" {
		t.Errorf("convert mismatch (-want +got):\n%s", diff)
	}
	require.InDelta(t, 6.6, grid.Sum(g)[0], 1e-9)

	sq := grid.Map(ints, func(v int32) int64 { return int64(v) * int64(v) })
	require.Equal(t, []float64{30}, grid.Sum(sq))
}

func TestFromFloatSaturates(t *testing.T) {
	require.Equal(t, uint8(255), grid.FromFloat[uint8](300))
	require.Equal(t, uint8(0), grid.FromFloat[uint8](-3))
	require.Equal(t, uint8(7), grid.FromFloat[uint8](7.9))
	require.Equal(t, int8(-128), grid.FromFloat[int8](-200))
	require.Equal(t, int8(127), grid.FromFloat[int8](127.5))
	require.Equal(t, int32(-2), grid.FromFloat[int32](-2.7))
	require.Equal(t, int64(math.MaxInt64), grid.FromFloat[int64](1e19))
	require.Equal(t, int64(math.MinInt64), grid.FromFloat[int64](-0x1p63))
	require.Equal(t, uint64(math.MaxUint64), grid.FromFloat[uint64](0x1p64))
	require.Equal(t, uint64(1)<<63, grid.FromFloat[uint64](0x1p63))
	require.Equal(t, 0, grid.FromFloat[int](math.NaN()))
	require.Equal(t, float32(1.5), grid.FromFloat[float32](1.5))
}
