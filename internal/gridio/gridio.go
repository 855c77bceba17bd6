// Package gridio dumps and loads grids losslessly as .fgrid files: a zstd
// stream holding a small header followed by every lane as a little-endian
// float64, row-major.
package gridio

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

// Extension is the file extension of dumped grids.
const Extension = ".fgrid"

const (
	magic   = "FGRD"
	version = 1

	// maxValues bounds the grid size a header may declare.
	maxValues = 1 << 30
	// chunkValues is how many values are decoded at a time.
	chunkValues = 1 << 14
)

type header struct {
	Magic   [4]byte
	Version uint8
	Rows    uint32
	Cols    uint32
	Lanes   uint32
}

// Write encodes g to w. Every lane is widened to float64, which is exact for
// all lane types up to 32 bits.
func Write[T grid.Number](w io.Writer, g *grid.Grid[T]) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return errors.Wrap(err, "gridio: create encoder")
	}
	h := header{Version: version, Rows: uint32(g.Rows()), Cols: uint32(g.Columns()), Lanes: uint32(g.Lanes())}
	copy(h.Magic[:], magic)
	if err := binary.Write(enc, binary.LittleEndian, h); err != nil {
		enc.Close()
		return errors.Wrap(err, "gridio: write header")
	}
	row := make([]float64, g.Columns()*g.Lanes())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			for i, v := range g.Cell(r, c) {
				row[c*g.Lanes()+i] = float64(v)
			}
		}
		if err := binary.Write(enc, binary.LittleEndian, row); err != nil {
			enc.Close()
			return errors.Wrapf(err, "gridio: write row %d", r)
		}
	}
	return errors.Wrap(enc.Close(), "gridio: flush")
}

// Read decodes a grid written by Write.
func Read(r io.Reader) (*grid.Grid[float64], error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "gridio: create decoder")
	}
	defer dec.Close()

	var h header
	if err := binary.Read(dec, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "gridio: read header")
	}
	if string(h.Magic[:]) != magic {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "gridio: bad magic %q", h.Magic[:])
	}
	if h.Version != version {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "gridio: unsupported version %d", h.Version)
	}
	if uint64(h.Rows)*uint64(h.Cols)*uint64(h.Lanes) > maxValues {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "gridio: %dx%dx%d grid too large", h.Rows, h.Cols, h.Lanes)
	}
	values, err := readValues(dec, int(uint64(h.Rows)*uint64(h.Cols)*uint64(h.Lanes)))
	if err != nil {
		return nil, err
	}
	g, err := grid.NewVector[float64](int(h.Rows), int(h.Cols), int(h.Lanes))
	if err != nil {
		return nil, err
	}
	n := g.Columns() * g.Lanes()
	for r := 0; r < g.Rows(); r++ {
		copy(g.Row(r), values[r*n:(r+1)*n])
	}
	return g, nil
}

// readValues reads n values in fixed-size chunks, so memory grows with the
// data actually present rather than with the size the header claims.
func readValues(r io.Reader, n int) ([]float64, error) {
	var values []float64
	chunk := make([]float64, min(n, chunkValues))
	for len(values) < n {
		part := chunk[:min(n-len(values), len(chunk))]
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return nil, errors.Wrapf(err, "gridio: read value %d of %d", len(values), n)
		}
		values = append(values, part...)
	}
	return values, nil
}

// WriteFile dumps g to path.
func WriteFile[T grid.Number](path string, g *grid.Grid[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a grid from path.
func ReadFile(path string) (*grid.Grid[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
