package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/simmplecoder/flash/internal/grid"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to the given length. Output names use the first 8 chars;
// the manifest records 16 (the full 64 bits).
func ContentHash(data []byte, hexLen int) string {
	return truncate(xxhash.Sum64(data), hexLen)
}

// ContentHashReader computes xxHash64 from a reader, streaming.
func ContentHashReader(r io.Reader, hexLen int) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return truncate(h.Sum64(), hexLen), nil
}

// GridDigest hashes the shape and lane values of g. Two grids with equal
// shape and values digest the same regardless of their memory layout.
func GridDigest[T grid.Number](g *grid.Grid[T], hexLen int) string {
	h := xxhash.New()
	var buf [8]byte
	for _, n := range []int{g.Rows(), g.Columns(), g.Lanes()} {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		h.Write(buf[:])
	}
	g.Each(func(_, _ int, cell []T) {
		for _, v := range cell {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(v)))
			h.Write(buf[:])
		}
	})
	return truncate(h.Sum64(), hexLen)
}

func truncate(sum uint64, hexLen int) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	full := hex.EncodeToString(b[:])
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
