package hasher

import (
	"strings"
	"testing"

	"github.com/simmplecoder/flash/internal/grid"
)

func TestContentHash(t *testing.T) {
	data := []byte("flash")
	full := ContentHash(data, 0)
	if len(full) != 16 {
		t.Fatalf("full hash length: got %d, want 16", len(full))
	}
	if got := ContentHash(data, 8); got != full[:8] {
		t.Errorf("truncated: got %s, want %s", got, full[:8])
	}
	streamed, err := ContentHashReader(strings.NewReader("flash"), 16)
	if err != nil {
		t.Fatal(err)
	}
	if streamed != full {
		t.Errorf("reader: got %s, want %s", streamed, full)
	}
	if ContentHash([]byte("flasH"), 0) == full {
		t.Error("different content hashed equal")
	}
}

func TestGridDigestIgnoresLayout(t *testing.T) {
	g, err := grid.FromRows([][]uint8{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	if err != nil {
		t.Fatal(err)
	}
	view, err := g.Sub(1, 1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	owned, err := grid.FromRows([][]uint8{{5, 6}, {8, 9}})
	if err != nil {
		t.Fatal(err)
	}
	if a, b := GridDigest(view, 16), GridDigest(owned, 16); a != b {
		t.Errorf("view vs owned: %s != %s", a, b)
	}

	// Same values, different shape.
	flat, err := grid.FromRows([][]uint8{{5, 6, 8, 9}})
	if err != nil {
		t.Fatal(err)
	}
	if GridDigest(flat, 16) == GridDigest(owned, 16) {
		t.Error("shape not part of the digest")
	}
}
