package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "jpeg", "tiff").
	Format() string

	// Encode converts the image to bytes. quality (1-100) only applies to
	// lossy formats.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extensions returns the file extensions without dot, preferred first.
	Extensions() []string
}
