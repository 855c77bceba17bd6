package encoder

import (
	"bytes"
	"image"
	"image/jpeg"
)

// DefaultJPEGQuality is used when the requested quality is out of range.
const DefaultJPEGQuality = 90

// JPEGEncoder encodes images to JPEG using Go's standard library.
// Lossy, so unsuitable for response maps that are read back.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() string       { return "jpeg" }
func (e *JPEGEncoder) Extensions() []string { return []string{"jpg", "jpeg"} }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
