package encoder

import (
	"bytes"
	"image"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// TIFFEncoder writes deflate-compressed TIFF via golang.org/x/image.
type TIFFEncoder struct{}

func (e *TIFFEncoder) Format() string       { return "tiff" }
func (e *TIFFEncoder) Extensions() []string { return []string{"tiff", "tif"} }

func (e *TIFFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BMPEncoder writes uncompressed BMP via golang.org/x/image.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() string       { return "bmp" }
func (e *BMPEncoder) Extensions() []string { return []string{"bmp"} }

func (e *BMPEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
