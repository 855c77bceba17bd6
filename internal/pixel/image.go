// Package pixel holds the pixel-grid side of flash: a minimal contract for
// pixel containers, a generic interleaved Image[T] implementing it, bridges
// to the standard image package, and the adapter that turns pixel grids into
// numeric grids (by copy or by zero-copy view) and back.
package pixel

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

// Grid is the narrow contract the adapter needs from a pixel container.
// Cell returns the channel values of one pixel; writes through the slice
// must be visible in the container.
type Grid[T grid.Number] interface {
	Width() int
	Height() int
	Channels() int
	Cell(row, col int) []T
}

// Packed is implemented by containers that expose their interleaved backing
// memory, which is what zero-copy views require. Stride and PixelStride are
// in units of T.
type Packed[T grid.Number] interface {
	Grid[T]
	Pix() []T
	Stride() int
	PixelStride() int
}

// Image is an interleaved pixel buffer. A pixel occupies pixelStride
// elements of which the first channels are meaningful; the rest is padding.
type Image[T grid.Number] struct {
	pix         []T
	width       int
	height      int
	channels    int
	stride      int
	pixelStride int
}

// New allocates a tightly packed image.
func New[T grid.Number](width, height, channels int) (*Image[T], error) {
	if width < 0 || height < 0 || channels < 1 {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "pixel: image %dx%d with %d channels", width, height, channels)
	}
	return &Image[T]{
		pix:         make([]T, width*height*channels),
		width:       width,
		height:      height,
		channels:    channels,
		stride:      width * channels,
		pixelStride: channels,
	}, nil
}

// Wrap adopts an existing interleaved buffer without copying.
func Wrap[T grid.Number](pix []T, width, height, channels, stride, pixelStride int) (*Image[T], error) {
	if width < 0 || height < 0 || channels < 1 || pixelStride < channels {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "pixel: wrap %dx%d, %d channels in %d-element pixels",
			width, height, channels, pixelStride)
	}
	if width > 0 && height > 0 && (height-1)*stride+width*pixelStride > len(pix) {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "pixel: buffer of %d elements too small for %dx%d stride %d",
			len(pix), width, height, stride)
	}
	return &Image[T]{
		pix:         pix,
		width:       width,
		height:      height,
		channels:    channels,
		stride:      stride,
		pixelStride: pixelStride,
	}, nil
}

func (m *Image[T]) Width() int       { return m.width }
func (m *Image[T]) Height() int      { return m.height }
func (m *Image[T]) Channels() int    { return m.channels }
func (m *Image[T]) Pix() []T         { return m.pix }
func (m *Image[T]) Stride() int      { return m.stride }
func (m *Image[T]) PixelStride() int { return m.pixelStride }

// Cell returns the channels of the pixel at (row, col).
func (m *Image[T]) Cell(row, col int) []T {
	off := row*m.stride + col*m.pixelStride
	return m.pix[off : off+m.channels : off+m.channels]
}

// Equal compares dimensions, channel counts and channel values. Padding
// elements are ignored.
func (m *Image[T]) Equal(o *Image[T]) bool {
	if m.width != o.width || m.height != o.height || m.channels != o.channels {
		return false
	}
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			a, b := m.Cell(r, c), o.Cell(r, c)
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
		}
	}
	return true
}

func pixFrom(pix []uint8, off int, r image.Rectangle) []uint8 {
	if r.Empty() {
		return nil
	}
	return pix[off:]
}

// FromGray wraps an *image.Gray without copying.
func FromGray(img *image.Gray) *Image[uint8] {
	b := img.Rect
	return &Image[uint8]{
		pix:         pixFrom(img.Pix, img.PixOffset(b.Min.X, b.Min.Y), b),
		width:       b.Dx(),
		height:      b.Dy(),
		channels:    1,
		stride:      img.Stride,
		pixelStride: 1,
	}
}

// FromNRGBA wraps an *image.NRGBA without copying; four channels.
func FromNRGBA(img *image.NRGBA) *Image[uint8] {
	b := img.Rect
	return &Image[uint8]{
		pix:         pixFrom(img.Pix, img.PixOffset(b.Min.X, b.Min.Y), b),
		width:       b.Dx(),
		height:      b.Dy(),
		channels:    4,
		stride:      img.Stride,
		pixelStride: 4,
	}
}

// FromRGBA wraps an *image.RGBA without copying; four premultiplied channels.
func FromRGBA(img *image.RGBA) *Image[uint8] {
	b := img.Rect
	return &Image[uint8]{
		pix:         pixFrom(img.Pix, img.PixOffset(b.Min.X, b.Min.Y), b),
		width:       b.Dx(),
		height:      b.Dy(),
		channels:    4,
		stride:      img.Stride,
		pixelStride: 4,
	}
}

// FromStd adapts any image.Image. Gray, NRGBA and RGBA images are wrapped
// in place; everything else is converted to NRGBA first.
func FromStd(img image.Image) *Image[uint8] {
	switch src := img.(type) {
	case *image.Gray:
		return FromGray(src)
	case *image.NRGBA:
		return FromNRGBA(src)
	case *image.RGBA:
		return FromRGBA(src)
	default:
		return FromNRGBA(imaging.Clone(img))
	}
}

// ToGray copies a single-channel image into a new *image.Gray.
func ToGray(m *Image[uint8]) (*image.Gray, error) {
	if m.channels != 1 {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "pixel: gray output needs 1 channel, have %d", m.channels)
	}
	out := image.NewGray(image.Rect(0, 0, m.width, m.height))
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			out.Pix[r*out.Stride+c] = m.Cell(r, c)[0]
		}
	}
	return out, nil
}

// ToNRGBA copies a 1-, 3- or 4-channel image into a new *image.NRGBA.
// Missing alpha is opaque; a single channel is replicated into R, G and B.
func ToNRGBA(m *Image[uint8]) (*image.NRGBA, error) {
	out := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for r := 0; r < m.height; r++ {
		for c := 0; c < m.width; c++ {
			px := m.Cell(r, c)
			var v color.NRGBA
			switch m.channels {
			case 1:
				v = color.NRGBA{R: px[0], G: px[0], B: px[0], A: 255}
			case 3:
				v = color.NRGBA{R: px[0], G: px[1], B: px[2], A: 255}
			case 4:
				v = color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
			default:
				return nil, errors.Wrapf(grid.ErrInvalidArgument, "pixel: cannot express %d channels as NRGBA", m.channels)
			}
			out.SetNRGBA(c, r, v)
		}
	}
	return out, nil
}

// ToStd converts to the most natural standard image type.
func ToStd(m *Image[uint8]) (image.Image, error) {
	if m.channels == 1 {
		return ToGray(m)
	}
	return ToNRGBA(m)
}
