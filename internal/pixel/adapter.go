package pixel

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

func checkChannel(channel, channels int) error {
	if channel < 0 || channel >= channels {
		return errors.Wrapf(grid.ErrInvalidArgument, "pixel: channel %d exceeds %d available channels", channel, channels)
	}
	return nil
}

// AsMatrixView exposes one channel of p as a scalar grid sharing p's memory.
// The view is only valid while p's buffer is alive.
func AsMatrixView[T grid.Number](p Packed[T], channel int) (*grid.Grid[T], error) {
	if err := checkChannel(channel, p.Channels()); err != nil {
		return nil, err
	}
	pix := p.Pix()
	if p.Width() > 0 && p.Height() > 0 {
		pix = pix[channel:]
	}
	return grid.NewView(pix, p.Height(), p.Width(), 1, p.Stride(), p.PixelStride())
}

// ToMatrix copies one channel of p into a new owned scalar grid.
func ToMatrix[T grid.Number](p Grid[T], channel int) (*grid.Grid[T], error) {
	if err := checkChannel(channel, p.Channels()); err != nil {
		return nil, err
	}
	out, err := grid.New[T](p.Height(), p.Width())
	if err != nil {
		return nil, err
	}
	if err := ToMatrixInto(p, out, channel); err != nil {
		return nil, err
	}
	return out, nil
}

// ToMatrixInto copies one channel of p into dst, converting to dst's lane
// type. dst must be a scalar grid of p's dimensions.
func ToMatrixInto[U, T grid.Number](p Grid[T], dst *grid.Grid[U], channel int) error {
	if err := checkChannel(channel, p.Channels()); err != nil {
		return err
	}
	if dst.Rows() != p.Height() || dst.Columns() != p.Width() || dst.Lanes() != 1 {
		return errors.Wrapf(grid.ErrInvalidArgument, "pixel: destination %dx%dx%d for %dx%d image",
			dst.Rows(), dst.Columns(), dst.Lanes(), p.Height(), p.Width())
	}
	for r := 0; r < p.Height(); r++ {
		for c := 0; c < p.Width(); c++ {
			dst.Set(r, c, grid.Cast[U](p.Cell(r, c)[channel]))
		}
	}
	return nil
}

// ToVectorMatrix copies every pixel into one Channels()-lane element. It
// always copies; see AsVectorMatrixView for the aliasing variant.
func ToVectorMatrix[T grid.Number](p Grid[T]) *grid.Grid[T] {
	out, _ := grid.NewVector[T](p.Height(), p.Width(), p.Channels())
	for r := 0; r < p.Height(); r++ {
		for c := 0; c < p.Width(); c++ {
			out.SetCell(r, c, p.Cell(r, c))
		}
	}
	return out
}

// AsVectorMatrixView aliases p as a grid of lanes-wide elements. The vector
// element must occupy exactly the bytes of one pixel: a pixel with padding
// lanes, a lane count different from the channel count, or a container that
// does not expose packed memory yields ErrLayoutMismatch.
func AsVectorMatrixView[T grid.Number](p Grid[T], lanes int) (*grid.Grid[T], error) {
	packed, ok := p.(Packed[T])
	if !ok {
		return nil, errors.Wrapf(grid.ErrLayoutMismatch, "pixel: %T does not expose packed memory", p)
	}
	var zero T
	elemBytes := uintptr(lanes) * unsafe.Sizeof(zero)
	pixelBytes := uintptr(packed.PixelStride()) * unsafe.Sizeof(zero)
	if lanes != packed.Channels() || elemBytes != pixelBytes {
		return nil, errors.Wrapf(grid.ErrLayoutMismatch,
			"pixel: %d-lane element is %d bytes, pixel with %d channels is %d bytes",
			lanes, elemBytes, packed.Channels(), pixelBytes)
	}
	return grid.NewView(packed.Pix(), packed.Height(), packed.Width(), lanes, packed.Stride(), packed.PixelStride())
}

// ToPixelGrid converts g back into a tightly packed Image with one channel
// per lane.
func ToPixelGrid[T grid.Number](g *grid.Grid[T]) *Image[T] {
	out, _ := New[T](g.Columns(), g.Rows(), g.Lanes())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Columns(); c++ {
			copy(out.Cell(r, c), g.Cell(r, c))
		}
	}
	return out
}
