package overlay_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simmplecoder/flash/internal/detect"
	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/overlay"
)

func grayImage(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestParseColor(t *testing.T) {
	c, err := overlay.ParseColor("green")
	require.NoError(t, err)
	require.Equal(t, 1.0, c.G)
	require.Zero(t, c.R)

	c, err = overlay.ParseColor("ff8000")
	require.NoError(t, err)
	require.Equal(t, "#ff8000", c.Hex())

	c, err = overlay.ParseColor(" #F00 ")
	require.NoError(t, err)
	require.Equal(t, "#ff0000", c.Hex())

	_, err = overlay.ParseColor("chartreuse-ish")
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestDrawPixels(t *testing.T) {
	base := grayImage(4, 3, 100)
	mask := detect.NewMask(3, 4, false)
	mask.Set(1, 2, true)

	out, err := overlay.Draw(base, mask, overlay.DefaultStyle())
	require.NoError(t, err)
	require.Equal(t, base.Bounds(), out.Bounds())

	toRGBA := func(x, y int) color.RGBA {
		return color.RGBAModel.Convert(out.At(x, y)).(color.RGBA)
	}
	require.Equal(t, color.RGBA{0, 255, 0, 255}, toRGBA(2, 1))
	require.Equal(t, color.RGBA{100, 100, 100, 255}, toRGBA(1, 2))
	// The source is left untouched.
	require.Equal(t, uint8(100), base.GrayAt(2, 1).Y)
}

func TestDrawDiscs(t *testing.T) {
	base := grayImage(9, 9, 0)
	mask := detect.NewMask(9, 9, false)
	mask.Set(4, 4, true)

	style := overlay.DefaultStyle()
	style.Radius = 2
	out, err := overlay.Draw(base, mask, style)
	require.NoError(t, err)

	_, g, _, _ := out.At(4, 4).RGBA()
	require.Greater(t, g, uint32(0))
	_, g, _, _ = out.At(0, 0).RGBA()
	require.Zero(t, g)
}

func TestDrawOffsetBounds(t *testing.T) {
	base := grayImage(6, 6, 50).SubImage(image.Rect(2, 2, 5, 5))
	mask := detect.NewMask(3, 3, false)
	mask.Set(0, 0, true)

	out, err := overlay.Draw(base, mask, overlay.DefaultStyle())
	require.NoError(t, err)
	_, g, _, _ := out.At(0, 0).RGBA()
	require.Equal(t, uint32(0xffff), g)
	r, _, _, _ := out.At(1, 1).RGBA()
	require.Equal(t, uint32(50*0x101), r)
}

func TestDrawShapeMismatch(t *testing.T) {
	_, err := overlay.Draw(grayImage(4, 4, 0), detect.NewMask(3, 4, true), overlay.DefaultStyle())
	require.ErrorIs(t, err, grid.ErrInvalidArgument)
}

func TestCount(t *testing.T) {
	mask := detect.NewMask(2, 5, true)
	mask.Set(0, 0, false)
	require.Equal(t, 9, overlay.Count(mask))
}
