// Package overlay marks detector hits on top of the source image.
package overlay

import (
	"image"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/grid"
)

// Marks is a rows × columns set of flags, such as a detect.Mask.
type Marks interface {
	Rows() int
	Columns() int
	At(r, c int) bool
}

// Style controls how marks are drawn.
type Style struct {
	Color colorful.Color
	// Alpha is the marker opacity in [0, 1].
	Alpha float64
	// Radius of the disc drawn per mark; zero paints the single pixel.
	Radius float64
}

// DefaultStyle paints marked pixels opaque green.
func DefaultStyle() Style {
	return Style{Color: colorful.Color{R: 0, G: 1, B: 0}, Alpha: 1}
}

var named = map[string]string{
	"green":   "#00ff00",
	"red":     "#ff0000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"magenta": "#ff00ff",
	"cyan":    "#00ffff",
	"white":   "#ffffff",
	"black":   "#000000",
}

// ParseColor accepts "#rgb", "#rrggbb" or one of a few colour names.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := named[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrapf(grid.ErrInvalidArgument, "overlay: colour %q", s)
	}
	return c, nil
}

// Draw returns a copy of base with every marked cell painted. Row r and
// column c of marks address pixel (c, r) of base relative to its origin.
func Draw(base image.Image, marks Marks, style Style) (image.Image, error) {
	b := base.Bounds()
	if marks.Rows() != b.Dy() || marks.Columns() != b.Dx() {
		return nil, errors.Wrapf(grid.ErrInvalidArgument, "overlay: %dx%d marks over %dx%d image",
			marks.Rows(), marks.Columns(), b.Dy(), b.Dx())
	}
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(base, -b.Min.X, -b.Min.Y)
	dc.SetRGBA(style.Color.R, style.Color.G, style.Color.B, style.Alpha)

	for r := 0; r < marks.Rows(); r++ {
		for c := 0; c < marks.Columns(); c++ {
			if !marks.At(r, c) {
				continue
			}
			if style.Radius <= 0 {
				dc.SetPixel(c, r)
				continue
			}
			dc.DrawCircle(float64(c)+0.5, float64(r)+0.5, style.Radius)
			dc.Fill()
		}
	}
	return dc.Image(), nil
}

// Count returns the number of marked cells.
func Count(marks Marks) int {
	n := 0
	for r := 0; r < marks.Rows(); r++ {
		for c := 0; c < marks.Columns(); c++ {
			if marks.At(r, c) {
				n++
			}
		}
	}
	return n
}
