package pipeline

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/simmplecoder/flash/internal/detect"
	"github.com/simmplecoder/flash/internal/diffusion"
	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/overlay"
	"github.com/simmplecoder/flash/internal/pixel"
	"github.com/simmplecoder/flash/internal/preset"
	"github.com/simmplecoder/flash/internal/remap"
	"github.com/simmplecoder/flash/internal/stencil"
)

// Op names an image operator.
type Op string

const (
	OpSobel   Op = "sobel"
	OpHarris  Op = "harris"
	OpHessian Op = "hessian"
	OpDiffuse Op = "diffuse"
)

// Ops lists every operator in help order.
var Ops = []Op{OpSobel, OpHarris, OpHessian, OpDiffuse}

// ParseOp validates an operator name.
func ParseOp(s string) (Op, error) {
	for _, op := range Ops {
		if string(op) == strings.ToLower(s) {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operator %q (want one of sobel, harris, hessian, diffuse)", s)
}

// Output is one rendered result of an operator.
type Output struct {
	Kind  string
	Image image.Image
	// Raw holds the values Image was rendered from; nil for overlays.
	Raw *grid.Grid[float64]
	// Marked is the number of marked cells of an overlay, -1 otherwise.
	Marked int
}

// Result is everything an operator produced for one image.
type Result struct {
	// Source is the grid the operator consumed, as float64.
	Source  *grid.Grid[float64]
	Outputs []Output
}

// Output returns the output of the given kind, or nil.
func (r *Result) Output(kind string) *Output {
	for i := range r.Outputs {
		if r.Outputs[i].Kind == kind {
			return &r.Outputs[i]
		}
	}
	return nil
}

// Prescale shrinks img to maxWidth (keeping the aspect ratio) when it is
// wider. A non-positive maxWidth leaves img untouched.
func Prescale(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}

// Luminance returns the gray level of img as a float64 grid. The gray
// channel is read through a view of imaging's grayscale buffer.
func Luminance(img image.Image) (*grid.Grid[float64], error) {
	gray := imaging.Grayscale(img)
	view, err := pixel.AsMatrixView[uint8](pixel.FromNRGBA(gray), 0)
	if err != nil {
		return nil, err
	}
	return grid.Convert[float64](view), nil
}

// Channels returns img as a 4-lane (R, G, B, A) float64 grid.
func Channels(img image.Image) (*grid.Grid[float64], error) {
	nrgba := imaging.Clone(img)
	view, err := pixel.AsVectorMatrixView[uint8](pixel.FromNRGBA(nrgba), 4)
	if err != nil {
		return nil, err
	}
	return grid.Convert[float64](view), nil
}

// Render remaps a response onto the full 8-bit range. A flat response has
// nothing to stretch and renders black.
func Render(g *grid.Grid[float64]) (image.Image, error) {
	out, err := remap.ToType[uint8](g)
	if errors.Is(err, grid.ErrDegenerateRange) {
		out, err = grid.NewVector[uint8](g.Rows(), g.Columns(), g.Lanes())
	}
	if err != nil {
		return nil, err
	}
	return pixel.ToStd(pixel.ToPixelGrid(out))
}

// renderLevels maps values already on the 8-bit scale without stretching.
func renderLevels(g *grid.Grid[float64]) (image.Image, error) {
	out, err := remap.Remap[uint8](g, 0, 255, 0, 255)
	if err != nil {
		return nil, err
	}
	return pixel.ToStd(pixel.ToPixelGrid(out))
}

func markerStyle(p preset.Preset) (overlay.Style, error) {
	style := overlay.DefaultStyle()
	if p.MarkerColor != "" {
		c, err := overlay.ParseColor(p.MarkerColor)
		if err != nil {
			return style, err
		}
		style.Color = c
	}
	style.Radius = p.MarkerRadius
	return style, nil
}

func mark(img image.Image, marks *detect.Mask, p preset.Preset) (Output, error) {
	style, err := markerStyle(p)
	if err != nil {
		return Output{}, err
	}
	out, err := overlay.Draw(img, marks, style)
	if err != nil {
		return Output{}, err
	}
	return Output{Kind: "overlay", Image: out, Marked: marks.Count()}, nil
}

// Apply runs op over img with the parameters of p.
func Apply(img image.Image, op Op, p preset.Preset) (*Result, error) {
	img = Prescale(img, p.MaxWidth)
	switch op {
	case OpSobel:
		return applySobel(img, p)
	case OpHarris:
		return applyHarris(img, p)
	case OpHessian:
		return applyHessian(img, p)
	case OpDiffuse:
		return applyDiffuse(img, p)
	default:
		return nil, fmt.Errorf("unknown operator %q", op)
	}
}

func applySobel(img image.Image, p preset.Preset) (*Result, error) {
	lum, err := Luminance(img)
	if err != nil {
		return nil, err
	}
	var raw *grid.Grid[float64]
	switch p.Axis {
	case "x":
		raw = stencil.Convolve(lum, stencil.SobelX)
	case "y":
		raw = stencil.Convolve(lum, stencil.SobelY)
	case "both", "":
		dx := stencil.Convolve(lum, stencil.SobelX)
		dy := stencil.Convolve(lum, stencil.SobelY)
		raw = dx.Clone()
		raw.Each(func(r, c int, cell []float64) { cell[0] = math.Hypot(dx.At(r, c), dy.At(r, c)) })
	default:
		return nil, fmt.Errorf("unknown sobel axis %q (want x, y or both)", p.Axis)
	}
	rendered, err := Render(raw)
	if err != nil {
		return nil, err
	}
	return &Result{
		Source:  lum,
		Outputs: []Output{{Kind: "sobel", Image: rendered, Raw: raw, Marked: -1}},
	}, nil
}

func applyHarris(img image.Image, p preset.Preset) (*Result, error) {
	lum, err := Luminance(img)
	if err != nil {
		return nil, err
	}
	resp, err := detect.Harris(lum, p.HarrisK)
	if err != nil {
		return nil, err
	}
	resp = detect.ClampNegative(resp)
	rendered, err := Render(resp)
	if err != nil {
		return nil, err
	}
	ov, err := mark(img, detect.AtLeast(resp, p.HarrisThreshold), p)
	if err != nil {
		return nil, err
	}
	return &Result{
		Source: lum,
		Outputs: []Output{
			{Kind: "response", Image: rendered, Raw: resp, Marked: -1},
			ov,
		},
	}, nil
}

func applyHessian(img image.Image, p preset.Preset) (*Result, error) {
	lum, err := Luminance(img)
	if err != nil {
		return nil, err
	}
	res, err := detect.Hessian(lum)
	if err != nil {
		return nil, err
	}
	detPeaks, err := detect.NonMax(detect.Threshold(res.Determinants, p.DetThreshold), p.Window, false)
	if err != nil {
		return nil, err
	}
	tracePeaks, err := detect.NonMax(detect.Threshold(res.Traces, p.TraceThreshold), p.Window, false)
	if err != nil {
		return nil, err
	}
	// A cell is marked unless it survives suppression on both maps.
	marks, err := detPeaks.Not().Or(tracePeaks.Not())
	if err != nil {
		return nil, err
	}

	detImg, err := Render(res.Determinants)
	if err != nil {
		return nil, err
	}
	traceImg, err := Render(res.Traces)
	if err != nil {
		return nil, err
	}
	ov, err := mark(img, marks, p)
	if err != nil {
		return nil, err
	}
	return &Result{
		Source: lum,
		Outputs: []Output{
			{Kind: "determinants", Image: detImg, Raw: res.Determinants, Marked: -1},
			{Kind: "traces", Image: traceImg, Raw: res.Traces, Marked: -1},
			ov,
		},
	}, nil
}

func applyDiffuse(img image.Image, p preset.Preset) (*Result, error) {
	var (
		src *grid.Grid[float64]
		err error
	)
	if p.Channels {
		src, err = Channels(img)
	} else {
		src, err = Luminance(img)
	}
	if err != nil {
		return nil, err
	}
	out, err := diffusion.Diffuse(src, diffusion.Options{
		Kappa:  p.Kappa,
		Scheme: diffusion.Scheme(p.Scheme),
	}, p.Iterations)
	if err != nil {
		return nil, err
	}
	rendered, err := renderLevels(out)
	if err != nil {
		return nil, err
	}
	return &Result{
		Source:  src,
		Outputs: []Output{{Kind: "diffused", Image: rendered, Raw: out, Marked: -1}},
	}, nil
}

// Pad surrounds every channel of img with count pixels of value.
func Pad(img image.Image, count int, value uint8) (image.Image, error) {
	src := pixel.ToVectorMatrix[uint8](pixel.FromStd(img))
	padded, err := grid.Pad(src, count, value)
	if err != nil {
		return nil, err
	}
	return pixel.ToStd(pixel.ToPixelGrid(padded))
}
