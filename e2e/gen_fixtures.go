//go:build ignore

// gen_fixtures creates small test images for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "shapes"), 0o755)

	// Corners: checkerboard and a single block.
	save(filepath.Join(dir, "shapes", "checker.png"), checker(128, 128, 16))
	save(filepath.Join(dir, "shapes", "block.png"), block(96, 96))

	// Blobs for the Hessian.
	save(filepath.Join(dir, "blobs.png"), blobs(160, 120))

	// Noisy step edge for diffusion (JPEG on purpose).
	save(filepath.Join(dir, "noisy-step.jpg"), noisyStep(200, 150, 1))

	// Flat image: every response is degenerate.
	save(filepath.Join(dir, "flat.png"), imaging.New(64, 64, color.NRGBA{R: 90, G: 90, B: 90, A: 255}))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func checker(w, h, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(30)
			if (x/cell+y/cell)%2 == 0 {
				v = 225
			}
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func block(w, h int) *image.NRGBA {
	img := imaging.New(w, h, color.NRGBA{A: 255})
	for y := h / 4; y < 3*h/4; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	return img
}

func blobs(w, h int) *image.NRGBA {
	centres := [][3]float64{{40, 40, 8}, {110, 50, 14}, {70, 90, 5}}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 0.0
			for _, c := range centres {
				dx, dy := float64(x)-c[0], float64(y)-c[1]
				v += 220 * math.Exp(-(dx*dx+dy*dy)/(2*c[2]*c[2]))
			}
			g := uint8(math.Min(255, v))
			img.SetNRGBA(x, y, color.NRGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return img
}

func noisyStep(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			base := 60.0
			if x >= w/2 {
				base = 190
			}
			v := uint8(math.Max(0, math.Min(255, base+rng.NormFloat64()*12)))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	return img
}

func save(path string, img image.Image) {
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		panic(err)
	}
}
