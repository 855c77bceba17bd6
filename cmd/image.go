package cmd

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/encoder"
	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/pipeline"
	"github.com/simmplecoder/flash/internal/preset"
	"github.com/simmplecoder/flash/internal/remap"
)

var registry = encoder.NewRegistry()

// imageFlags are shared by every single-image command.
type imageFlags struct {
	preset   string
	maxWidth int
	quality  int
}

func (f *imageFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.preset, "preset", "p", preset.DefaultName,
		"operator preset ("+strings.Join(preset.Names(), ", ")+")")
	c.Flags().IntVar(&f.maxWidth, "max-width", 0, "downscale wider inputs first (0 = keep size)")
	c.Flags().IntVarP(&f.quality, "quality", "q", 0, "jpeg quality 1-100 (0 = default)")
}

// resolve loads the preset; explicit flags are applied by the caller.
func (f *imageFlags) resolve() preset.Preset {
	if !preset.Known(f.preset) {
		logVerbose("unknown preset %q, using default parameters", f.preset)
	}
	p := preset.Get(f.preset)
	if f.maxWidth > 0 {
		p.MaxWidth = f.maxWidth
	}
	logVerbose("preset: %s", p.Name)
	return p
}

func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	logVerbose("loaded %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

func saveImage(path string, img image.Image, quality int) error {
	n, err := registry.WriteFile(path, img, quality)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	logVerbose("wrote %s (%s)", path, formatBytes(n))
	return nil
}

// applyFile loads in and runs op over it.
func applyFile(in string, op pipeline.Op, p preset.Preset) (image.Image, *pipeline.Result, error) {
	img, err := loadImage(in)
	if err != nil {
		return nil, nil, err
	}
	res, err := pipeline.Apply(img, op, p)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return img, res, nil
}

// saveOutputs writes the outputs named in paths (kind → file); empty paths
// are skipped.
func saveOutputs(res *pipeline.Result, paths map[string]string, quality int) error {
	for _, out := range res.Outputs {
		path := paths[out.Kind]
		if path == "" {
			continue
		}
		if err := saveImage(path, out.Image, quality); err != nil {
			return err
		}
		if out.Marked >= 0 {
			fmt.Printf("  %-14s %s  (%d marked)\n", out.Kind+":", path, out.Marked)
		} else {
			fmt.Printf("  %-14s %s\n", out.Kind+":", path)
		}
	}
	return nil
}

// printRange prints the per-lane extent of a raw response.
func printRange(label string, g *grid.Grid[float64]) {
	lo, err := remap.ChannelwiseMin(g)
	if err != nil {
		fmt.Printf("  %-14s empty\n", label+":")
		return
	}
	hi, _ := remap.ChannelwiseMax(g)
	fmt.Printf("  %-14s %s\n", label+":", formatLanes(lo, hi))
}

func formatLanes(lo, hi []float64) string {
	parts := make([]string, len(lo))
	for i := range lo {
		parts[i] = fmt.Sprintf("[%.1f, %.1f]", lo[i], hi[i])
	}
	return strings.Join(parts, " ")
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
