package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/simmplecoder/flash/internal/encoder"
	"github.com/simmplecoder/flash/internal/grid"
	"github.com/simmplecoder/flash/internal/gridio"
	"github.com/simmplecoder/flash/internal/hasher"
	"github.com/simmplecoder/flash/internal/manifest"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key    string
	output manifest.Output
	err    error
}

// Decode opens and decodes an image file with every registered decoder.
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return image.Decode(f)
}

// processImage handles a single source image: decode, apply, encode, write.
func processImage(src Source, cfg Config, registry *encoder.Registry) processResult {
	result := processResult{key: src.Key}

	img, _, err := Decode(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	res, err := Apply(img, cfg.Op, cfg.Preset)
	if err != nil {
		result.err = fmt.Errorf("%s %s: %w", cfg.Op, src.RelPath, err)
		return result
	}

	result.output.Source = manifest.SourceInfo{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Format: src.Format,
		Size:   src.Size,
	}

	enc := registry.Get(cfg.Format)
	if enc == nil {
		result.err = fmt.Errorf("no encoder for format %q", cfg.Format)
		return result
	}

	// Ensure output subdirectory exists.
	keyDir := path.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, filepath.FromSlash(keyDir)), 0o755); err != nil {
			result.err = err
			return result
		}
	}
	base := path.Base(src.Key)

	for _, out := range res.Outputs {
		data, err := enc.Encode(out.Image, cfg.Quality)
		if err != nil {
			result.err = fmt.Errorf("encode %s %s: %w", src.Key, out.Kind, err)
			return result
		}

		// Content hash for filename: key.kind.hash.ext
		contentHash := hasher.ContentHash(data, 16)
		relPath := path.Join(keyDir, fmt.Sprintf("%s.%s.%s.%s", base, out.Kind, contentHash[:8], enc.Extensions()[0]))
		if err := os.WriteFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(relPath)), data, 0o644); err != nil {
			result.err = fmt.Errorf("write %s: %w", relPath, err)
			return result
		}

		entry := manifest.Result{
			Kind: out.Kind,
			Path: relPath,
			Hash: contentHash,
			Size: int64(len(data)),
		}
		if out.Raw != nil {
			entry.Summarize(values(out.Raw))
		}
		if out.Marked >= 0 {
			marked := out.Marked
			entry.Marked = &marked
		}
		result.output.Results = append(result.output.Results, entry)

		if cfg.Raw && out.Raw != nil {
			raw, err := writeRaw(cfg.OutputDir, keyDir, base, out.Kind, out.Raw)
			if err != nil {
				result.err = err
				return result
			}
			raw.Min, raw.Max, raw.Mean, raw.StdDev = entry.Min, entry.Max, entry.Mean, entry.StdDev
			result.output.Results = append(result.output.Results, raw)
		}
	}

	return result
}

// writeRaw dumps g losslessly next to the rendered image, named by the
// digest of its values.
func writeRaw(outputDir, keyDir, base, kind string, g *grid.Grid[float64]) (manifest.Result, error) {
	digest := hasher.GridDigest(g, 16)
	relPath := path.Join(keyDir, fmt.Sprintf("%s.%s.%s%s", base, kind, digest[:8], gridio.Extension))
	full := filepath.Join(outputDir, filepath.FromSlash(relPath))
	if err := gridio.WriteFile(full, g); err != nil {
		return manifest.Result{}, fmt.Errorf("write %s: %w", relPath, err)
	}
	info, err := os.Stat(full)
	if err != nil {
		return manifest.Result{}, err
	}
	return manifest.Result{
		Kind: kind + ".raw",
		Path: relPath,
		Hash: digest,
		Size: info.Size(),
	}, nil
}

// values flattens every lane of g.
func values(g *grid.Grid[float64]) []float64 {
	out := make([]float64, 0, g.Rows()*g.Columns()*g.Lanes())
	g.Each(func(_, _ int, cell []float64) { out = append(out, cell...) })
	return out
}
