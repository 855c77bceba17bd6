package pipeline

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simmplecoder/flash/internal/encoder"
	"github.com/simmplecoder/flash/internal/manifest"
	"github.com/simmplecoder/flash/internal/preset"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Op        Op
	Preset    preset.Preset
	Format    string // output image format, png when empty
	Quality   int    // lossy formats only
	Workers   int
	Raw       bool // also dump .fgrid files
	Verbose   bool
}

// Pipeline orchestrates batch processing.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(),
	}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[flash] "+format+"\n", args...)
	}
}

// Run executes the batch and returns the manifest. Individual failures are
// reported and skipped; the run fails only when every image failed or ctx
// was cancelled.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	p.logf("%s", p.registry.String())

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir, p.cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	p.logf("found %d images, %d workers", len(sources), p.cfg.Workers)

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.logf("processing: %s", src.Key)
			results[i] = processImage(src, p.cfg, p.registry)
			if results[i].err == nil {
				p.logf("done: %s (%d outputs)", src.Key, len(results[i].output.Results))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Preset.Name, string(p.cfg.Op))

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Outputs[r.key] = r.output
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[flash] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[flash] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Raw:     p.cfg.Raw,
	}
	m.ComputeStats()
	return m, nil
}
