package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/manifest"
	"github.com/simmplecoder/flash/internal/pipeline"
	"github.com/simmplecoder/flash/internal/preset"
)

var (
	batchOutDir   string
	batchOp       string
	batchPreset   string
	batchWorkers  int
	batchRaw      bool
	batchFormat   string
	batchQuality  int
	batchMaxWidth int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Run one operator over a directory of images",
	Long: `Scans <input_dir> for images (png, jpg, jpeg, webp, gif, bmp, tiff), applies
--op with the parameters of --preset to each of them in parallel and writes
the rendered outputs plus a manifest.

Output filenames are content-addressed: <key>.<kind>.<hash>.ext
With --raw the unrounded responses are also written as .fgrid files.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringVarP(&batchOutDir, "out", "o", "./flash_out", "output directory")
	f.StringVar(&batchOp, "op", string(pipeline.OpSobel), "operator: sobel, harris, hessian or diffuse")
	f.StringVarP(&batchPreset, "preset", "p", preset.DefaultName,
		"operator preset ("+strings.Join(preset.Names(), ", ")+")")
	f.IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	f.BoolVar(&batchRaw, "raw", false, "also write float responses as .fgrid files")
	f.StringVarP(&batchFormat, "format", "f", "png", "output image format")
	f.IntVarP(&batchQuality, "quality", "q", 0, "jpeg quality 1-100 (0 = default)")
	f.IntVar(&batchMaxWidth, "max-width", 0, "downscale wider inputs first (0 = preset default)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	op, err := pipeline.ParseOp(batchOp)
	if err != nil {
		return err
	}
	if registry.Get(batchFormat) == nil {
		return fmt.Errorf("unsupported output format %q (%s)", batchFormat, registry.String())
	}

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	p := preset.Get(batchPreset)
	if batchMaxWidth > 0 {
		p.MaxWidth = batchMaxWidth
	}

	logVerbose("input:    %s", absInput)
	logVerbose("output:   %s", absOutput)
	logVerbose("operator: %s (preset %s)", op, p.Name)

	m, err := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Op:        op,
		Preset:    p,
		Format:    batchFormat,
		Quality:   batchQuality,
		Workers:   batchWorkers,
		Raw:       batchRaw,
		Verbose:   verbose,
	}).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if err := manifest.WriteJSON(m, filepath.Join(absOutput, manifest.FileName)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(m, time.Since(start))
	return nil
}

func printBatchReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Printf("  flash %s complete\n", m.Operator)
	fmt.Println()

	stats := m.Stats
	fmt.Printf("  Sources:     %d\n", stats.TotalSources)
	fmt.Printf("  Outputs:     %d\n", stats.TotalOutputs)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Preset:      %s\n", m.Preset)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Overlays with the most marks first.
	type marked struct {
		key   string
		count int
	}
	var items []marked
	for key, o := range m.Outputs {
		for _, r := range o.Results {
			if r.Marked != nil {
				items = append(items, marked{key, *r.Marked})
			}
		}
	}
	if len(items) > 0 {
		sort.Slice(items, func(i, j int) bool {
			if items[i].count != items[j].count {
				return items[i].count > items[j].count
			}
			return items[i].key < items[j].key
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d by marked cells:\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8d\n", truncKey(it.key, 40), it.count)
		}
		fmt.Println()
	}

	data, _ := json.Marshal(m)
	fmt.Printf("  Manifest:    %s (%s)\n", manifest.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}
