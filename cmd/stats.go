package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	printStats(m)
	return nil
}

// manifestPath resolves a directory to the manifest inside it.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

type kindStats struct {
	count  int
	bytes  int64
	marked int
	lo, hi float64
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Operator:         %s\n", m.Operator)
	fmt.Printf("  Preset:           %s\n", m.Preset)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Raw dumps:        %t\n", m.BuildInfo.Raw)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total sources:    %d\n", s.TotalSources)
	fmt.Printf("  Total outputs:    %d\n", s.TotalOutputs)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Println()

	// Per-kind breakdown.
	kinds := map[string]*kindStats{}
	for _, o := range m.Outputs {
		for _, r := range o.Results {
			ks, ok := kinds[r.Kind]
			if !ok {
				ks = &kindStats{lo: r.Min, hi: r.Max}
				kinds[r.Kind] = ks
			}
			ks.count++
			ks.bytes += r.Size
			if r.Marked != nil {
				ks.marked += *r.Marked
				continue
			}
			ks.lo = min(ks.lo, r.Min)
			ks.hi = max(ks.hi, r.Max)
		}
	}
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Println("  Kind breakdown:")
	for _, k := range names {
		ks := kinds[k]
		if k == "overlay" {
			fmt.Printf("    %-16s %4d files  %9s  %d marked\n", k, ks.count, formatBytes(ks.bytes), ks.marked)
			continue
		}
		fmt.Printf("    %-16s %4d files  %9s  range [%.4g, %.4g]\n", k, ks.count, formatBytes(ks.bytes), ks.lo, ks.hi)
	}

	// Warnings.
	var warnings []string
	for key, o := range m.Outputs {
		if len(o.Results) == 0 {
			warnings = append(warnings, fmt.Sprintf("source %q has no outputs", key))
		}
		for _, r := range o.Results {
			if r.Marked == nil && r.Min == r.Max {
				warnings = append(warnings, fmt.Sprintf("source %q: flat %s response", key, r.Kind))
			}
		}
	}
	if len(warnings) > 0 {
		sort.Strings(warnings)
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
