package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simmplecoder/flash/internal/gridio"
	"github.com/simmplecoder/flash/internal/hasher"
	"github.com/simmplecoder/flash/internal/manifest"
)

var validateDeep bool

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a flash manifest and check referenced files exist",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateDeep, "deep", false, "re-hash every output and compare")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	errors := validateManifest(m, filepath.Dir(path), validateDeep)

	if len(errors) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d sources, %d outputs, all files present\n", m.Stats.TotalSources, m.Stats.TotalOutputs)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errors))
}

func validateManifest(m *manifest.Manifest, baseDir string, deep bool) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for key, o := range m.Outputs {
		if o.Source.Width <= 0 || o.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("source %q: invalid dimensions %dx%d",
				key, o.Source.Width, o.Source.Height))
		}
		if len(o.Results) == 0 {
			errs = append(errs, fmt.Sprintf("source %q: no outputs", key))
		}

		seenPaths := map[string]bool{}
		for i, r := range o.Results {
			if r.Kind == "" {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: empty kind", key, i))
			}
			if r.Hash == "" {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: missing hash", key, i))
			}
			if r.Min > r.Max {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: min %g above max %g", key, i, r.Min, r.Max))
			}
			if r.Path == "" {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: missing path", key, i))
				continue
			}

			if seenPaths[r.Path] {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: duplicate path %q", key, i, r.Path))
			}
			seenPaths[r.Path] = true

			fullPath := filepath.Join(baseDir, filepath.FromSlash(r.Path))
			info, err := os.Stat(fullPath)
			if err != nil {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: file not found: %s", key, i, r.Path))
				continue
			}
			if info.Size() != r.Size {
				errs = append(errs, fmt.Sprintf("source %q result[%d]: size mismatch: manifest=%d, disk=%d",
					key, i, r.Size, info.Size()))
			}
			if deep {
				if msg := verifyHash(fullPath, r); msg != "" {
					errs = append(errs, fmt.Sprintf("source %q result[%d]: %s", key, i, msg))
				}
			}
		}
	}

	sourceCount := len(m.Outputs)
	outputCount := 0
	for _, o := range m.Outputs {
		outputCount += len(o.Results)
	}
	if m.Stats.TotalSources != sourceCount {
		errs = append(errs, fmt.Sprintf("stats.total_sources mismatch: %d != %d", m.Stats.TotalSources, sourceCount))
	}
	if m.Stats.TotalOutputs != outputCount {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputCount))
	}

	return errs
}

// verifyHash recomputes the hash of one output. Raw dumps are hashed over
// their values, images over their bytes.
func verifyHash(path string, r manifest.Result) string {
	var got string
	if strings.HasSuffix(r.Kind, ".raw") {
		g, err := gridio.ReadFile(path)
		if err != nil {
			return err.Error()
		}
		got = hasher.GridDigest(g, len(r.Hash))
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err.Error()
		}
		defer f.Close()
		got, err = hasher.ContentHashReader(f, len(r.Hash))
		if err != nil {
			return err.Error()
		}
	}
	if got != r.Hash {
		return fmt.Sprintf("hash mismatch: manifest=%s, disk=%s", r.Hash, got)
	}
	return ""
}
