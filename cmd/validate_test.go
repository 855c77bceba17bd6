package cmd

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simmplecoder/flash/internal/manifest"
	"github.com/simmplecoder/flash/internal/pipeline"
	"github.com/simmplecoder/flash/internal/preset"
)

func batchFixture(t *testing.T) (*manifest.Manifest, string) {
	t.Helper()
	in := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	f, err := os.Create(filepath.Join(in, "block.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	out := t.TempDir()
	m, err := pipeline.New(pipeline.Config{
		InputDir:  in,
		OutputDir: out,
		Op:        pipeline.OpHessian,
		Preset:    preset.Get(preset.DefaultName),
		Workers:   1,
		Raw:       true,
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := manifest.WriteJSON(m, filepath.Join(out, manifest.FileName)); err != nil {
		t.Fatal(err)
	}
	return m, out
}

func TestValidateManifestClean(t *testing.T) {
	m, out := batchFixture(t)
	if errs := validateManifest(m, out, true); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	path, err := manifestPath(out)
	if err != nil {
		t.Fatal(err)
	}
	read, err := manifest.ReadJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if errs := validateManifest(read, out, true); len(errs) != 0 {
		t.Errorf("unexpected errors after reload: %v", errs)
	}
}

func TestValidateManifestDetectsDamage(t *testing.T) {
	m, out := batchFixture(t)
	o := m.Outputs["block"]
	if len(o.Results) < 2 {
		t.Fatalf("expected several results, got %d", len(o.Results))
	}

	// Corrupt the first file in place, keeping its size.
	first := filepath.Join(out, filepath.FromSlash(o.Results[0].Path))
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)-1] ^= 0xff
	if err := os.WriteFile(first, data, 0o644); err != nil {
		t.Fatal(err)
	}
	// Remove the second.
	if err := os.Remove(filepath.Join(out, filepath.FromSlash(o.Results[1].Path))); err != nil {
		t.Fatal(err)
	}
	m.Stats.TotalOutputs++

	if errs := validateManifest(m, out, false); len(errs) != 2 {
		t.Errorf("shallow: got %d errors, want 2: %v", len(errs), errs)
	}

	errs := validateManifest(m, out, true)
	want := []string{"hash mismatch", "file not found", "stats.total_outputs"}
	for _, w := range want {
		found := false
		for _, e := range errs {
			if strings.Contains(e, w) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing %q in %v", w, errs)
		}
	}
}

func TestTruncKey(t *testing.T) {
	if got := truncKey("short", 10); got != "short" {
		t.Errorf("truncKey = %q", got)
	}
	if got := truncKey("a/very/long/key/name", 10); got != "...ey/name" {
		t.Errorf("truncKey = %q", got)
	}
	if got := formatBytes(2048); got != "2.0 KB" {
		t.Errorf("formatBytes = %q", got)
	}
}
