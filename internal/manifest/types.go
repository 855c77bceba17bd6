package manifest

// Manifest is the top-level output of a flash batch run.
type Manifest struct {
	Version     int               `json:"version"`
	GeneratedAt string            `json:"generated_at"`
	Preset      string            `json:"preset"`
	Operator    string            `json:"operator"`
	BasePath    string            `json:"base_path"`
	BuildInfo   *BuildInfo        `json:"build_info,omitempty"`
	Outputs     map[string]Output `json:"outputs"`
	Stats       Stats             `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers int  `json:"workers"`
	Raw     bool `json:"raw,omitempty"` // .fgrid dumps written next to images
}

// Output describes a single source image and everything derived from it.
type Output struct {
	Source  SourceInfo `json:"source"`
	Results []Result   `json:"results"`
}

// SourceInfo holds metadata about the source image.
type SourceInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// Result is one file produced by an operator.
type Result struct {
	Kind   string  `json:"kind"` // "sobel", "response", "overlay", "determinants", ...
	Path   string  `json:"path"` // relative to base_path
	Hash   string  `json:"hash"` // first 16 hex chars of xxhash64
	Size   int64   `json:"size"` // bytes on disk
	Min    float64 `json:"min"`  // statistics of the raw grid before remapping
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Marked *int    `json:"marked,omitempty"` // overlays only
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalSources     int   `json:"total_sources"`
	TotalOutputs     int   `json:"total_outputs"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
