package preset

import "sort"

// Preset fixes operator parameters for a kind of input.
// Thresholds are tuned for 8-bit sources.
type Preset struct {
	Name string

	// Sobel
	Axis string // "x", "y" or "both" (gradient magnitude)

	// Harris
	HarrisK         float64
	HarrisThreshold float64

	// Hessian
	DetThreshold   float64
	TraceThreshold float64
	Window         int // non-max window, odd

	// Diffusion
	Kappa      float64
	Iterations int
	Scheme     int  // 4 or 8 neighbours
	Channels   bool // diffuse colour channels instead of luminance

	// Shared
	MaxWidth     int     // pre-scale wider inputs, 0 keeps the original size
	MarkerColor  string  // overlay.ParseColor syntax
	MarkerRadius float64 // 0 paints single pixels
}

// DefaultName is the preset used when none is requested.
const DefaultName = "default"

// Built-in presets.
var presets = map[string]Preset{
	"default": {
		Name:            "default",
		Axis:            "both",
		HarrisK:         0.04,
		HarrisThreshold: 1e10,
		DetThreshold:    1e6,
		TraceThreshold:  0,
		Window:          3,
		Kappa:           30,
		Iterations:      10,
		Scheme:          4,
		MarkerColor:     "green",
	},
	"corners": {
		Name:            "corners",
		Axis:            "both",
		HarrisK:         0.04,
		HarrisThreshold: 1e9,
		DetThreshold:    1e5,
		TraceThreshold:  0,
		Window:          3,
		Kappa:           30,
		Iterations:      10,
		Scheme:          4,
		MarkerColor:     "red",
		MarkerRadius:    2,
	},
	"corners-strict": {
		Name:            "corners-strict",
		Axis:            "both",
		HarrisK:         0.06,
		HarrisThreshold: 1e11,
		DetThreshold:    1e7,
		TraceThreshold:  100,
		Window:          5,
		Kappa:           30,
		Iterations:      10,
		Scheme:          4,
		MarkerColor:     "red",
		MarkerRadius:    3,
	},
	"smooth": {
		Name:            "smooth",
		Axis:            "both",
		HarrisK:         0.04,
		HarrisThreshold: 1e10,
		DetThreshold:    1e6,
		Window:          3,
		Kappa:           20,
		Iterations:      20,
		Scheme:          4,
		MarkerColor:     "green",
	},
	"smooth-strong": {
		Name:            "smooth-strong",
		Axis:            "both",
		HarrisK:         0.04,
		HarrisThreshold: 1e10,
		DetThreshold:    1e6,
		Window:          3,
		Kappa:           50,
		Iterations:      60,
		Scheme:          8,
		Channels:        true,
		MarkerColor:     "green",
	},
}

// Get returns a preset by name. Falls back to default if unknown.
func Get(name string) Preset {
	if p, ok := presets[name]; ok {
		return p
	}
	p := presets[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in preset.
func Known(name string) bool {
	_, ok := presets[name]
	return ok
}

// Names returns the built-in preset names, sorted.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
