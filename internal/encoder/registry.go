package encoder

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

// Registry maps format names and file extensions to encoders.
type Registry struct {
	encoders map[string]Encoder // by format
	byExt    map[string]Encoder
	order    []string
}

// NewRegistry creates a registry holding every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
		byExt:    make(map[string]Encoder),
	}

	// Priority order: png is the default output.
	all := []Encoder{
		&PNGEncoder{},
		&JPEGEncoder{},
		&TIFFEncoder{},
		&BMPEncoder{},
	}

	for _, enc := range all {
		r.encoders[enc.Format()] = enc
		r.order = append(r.order, enc.Format())
		for _, ext := range enc.Extensions() {
			r.byExt[ext] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format or extension, or nil.
func (r *Registry) Get(format string) Encoder {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if enc, ok := r.encoders[format]; ok {
		return enc
	}
	return r.byExt[format]
}

// ForPath picks the encoder matching the extension of path.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := filepath.Ext(path)
	if enc := r.Get(ext); enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("no encoder for %q (have %s)", ext, strings.Join(r.Available(), ", "))
}

// WriteFile encodes img according to the extension of path and writes it.
// It returns the number of bytes written.
func (r *Registry) WriteFile(path string, img image.Image, quality int) (int64, error) {
	enc, err := r.ForPath(path)
	if err != nil {
		return 0, err
	}
	data, err := enc.Encode(img, quality)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	return append([]string(nil), r.order...)
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
