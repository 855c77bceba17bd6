package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// FileName is the manifest name inside an output directory.
const FileName = "flash.manifest.json"

// New creates an empty manifest with defaults.
func New(presetName, operator string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Preset:      presetName,
		Operator:    operator,
		BasePath:    "./",
		Outputs:     make(map[string]Output),
	}
}

// ComputeStats recalculates aggregate statistics from outputs.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalSources = len(m.Outputs)
	for _, o := range m.Outputs {
		s.TotalInputBytes += o.Source.Size
		s.TotalOutputs += len(o.Results)
		for _, r := range o.Results {
			s.TotalOutputBytes += r.Size
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest. Unknown fields are ignored.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}
