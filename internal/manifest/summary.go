package manifest

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize fills the value statistics of r from the raw values an output
// was rendered from. An empty slice leaves them zero.
func (r *Result) Summarize(values []float64) {
	if len(values) == 0 {
		return
	}
	r.Min = floats.Min(values)
	r.Max = floats.Max(values)
	r.Mean, r.StdDev = stat.PopMeanStdDev(values, nil)
}
