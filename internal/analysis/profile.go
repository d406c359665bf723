// SPDX-License-Identifier: MIT
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Profile summarizes the fundamental-frequency trace of a waveform. All
// frequency fields are in Hz and non-negative. Median and Mean are computed
// over the full decoded trace, never a subsample.
type Profile struct {
	Min        float64
	Max        float64
	Median     float64
	Mean       float64
	SampleRate int
}

// profileFromTrace reduces a time-indexed frequency trace to its summary
// statistics. The trace must be non-empty.
func profileFromTrace(trace []float64, sampleRate int) Profile {
	sorted := append([]float64(nil), trace...)
	sort.Float64s(sorted)

	return Profile{
		Min:        floats.Min(sorted),
		Max:        floats.Max(sorted),
		Median:     stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Mean:       stat.Mean(trace, nil),
		SampleRate: sampleRate,
	}
}
