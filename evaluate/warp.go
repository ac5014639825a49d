// SPDX-License-Identifier: MIT

package evaluate

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyTrace is returned by WarpDistance for an empty input.
var ErrEmptyTrace = errors.New("evaluate: warp distance needs non-empty traces")

// WarpDistance is the dynamic time warping distance between two traces with
// a Sakoe-Chiba band of half-width band samples; band <= 0 leaves the path
// unconstrained. Each step costs |a[i]-b[j]|. Two rows of the cost table
// are kept, so memory is O(len(b)).
//
// A Born waveform that matches the observed trace up to a small time shift
// has a warp distance well below its sample-wise L1 misfit.
func WarpDistance(a, b []float64, band int) (float64, error) {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0, ErrEmptyTrace
	}
	if band <= 0 {
		band = max(n, m)
	}

	inf := math.Inf(1)
	prev, curr := make([]float64, m+1), make([]float64, m+1)
	for j := 1; j <= m; j++ {
		prev[j] = inf
	}
	for i := 1; i <= n; i++ {
		curr[0] = inf
		for j := 1; j <= m; j++ {
			if i-j > band || j-i > band {
				curr[j] = inf
				continue
			}
			curr[j] = math.Abs(a[i-1]-b[j-1]) + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}

	return prev[m], nil
}

// WindowWarp is the warp diagnostic of one window.
type WindowWarp struct {
	Window   int
	Distance float64 // WarpDistance(observed, born)
	L1       float64 // Σ|observed - born|
}

// Warp compares the raw observed trace of every window with its Born
// waveform under m. Windows of weight 0 are skipped.
func (e *Evaluator) Warp(m []float64, band int) ([]WindowWarp, error) {
	out := make([]WindowWarp, 0, e.dv.WindowCount())
	for i := 0; i < e.dv.WindowCount(); i++ {
		born, err := e.BornWaveform(i, m)
		if errors.Is(err, ErrZeroWeight) {
			continue
		}
		if err != nil {
			return nil, err
		}
		obs := e.dv.Observed(i).Samples()
		d, err := WarpDistance(obs, born, band)
		if err != nil {
			return nil, fmt.Errorf("evaluate: window %d: %w", i, err)
		}
		var l1 float64
		for k := range obs {
			l1 += math.Abs(obs[k] - born[k])
		}
		out = append(out, WindowWarp{Window: i, Distance: d, L1: l1})
	}

	return out, nil
}
