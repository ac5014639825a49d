// SPDX-License-Identifier: MIT

package datavector

import (
	"github.com/katalvlaran/waveinv/waveform"
	"github.com/katalvlaran/waveinv/window"
)

// Pair is one window with its matched records, the input of a Weighting.
type Pair struct {
	Window    window.TimeWindow
	Observed  waveform.Record
	Synthetic waveform.Record
}

// Weighting maps a pair to its scalar window weight.
type Weighting interface {
	Weight(p Pair) float64
}

// WeightFunc adapts a function to Weighting.
type WeightFunc func(p Pair) float64

// Weight calls f(p).
func (f WeightFunc) Weight(p Pair) float64 { return f(p) }

// Identity weights every window by 1.
type Identity struct{}

// Weight returns 1.
func (Identity) Weight(Pair) float64 { return 1 }

// ReciprocalAmplitude weights a window by 1/max|obs|, so every observed
// window enters the inversion with unit peak amplitude. A silent observed
// trace gets weight 0.
type ReciprocalAmplitude struct{}

// Weight returns 1/max|obs|, or 0 for a silent trace.
func (ReciprocalAmplitude) Weight(p Pair) float64 {
	m := p.Observed.MaxAbs()
	if m == 0 {
		return 0
	}

	return 1 / m
}

// WeightTable multiplies a per-station and a per-event factor. Missing
// entries count as 1.
type WeightTable struct {
	Station map[string]float64
	Event   map[string]float64
}

// Weight returns the product of the window's station and event factors.
func (t WeightTable) Weight(p Pair) float64 {
	w := 1.0
	if v, ok := t.Station[p.Window.Station]; ok {
		w *= v
	}
	if v, ok := t.Event[p.Window.Event]; ok {
		w *= v
	}

	return w
}
