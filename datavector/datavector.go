// SPDX-License-Identifier: MIT

package datavector

import (
	"fmt"
	"math"

	"github.com/katalvlaran/waveinv/matrix"
	"github.com/katalvlaran/waveinv/waveform"
	"github.com/katalvlaran/waveinv/window"
	"go.uber.org/zap"
)

// Option configures Build.
type Option func(*options)

type options struct {
	skipUnpaired bool
	logger       *zap.Logger
}

// WithSkipUnpaired drops windows that fail pairing instead of returning the
// *PairingError. Dropped windows are logged and available from Skipped.
func WithSkipUnpaired() Option {
	return func(o *options) { o.skipUnpaired = true }
}

// WithLogger sets the logger for pairing reports.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// DataVector is the immutable, ordered concatenation of paired windows.
type DataVector struct {
	windows []window.TimeWindow
	obs     []waveform.Record
	syn     []waveform.Record
	weights []float64
	offsets []int // len(windows)+1; offsets[i] is the first row of window i
	index   map[waveform.Key]int
	skipped []*PairingError
}

// Build pairs every window with exactly one observed and one synthetic
// record sharing its key, sampling rate, period band and sample count.
// Rows follow the order of windows.
func Build(obs, syn []waveform.Record, windows []window.TimeWindow, policy Weighting, opts ...Option) (*DataVector, error) {
	o := options{logger: zap.NewNop()}
	for _, set := range opts {
		set(&o)
	}
	if policy == nil {
		policy = Identity{}
	}

	obsByKey, err := groupByKey(obs, waveform.Observed)
	if err != nil {
		return nil, err
	}
	synByKey, err := groupByKey(syn, waveform.Synthetic)
	if err != nil {
		return nil, err
	}

	dv := &DataVector{
		offsets: []int{0},
		index:   make(map[waveform.Key]int, len(windows)),
	}
	for _, w := range windows {
		p, perr := dv.pair(w, obsByKey, synByKey)
		if perr != nil {
			if !o.skipUnpaired {
				return nil, perr
			}
			o.logger.Warn("window skipped",
				zap.String("station", w.Station),
				zap.String("event", w.Event),
				zap.Stringer("component", w.Component),
				zap.String("reason", perr.Reason))
			dv.skipped = append(dv.skipped, perr)

			continue
		}

		wt := policy.Weight(p)
		if math.IsNaN(wt) || math.IsInf(wt, 0) || wt < 0 {
			return nil, fmt.Errorf("%w: %g for window %s", ErrBadWeight, wt, w)
		}
		dv.index[w.Key] = len(dv.windows)
		dv.windows = append(dv.windows, w)
		dv.obs = append(dv.obs, p.Observed)
		dv.syn = append(dv.syn, p.Synthetic)
		dv.weights = append(dv.weights, wt)
		dv.offsets = append(dv.offsets, dv.offsets[len(dv.offsets)-1]+p.Observed.Len())
	}
	if len(dv.windows) == 0 {
		return nil, ErrNoWindows
	}
	o.logger.Info("data vector built",
		zap.Int("windows", len(dv.windows)),
		zap.Int("rows", dv.Len()),
		zap.Int("skipped", len(dv.skipped)))

	return dv, nil
}

func groupByKey(rs []waveform.Record, kind waveform.Kind) (map[waveform.Key][]waveform.Record, error) {
	out := make(map[waveform.Key][]waveform.Record, len(rs))
	for i, r := range rs {
		if r.Kind() != kind {
			return nil, fmt.Errorf("datavector: record %d: %w: %s where %s expected",
				i, waveform.ErrInvalidRecord, r.Kind(), kind)
		}
		out[r.Key()] = append(out[r.Key()], r)
	}

	return out, nil
}

func (dv *DataVector) pair(w window.TimeWindow, obsByKey, synByKey map[waveform.Key][]waveform.Record) (Pair, *PairingError) {
	fail := func(format string, args ...any) (Pair, *PairingError) {
		return Pair{}, &PairingError{Window: w, Reason: fmt.Sprintf(format, args...)}
	}
	if _, dup := dv.index[w.Key]; dup {
		return fail("duplicate window key")
	}
	o, s := obsByKey[w.Key], synByKey[w.Key]
	switch {
	case len(o) != 1:
		return fail("%d observed records", len(o))
	case len(s) != 1:
		return fail("%d synthetic records", len(s))
	}
	ob, sy := o[0], s[0]
	switch {
	case ob.SamplingHz() != sy.SamplingHz():
		return fail("sampling rate %g (observed) != %g (synthetic)", ob.SamplingHz(), sy.SamplingHz())
	case !ob.Band().Equal(sy.Band()):
		return fail("period band %v (observed) != %v (synthetic)", ob.Band(), sy.Band())
	case ob.Len() != sy.Len():
		return fail("%d observed samples != %d synthetic samples", ob.Len(), sy.Len())
	}

	return Pair{Window: w, Observed: ob, Synthetic: sy}, nil
}

// WindowCount returns the number of paired windows, W.
func (dv *DataVector) WindowCount() int { return len(dv.windows) }

// Len returns N, the total number of rows.
func (dv *DataVector) Len() int { return dv.offsets[len(dv.offsets)-1] }

// StartOffset returns the first row of window i.
func (dv *DataVector) StartOffset(i int) int { return dv.offsets[i] }

// WindowLen returns the sample count of window i.
func (dv *DataVector) WindowLen(i int) int { return dv.offsets[i+1] - dv.offsets[i] }

// Window returns window i.
func (dv *DataVector) Window(i int) window.TimeWindow { return dv.windows[i] }

// Weight returns the weight of window i.
func (dv *DataVector) Weight(i int) float64 { return dv.weights[i] }

// Band returns the period band of window i.
func (dv *DataVector) Band(i int) waveform.Band { return dv.obs[i].Band() }

// SamplingHz returns the sampling rate of window i.
func (dv *DataVector) SamplingHz(i int) float64 { return dv.obs[i].SamplingHz() }

// Observed returns the raw observed record of window i.
func (dv *DataVector) Observed(i int) waveform.Record { return dv.obs[i] }

// Synthetic returns the raw synthetic record of window i.
func (dv *DataVector) Synthetic(i int) waveform.Record { return dv.syn[i] }

// IndexOf returns the window with key k.
func (dv *DataVector) IndexOf(k waveform.Key) (int, bool) {
	i, ok := dv.index[k]

	return i, ok
}

// Skipped returns the pairing failures dropped under WithSkipUnpaired.
func (dv *DataVector) Skipped() []*PairingError {
	out := make([]*PairingError, len(dv.skipped))
	copy(out, dv.skipped)

	return out
}

// ObservedVector returns the weighted observed data.
func (dv *DataVector) ObservedVector() []float64 {
	out := make([]float64, dv.Len())
	for i, r := range dv.obs {
		r.ScaleInto(out[dv.offsets[i]:dv.offsets[i+1]], dv.weights[i])
	}

	return out
}

// SyntheticVector returns the weighted synthetic data.
func (dv *DataVector) SyntheticVector() []float64 {
	out := make([]float64, dv.Len())
	for i, r := range dv.syn {
		r.ScaleInto(out[dv.offsets[i]:dv.offsets[i+1]], dv.weights[i])
	}

	return out
}

// ResidualVector returns d, the weighted observed minus synthetic data.
func (dv *DataVector) ResidualVector() []float64 {
	d := dv.ObservedVector()
	s := dv.SyntheticVector()
	for i := range d {
		d[i] -= s[i]
	}

	return d
}

// Combine concatenates one slice per window in window order. Each part must
// have the window's sample count.
func (dv *DataVector) Combine(parts [][]float64) ([]float64, error) {
	if len(parts) != len(dv.windows) {
		return nil, fmt.Errorf("datavector: combine: %w: %d parts for %d windows",
			matrix.ErrDimensionMismatch, len(parts), len(dv.windows))
	}
	out := make([]float64, 0, dv.Len())
	for i, p := range parts {
		if len(p) != dv.WindowLen(i) {
			return nil, fmt.Errorf("datavector: combine: %w: window %d has %d samples, part has %d",
				matrix.ErrDimensionMismatch, i, dv.WindowLen(i), len(p))
		}
		out = append(out, p...)
	}

	return out, nil
}

// Separate splits a length-N vector into one copied slice per window.
func (dv *DataVector) Separate(v []float64) ([][]float64, error) {
	if len(v) != dv.Len() {
		return nil, fmt.Errorf("datavector: separate: %w: got %d rows, want %d",
			matrix.ErrDimensionMismatch, len(v), dv.Len())
	}
	out := make([][]float64, len(dv.windows))
	for i := range out {
		out[i] = append([]float64(nil), v[dv.offsets[i]:dv.offsets[i+1]]...)
	}

	return out, nil
}
