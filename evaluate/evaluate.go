// SPDX-License-Identifier: MIT

package evaluate

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/obseq"
	"github.com/katalvlaran/waveinv/solver"
	"github.com/katalvlaran/waveinv/waveform"
	"go.uber.org/zap"
)

var (
	// ErrZeroWeight is returned by BornWaveform for a window of weight 0,
	// whose raw-amplitude correction is undefined.
	ErrZeroWeight = errors.New("evaluate: window has zero weight")

	// ErrBadRedundancy indicates a non-positive redundancy factor.
	ErrBadRedundancy = errors.New("evaluate: redundancy must be > 0")

	// ErrWindowRange indicates a window index outside the data vector.
	ErrWindowRange = errors.New("evaluate: window index out of range")
)

// DefaultCacheSize is the number of predictions kept by default.
const DefaultCacheSize = 16

const panicCacheSizeInvalid = "evaluate: WithCacheSize: n must be >= 0"

// Option configures an Evaluator.
type Option func(*options)

type options struct {
	cacheSize int
	logger    *zap.Logger
}

// WithCacheSize bounds the prediction cache; 0 disables it. Panics if n < 0.
func WithCacheSize(n int) Option {
	if n < 0 {
		panic(panicCacheSizeInvalid)
	}

	return func(o *options) { o.cacheSize = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Evaluator scores models against one equation. Safe for concurrent use.
type Evaluator struct {
	eq     *obseq.Equation
	dv     *datavector.DataVector
	d      []float64
	obs    []float64
	cache  *predictionCache
	logger *zap.Logger
}

// New returns an Evaluator for eq.
func New(eq *obseq.Equation, opts ...Option) *Evaluator {
	o := options{cacheSize: DefaultCacheSize, logger: zap.NewNop()}
	for _, set := range opts {
		set(&o)
	}
	dv := eq.DataVector()

	return &Evaluator{
		eq:     eq,
		dv:     dv,
		d:      eq.D(),
		obs:    dv.ObservedVector(),
		cache:  newPredictionCache(o.cacheSize),
		logger: o.logger,
	}
}

// VarianceOf returns the normalised residual energy of m.
func (e *Evaluator) VarianceOf(m []float64) (float64, error) { return e.eq.VarianceOf(m) }

// AIC returns n·ln(variance) + 2·rank.
func AIC(variance, effectiveN float64, rank int) float64 {
	return effectiveN*math.Log(variance) + 2*float64(rank)
}

// EffectiveN discounts n samples by an assumed redundancy factor.
func EffectiveN(n int, redundancy float64) (float64, error) {
	if !(redundancy > 0) || math.IsInf(redundancy, 0) {
		return 0, fmt.Errorf("%w: %g", ErrBadRedundancy, redundancy)
	}

	return float64(n) / redundancy, nil
}

// Predict returns A·m. Results are cached by model; callers must not
// modify the returned slice.
func (e *Evaluator) Predict(m []float64) ([]float64, error) {
	key := fingerprint(m)
	if p, ok := e.cache.get(key, m); ok {
		return p, nil
	}
	p, err := e.eq.Operate(m)
	if err != nil {
		return nil, err
	}
	e.cache.put(key, m, p)

	return p, nil
}

// CacheStats reports prediction cache hits and misses.
func (e *Evaluator) CacheStats() (hits, misses uint64) { return e.cache.stats() }

// BornWaveform returns the raw-amplitude synthetic of window i corrected by
// the linearised model: syn + (A·m)[window]/weight.
func (e *Evaluator) BornWaveform(i int, m []float64) ([]float64, error) {
	if i < 0 || i >= e.dv.WindowCount() {
		return nil, fmt.Errorf("%w: %d", ErrWindowRange, i)
	}
	w := e.dv.Weight(i)
	if w == 0 {
		return nil, fmt.Errorf("%w: %s", ErrZeroWeight, e.dv.Window(i))
	}
	p, err := e.Predict(m)
	if err != nil {
		return nil, err
	}

	born := e.dv.Synthetic(i).Samples()
	off := e.dv.StartOffset(i)
	for k := range born {
		born[k] += p[off+k] / w
	}

	return born, nil
}

// BornRecord wraps BornWaveform in a synthetic record carrying the window's
// metadata.
func (e *Evaluator) BornRecord(i int, m []float64) (waveform.Record, error) {
	born, err := e.BornWaveform(i, m)
	if err != nil {
		return waveform.Record{}, err
	}

	return e.dv.Synthetic(i).WithSamples(born)
}

// GroupVariance is the aggregated variance of one window group.
type GroupVariance struct {
	Name     string
	Windows  int
	Variance float64 // NaN when the group's observed energy is zero
}

// GroupVariances returns Σ‖d−A·m‖² / Σ‖obs‖² over the rows of each group.
func (e *Evaluator) GroupVariances(groups []datavector.Group, m []float64) ([]GroupVariance, error) {
	p, err := e.Predict(m)
	if err != nil {
		return nil, err
	}

	return e.groupVariances(groups, p), nil
}

func (e *Evaluator) groupVariances(groups []datavector.Group, p []float64) []GroupVariance {
	out := make([]GroupVariance, len(groups))
	for gi, g := range groups {
		var num, den float64
		for _, wi := range g.Windows {
			lo, hi := e.dv.StartOffset(wi), e.dv.StartOffset(wi)+e.dv.WindowLen(wi)
			for r := lo; r < hi; r++ {
				res := e.d[r] - p[r]
				num += res * res
				den += e.obs[r] * e.obs[r]
			}
		}
		v := math.NaN()
		if den > 0 {
			v = num / den
		}
		out[gi] = GroupVariance{Name: g.Name, Windows: len(g.Windows), Variance: v}
	}

	return out
}

// EventVariance groups windows by event.
func (e *Evaluator) EventVariance(m []float64) ([]GroupVariance, error) {
	return e.GroupVariances(e.dv.GroupByEvent(), m)
}

// StationVariance groups windows by station.
func (e *Evaluator) StationVariance(m []float64) ([]GroupVariance, error) {
	return e.GroupVariances(e.dv.GroupByStation(), m)
}

// Breakdown returns the event and station variances of m from a single
// prediction.
func (e *Evaluator) Breakdown(m []float64) (events, stations []GroupVariance, err error) {
	p, err := e.Predict(m)
	if err != nil {
		return nil, nil, err
	}

	return e.groupVariances(e.dv.GroupByEvent(), p), e.groupVariances(e.dv.GroupByStation(), p), nil
}

// RankSummary is one line of a family summary.
type RankSummary struct {
	Rank     int
	Variance float64
	AIC      float64
}

// Summarize scores every solution of f. The effective sample count is the
// number of data rows divided by redundancy.
func (e *Evaluator) Summarize(f *solver.Family, redundancy float64) ([]RankSummary, error) {
	n, err := EffectiveN(e.eq.Rows(), redundancy)
	if err != nil {
		return nil, err
	}
	out := make([]RankSummary, 0, len(f.Solutions))
	for _, s := range f.Solutions {
		v, err := e.VarianceOf(s.Model)
		if err != nil {
			return nil, fmt.Errorf("evaluate: rank %d: %w", s.Rank, err)
		}
		out = append(out, RankSummary{Rank: s.Rank, Variance: v, AIC: AIC(v, n, s.Rank)})
	}
	if best, ok := BestAIC(out); ok {
		e.logger.Info("family summarized",
			zap.String("method", string(f.Method)),
			zap.Int("ranks", len(out)),
			zap.Int("best_rank", best.Rank),
			zap.Float64("best_aic", best.AIC),
			zap.Float64("best_variance", best.Variance))
	}

	return out, nil
}

// BestAIC returns the summary with the smallest AIC.
func BestAIC(s []RankSummary) (RankSummary, bool) {
	if len(s) == 0 {
		return RankSummary{}, false
	}
	best := s[0]
	for _, r := range s[1:] {
		if r.AIC < best.AIC {
			best = r
		}
	}

	return best, true
}
