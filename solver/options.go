// SPDX-License-Identifier: MIT

package solver

import (
	"github.com/katalvlaran/waveinv/matrix"
	"go.uber.org/zap"
)

const (
	// DefaultRelativeCutoff excludes eigenvalues below this fraction of the
	// largest one.
	DefaultRelativeCutoff = 1e-12

	// DefaultTolerance is the CG stopping threshold on ‖r‖/‖Aᵀd‖.
	DefaultTolerance = 1e-10

	// DefaultMaxIterFactor sets the CG iteration cap to this multiple of M
	// when WithMaxIter is not given.
	DefaultMaxIterFactor = 4
)

const (
	panicCutoffInvalid    = "solver: WithRelativeCutoff: eps must be in [0, 1)"
	panicToleranceInvalid = "solver: WithTolerance: tol must be > 0"
	panicMaxIterInvalid   = "solver: WithMaxIter: n must be >= 1"
	panicMaxRankInvalid   = "solver: WithMaxRank: r must be >= 1"
)

// Option configures a solver. Options a solver does not use are ignored.
type Option func(*options)

type options struct {
	cutoff  float64
	tol     float64
	maxIter int // 0: DefaultMaxIterFactor*M
	maxRank int // 0: M
	engine  *matrix.Engine
	logger  *zap.Logger
}

// WithRelativeCutoff sets the SVD eigenvalue cutoff relative to λ_max.
// Panics unless 0 <= eps < 1.
func WithRelativeCutoff(eps float64) Option {
	if !(eps >= 0 && eps < 1) {
		panic(panicCutoffInvalid)
	}

	return func(o *options) { o.cutoff = eps }
}

// WithTolerance sets the CG relative residual tolerance. Panics if tol <= 0.
func WithTolerance(tol float64) Option {
	if !(tol > 0) {
		panic(panicToleranceInvalid)
	}

	return func(o *options) { o.tol = tol }
}

// WithMaxIter caps CG iterations. Panics if n < 1.
func WithMaxIter(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}

	return func(o *options) { o.maxIter = n }
}

// WithMaxRank limits the SVD family to ranks 1..r. Panics if r < 1.
func WithMaxRank(r int) Option {
	if r < 1 {
		panic(panicMaxRankInvalid)
	}

	return func(o *options) { o.maxRank = r }
}

// WithEngine sets the kernel engine CG uses for AᵀA·p.
func WithEngine(e *matrix.Engine) Option {
	return func(o *options) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithLogger sets the logger for per-rank reports.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(user ...Option) options {
	o := options{
		cutoff: DefaultRelativeCutoff,
		tol:    DefaultTolerance,
		logger: zap.NewNop(),
	}
	for _, set := range user {
		set(&o)
	}
	if o.engine == nil {
		o.engine = matrix.NewEngine()
	}

	return o
}
