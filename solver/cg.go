// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"math"

	"github.com/katalvlaran/waveinv/matrix"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// ConjugateGradient solves AᵀA·m = Aᵀd by conjugate gradients from m = 0.
type ConjugateGradient struct {
	opts options
}

var _ Solver = (*ConjugateGradient)(nil)

// NewConjugateGradient returns a CG solver. It honours WithTolerance,
// WithMaxIter, WithEngine and WithLogger.
func NewConjugateGradient(opts ...Option) *ConjugateGradient {
	return &ConjugateGradient{opts: gatherOptions(opts...)}
}

// Method reports MethodCG.
func (*ConjugateGradient) Method() Method { return MethodCG }

// Solve runs CG and checkpoints every iterate: Solutions[k-1] has Rank k.
// A zero right-hand side yields the single rank-0 zero model.
func (c *ConjugateGradient) Solve(ata *matrix.Dense, atd []float64) (*Family, error) {
	if err := checkSystem(ata, atd); err != nil {
		return nil, fmt.Errorf("solver: cg: %w", err)
	}
	n := len(atd)
	maxIter := c.opts.maxIter
	if maxIter == 0 {
		maxIter = DefaultMaxIterFactor * n
	}
	log := c.opts.logger

	m := make([]float64, n)
	r := append([]float64(nil), atd...)
	p := append([]float64(nil), r...)
	rr := floats.Dot(r, r)
	bnorm := math.Sqrt(rr)

	f := &Family{Method: MethodCG}
	if bnorm == 0 {
		f.Solutions = []Solution{{Rank: 0, Model: m}}
		return f, nil
	}

	for k := 1; k <= maxIter; k++ {
		ap, err := c.opts.engine.MulVec(ata, p)
		if err != nil {
			return nil, fmt.Errorf("solver: cg: %w", err)
		}
		pap := floats.Dot(p, ap)
		if !(pap > 0) {
			return nil, fmt.Errorf("%w: pᵀAp = %g at iteration %d", ErrIndefinite, pap, k)
		}
		alpha := rr / pap
		floats.AddScaled(m, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		f.Solutions = append(f.Solutions, Solution{Rank: k, Model: append([]float64(nil), m...)})

		rrNew := floats.Dot(r, r)
		rel := math.Sqrt(rrNew) / bnorm
		log.Debug("cg iteration", zap.Int("iteration", k), zap.Float64("relative_residual", rel))
		if rel <= c.opts.tol {
			log.Info("cg converged", zap.Int("iterations", k), zap.Float64("relative_residual", rel))
			return f, nil
		}

		beta := rrNew / rr
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rr = rrNew
	}

	return nil, &NonConvergenceError{
		Iterations: maxIter,
		Residual:   math.Sqrt(rr) / bnorm,
		Tolerance:  c.opts.tol,
	}
}
