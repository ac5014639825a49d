// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/waveinv/matrix"
)

// Method names a solver.
type Method string

const (
	MethodSVD Method = "svd"
	MethodCG  Method = "cg"
)

// ParseMethod accepts "svd" or "cg".
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodSVD, MethodCG:
		return m, nil
	}

	return "", fmt.Errorf("solver: unknown method %q", s)
}

// Solution is the model of one rank, in catalog column order.
type Solution struct {
	Rank  int
	Model []float64
}

// Family is the rank-indexed output of one solver run. Solutions are in
// increasing rank order; SVD ranks listed in Warnings are absent.
type Family struct {
	Method    Method
	Solutions []Solution
	Warnings  []InstabilityWarning
}

// At returns the solution of the given rank.
func (f *Family) At(rank int) (Solution, bool) {
	for _, s := range f.Solutions {
		if s.Rank == rank {
			return s, true
		}
	}

	return Solution{}, false
}

// Last returns the highest-rank solution. ok is false for an empty family.
func (f *Family) Last() (s Solution, ok bool) {
	if len(f.Solutions) == 0 {
		return Solution{}, false
	}

	return f.Solutions[len(f.Solutions)-1], true
}

// Solver computes a solution family from the normal equations.
type Solver interface {
	Method() Method
	Solve(ata *matrix.Dense, atd []float64) (*Family, error)
}

// New returns the solver for method m.
func New(m Method, opts ...Option) (Solver, error) {
	switch m {
	case MethodSVD:
		return NewTruncatedSVD(opts...), nil
	case MethodCG:
		return NewConjugateGradient(opts...), nil
	}

	return nil, fmt.Errorf("solver: unknown method %q", m)
}

func checkSystem(ata *matrix.Dense, atd []float64) error {
	if err := matrix.ValidateSquare(ata); err != nil {
		return err
	}

	return matrix.ValidateVecLen(atd, ata.Rows())
}
