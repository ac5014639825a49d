// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrNonConvergence is matched by every *NonConvergenceError.
	ErrNonConvergence = errors.New("solver: no convergence")

	// ErrNoStableRank is returned when every rank of a decomposition is
	// unstable.
	ErrNoStableRank = errors.New("solver: no stable rank")

	// ErrUnstableRank is returned by Covariance for a rank that retains a
	// non-positive or negligible eigenvalue.
	ErrUnstableRank = errors.New("solver: unstable rank")

	// ErrIndefinite is returned when CG meets a direction with pᵀ·AᵀA·p ≤ 0.
	ErrIndefinite = errors.New("solver: normal matrix is not positive definite")

	// ErrDecomposition is returned when the eigen-decomposition fails.
	ErrDecomposition = errors.New("solver: eigen-decomposition failed")

	// ErrBadModelFile indicates a model file that does not parse.
	ErrBadModelFile = errors.New("solver: malformed model file")
)

// NonConvergenceError reports a CG run that hit its iteration cap before
// reaching the residual tolerance. Fatal: the family is not truncated
// silently.
type NonConvergenceError struct {
	Iterations int
	Residual   float64 // ‖r‖/‖Aᵀd‖ after the last iteration
	Tolerance  float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("solver: CG did not converge in %d iterations (relative residual %g > %g)",
		e.Iterations, e.Residual, e.Tolerance)
}

// Is makes errors.Is(err, ErrNonConvergence) hold.
func (e *NonConvergenceError) Is(target error) bool { return target == ErrNonConvergence }

// InstabilityWarning marks a rank excluded from an SVD family. It is a
// value, not an error: the remaining ranks are still valid.
type InstabilityWarning struct {
	Rank       int
	Eigenvalue float64 // smallest retained eigenvalue
}

// String describes the excluded rank.
func (w InstabilityWarning) String() string {
	return fmt.Sprintf("rank %d unstable: eigenvalue %g", w.Rank, w.Eigenvalue)
}
