// SPDX-License-Identifier: MIT

// Package solver turns the normal equations AᵀA·m = Aᵀd into a family of
// models indexed by rank.
//
// Two interchangeable solvers implement Solver:
//
//   - TruncatedSVD eigen-decomposes AᵀA and, for rank r, keeps the r
//     largest eigenpairs: m_r = Σ_{i<r} (v_iᵀ·Aᵀd / λ_i)·v_i. Solving through
//     the eigenpairs never inverts a near-singular matrix. A rank whose
//     smallest retained eigenvalue is not positive, or falls below the
//     relative cutoff, is excluded from the family and reported as an
//     InstabilityWarning instead.
//   - ConjugateGradient iterates from m = 0 and checkpoints the iterate
//     after every step; rank k is the model after k steps. Reaching the
//     iteration cap before the residual tolerance is a *NonConvergenceError.
//
// Both are pure functions of (AᵀA, Aᵀd) and keep no state between calls.
package solver
