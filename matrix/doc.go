// Package matrix provides the dense linear-algebra primitives used by the
// waveform inversion: storage types for the design matrix and the normal
// equations, and a parallel Engine for the three kernels every inversion
// run is built from.
//
// The matrix package provides:
//
//   - Dense, a row-major M×M container used for AᵀA, covariance and
//     eigenvector matrices.
//   - ColumnDense, a column-major N×M container for the design matrix A,
//     where each unknown parameter owns one contiguous column.
//   - Engine, which computes AᵀA, A·v and Aᵀ·v in parallel over the output
//     index. Every output element is accumulated by exactly one worker in a
//     fixed order, so results are bit-identical for any worker count.
//   - Central validators and sentinel errors (ErrDimensionMismatch, ...)
//     shared by all kernels.
//
// Public accessors (At/Set) never panic on user input; they return
// ErrOutOfRange or ErrNaNInf. Panics are reserved for nonsensical option
// values (programmer error), e.g. WithWorkers(0).
//
// See example_test.go for usage patterns.
package matrix
