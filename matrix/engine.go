// SPDX-License-Identifier: MIT

// Package matrix - parallel normal-equation kernels.
//
// Purpose:
//   - AᵀA (upper triangle, mirrored), A·v and Aᵀ·v for the design matrix.
//   - Parallel over independent output indices; no shared accumulators.
//
// Determinism:
//   - Each output element is produced by exactly one goroutine, with a fixed
//     summation order that does not depend on the block partition. Results are
//     therefore bit-identical for every worker count.
//
// Complexity quicksheet (A is N×M):
//   - AtA: O(N·M²/2); MulVec: O(N·M); MulTransVec: O(N·M).

package matrix

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Engine runs the normal-equation kernels with a bounded worker pool.
// An Engine is immutable and safe for concurrent use.
type Engine struct {
	workers int
}

// NewEngine returns an Engine configured by opts.
func NewEngine(opts ...Option) *Engine {
	o := gatherOptions(opts...)

	return &Engine{workers: o.workers}
}

// Workers reports the configured worker bound.
func (e *Engine) Workers() int { return e.workers }

// forEachBlock splits [0,n) into contiguous blocks and runs fn on each with
// at most e.workers goroutines in flight. fn must only write outputs that
// belong to its own block.
func (e *Engine) forEachBlock(n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if e.workers <= 1 || n == 1 {
		return fn(0, n)
	}

	blocks := e.workers * DefaultBlocksPerWorker
	if blocks > n {
		blocks = n
	}
	size := (n + blocks - 1) / blocks

	var g errgroup.Group
	g.SetLimit(e.workers)
	for lo := 0; lo < n; lo += size {
		lo, hi := lo, min(lo+size, n)
		g.Go(func() error { return fn(lo, hi) })
	}

	return g.Wait()
}

// AtA computes the symmetric M×M product AᵀA.
//
// Implementation:
//   - Stage 1: validate A non-nil; allocate the M×M result.
//   - Stage 2: for each output row i (parallel), compute entries j ≥ i and
//     mirror them into (j, i). Row i of the triangle is owned by one worker,
//     so the mirrored cells are written by that worker only.
//   - Fast paths: *ColumnDense uses contiguous column dot products;
//     *Dense sums over rows with a fixed stride; other types use At.
//
// Errors:
//   - ErrNilMatrix; At errors from custom implementations.
//
// Complexity:
//   - Time O(N·M²/2), Space O(M²).
func (e *Engine) AtA(a Matrix) (*Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opAtA, err)
	}
	n, m := a.Rows(), a.Cols()
	out, err := NewDense(m, m)
	if err != nil {
		return nil, matrixErrorf(opAtA, err)
	}

	var cell func(i, j int) (float64, error)
	switch src := a.(type) {
	case *ColumnDense:
		cell = func(i, j int) (float64, error) {
			return floats.Dot(src.column(i), src.column(j)), nil
		}
	case *Dense:
		cell = func(i, j int) (float64, error) {
			acc := ZeroSum
			for r := 0; r < n; r++ {
				base := r * m
				acc += src.data[base+i] * src.data[base+j]
			}

			return acc, nil
		}
	default:
		cell = func(i, j int) (float64, error) {
			acc := ZeroSum
			for r := 0; r < n; r++ {
				ai, err := a.At(r, i)
				if err != nil {
					return 0, err
				}
				aj, err := a.At(r, j)
				if err != nil {
					return 0, err
				}
				acc += ai * aj
			}

			return acc, nil
		}
	}

	err = e.forEachBlock(m, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			for j := i; j < m; j++ {
				v, cerr := cell(i, j)
				if cerr != nil {
					return cerr
				}
				out.data[i*m+j] = v
				out.data[j*m+i] = v
			}
		}

		return nil
	})
	if err != nil {
		return nil, matrixErrorf(opAtA, err)
	}

	return out, nil
}

// MulVec computes y = A·v (length N).
//
// Implementation:
//   - *ColumnDense: each worker owns a row block [lo,hi) and adds
//     v[j]·A[lo:hi, j] for j = 0..M-1 in order.
//   - *Dense: one dot product per row.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(v) != M).
//
// Complexity:
//   - Time O(N·M), Space O(N).
func (e *Engine) MulVec(a Matrix, v []float64) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	if err := ValidateVecLen(v, a.Cols()); err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}
	n, m := a.Rows(), a.Cols()
	y := make([]float64, n)

	var err error
	switch src := a.(type) {
	case *ColumnDense:
		err = e.forEachBlock(n, func(lo, hi int) error {
			dst := y[lo:hi]
			for j := 0; j < m; j++ {
				if v[j] == 0 {
					continue
				}
				floats.AddScaled(dst, v[j], src.data[j*n+lo:j*n+hi])
			}

			return nil
		})
	case *Dense:
		err = e.forEachBlock(n, func(lo, hi int) error {
			for r := lo; r < hi; r++ {
				y[r] = floats.Dot(src.data[r*m:(r+1)*m], v)
			}

			return nil
		})
	default:
		err = e.forEachBlock(n, func(lo, hi int) error {
			for r := lo; r < hi; r++ {
				acc := ZeroSum
				for j := 0; j < m; j++ {
					arj, aerr := a.At(r, j)
					if aerr != nil {
						return aerr
					}
					acc += arj * v[j]
				}
				y[r] = acc
			}

			return nil
		})
	}
	if err != nil {
		return nil, matrixErrorf(opMulVec, err)
	}

	return y, nil
}

// MulTransVec computes x = Aᵀ·v (length M).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(v) != N).
//
// Complexity:
//   - Time O(N·M), Space O(M).
func (e *Engine) MulTransVec(a Matrix, v []float64) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opMulTransVec, err)
	}
	if err := ValidateVecLen(v, a.Rows()); err != nil {
		return nil, matrixErrorf(opMulTransVec, err)
	}
	n, m := a.Rows(), a.Cols()
	x := make([]float64, m)

	var err error
	switch src := a.(type) {
	case *ColumnDense:
		err = e.forEachBlock(m, func(lo, hi int) error {
			for j := lo; j < hi; j++ {
				x[j] = floats.Dot(src.column(j), v)
			}

			return nil
		})
	case *Dense:
		err = e.forEachBlock(m, func(lo, hi int) error {
			for j := lo; j < hi; j++ {
				acc := ZeroSum
				for r := 0; r < n; r++ {
					acc += src.data[r*m+j] * v[r]
				}
				x[j] = acc
			}

			return nil
		})
	default:
		err = e.forEachBlock(m, func(lo, hi int) error {
			for j := lo; j < hi; j++ {
				acc := ZeroSum
				for r := 0; r < n; r++ {
					arj, aerr := a.At(r, j)
					if aerr != nil {
						return aerr
					}
					acc += arj * v[r]
				}
				x[j] = acc
			}

			return nil
		})
	}
	if err != nil {
		return nil, matrixErrorf(opMulTransVec, err)
	}

	return x, nil
}
