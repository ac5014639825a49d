// SPDX-License-Identifier: MIT

// Package matrix - ColumnDense storage (column-major) for tall design matrices.
//
// Purpose:
//   - Store an N×M design matrix so that every column (one unknown parameter)
//     is a single contiguous slice of length N.
//   - Let concurrent writers fill disjoint (row-block, column) regions through
//     ColumnSegment views without locking.
//   - Give AᵀA and Aᵀ·v contiguous dot products over columns.

package matrix

import "fmt"

// ColumnDense is a concrete column-major matrix (offset = j*r + i).
type ColumnDense struct {
	r, c int
	data []float64
}

var _ Matrix = (*ColumnDense)(nil)

// columnErrorf mirrors denseErrorf for the column-major container.
func columnErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("ColumnDense.%s(%d,%d): %w", method, row, col, err)
}

// NewColumnDense creates an r×c zero matrix using column-major storage.
//
// Errors:
//   - ErrInvalidDimensions when rows<=0 or cols<=0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewColumnDense(rows, cols int) (*ColumnDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &ColumnDense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// Rows returns the number of rows in the matrix.
func (m *ColumnDense) Rows() int { return m.r }

// Cols returns the number of columns in the matrix.
func (m *ColumnDense) Cols() int { return m.c }

// At retrieves the element at (row, col).
func (m *ColumnDense) At(row, col int) (float64, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, columnErrorf(ctxAt, row, col, ErrOutOfRange)
	}

	return m.data[col*m.r+row], nil
}

// Set assigns v at (row, col). NaN/Inf are always rejected: a non-finite
// partial derivative would poison every normal-equation product.
func (m *ColumnDense) Set(row, col int, v float64) error {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return columnErrorf(ctxSet, row, col, ErrOutOfRange)
	}
	if isNonFinite(v) {
		return columnErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[col*m.r+row] = v

	return nil
}

// Clone returns a deep copy of the matrix.
func (m *ColumnDense) Clone() Matrix {
	cp := make([]float64, len(m.data))
	copy(cp, m.data)

	return &ColumnDense{r: m.r, c: m.c, data: cp}
}

// ColumnSegment returns a no-copy view of rows [row0, row0+n) of column col.
// Mutations through the returned slice are reflected in the matrix.
//
// Two views are safe to write concurrently iff their (column, row range)
// regions do not overlap.
//
// Errors:
//   - ErrOutOfRange when the segment leaves the matrix.
func (m *ColumnDense) ColumnSegment(col, row0, n int) ([]float64, error) {
	if col < 0 || col >= m.c || row0 < 0 || n < 0 || row0+n > m.r {
		return nil, columnErrorf("ColumnSegment", row0, col, ErrOutOfRange)
	}
	base := col*m.r + row0

	return m.data[base : base+n : base+n], nil
}

// Column returns a copy of column col.
func (m *ColumnDense) Column(col int) ([]float64, error) {
	seg, err := m.ColumnSegment(col, 0, m.r)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(seg))
	copy(out, seg)

	return out, nil
}

// column is the unchecked contiguous view used by the engine kernels.
func (m *ColumnDense) column(j int) []float64 {
	return m.data[j*m.r : (j+1)*m.r]
}
