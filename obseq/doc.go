// SPDX-License-Identifier: MIT

// Package obseq assembles the observation equation A·m = d.
//
// Rows of A follow the data vector's window order; columns follow the
// parameter catalog. Each partial-derivative record fills one
// (window, parameter) cell: the column segment of the window's rows, scaled
// by the window weight and the parameter weighting. Records that resolve to
// no column or no window are counted and dropped; once every record has been
// tried, any unfilled cell makes Assemble fail with an
// *IncompleteDesignMatrixError naming it.
//
// Cells are claimed in input order, so when two records resolve to the same
// cell the earlier one is kept whatever the worker count. The claimed
// segments are then written on a bounded worker pool; no two of them
// overlap, so no locks are needed.
//
// After assembly A, AᵀA and Aᵀd are read-only.
package obseq
