// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/waveinv/matrix"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// TruncatedSVD solves through the eigen-decomposition of AᵀA. For the
// symmetric positive semi-definite AᵀA this is the SVD of A squared.
type TruncatedSVD struct {
	opts options
}

var _ Solver = (*TruncatedSVD)(nil)

// NewTruncatedSVD returns a truncated SVD solver. It honours
// WithRelativeCutoff, WithMaxRank and WithLogger.
func NewTruncatedSVD(opts ...Option) *TruncatedSVD {
	return &TruncatedSVD{opts: gatherOptions(opts...)}
}

// Method reports MethodSVD.
func (*TruncatedSVD) Method() Method { return MethodSVD }

// Decomposition holds the eigenpairs of AᵀA in descending eigenvalue order.
type Decomposition struct {
	values  []float64
	vectors *mat.Dense // column i is v_i
	cutoff  float64    // absolute: eigenvalues at or below it are unstable
}

// Decompose factors ata, which must be symmetric.
func (s *TruncatedSVD) Decompose(ata *matrix.Dense) (*Decomposition, error) {
	if err := matrix.ValidateSymmetric(ata, matrix.DefaultEpsilon); err != nil {
		return nil, fmt.Errorf("solver: decompose: %w", err)
	}
	n := ata.Rows()

	var eig mat.EigenSym
	if !eig.Factorize(mat.NewSymDense(n, ata.Data()), true) {
		return nil, ErrDecomposition
	}
	asc := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// descending order, column-permuted to match
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return asc[order[a]] > asc[order[b]] })
	d := &Decomposition{values: make([]float64, n), vectors: mat.NewDense(n, n, nil)}
	col := make([]float64, n)
	for i, k := range order {
		d.values[i] = asc[k]
		mat.Col(col, k, &vecs)
		d.vectors.SetCol(i, col)
	}
	d.cutoff = s.opts.cutoff * d.values[0]

	return d, nil
}

// Len returns M.
func (d *Decomposition) Len() int { return len(d.values) }

// Eigenvalues returns λ_0 ≥ λ_1 ≥ … ≥ λ_{M-1}.
func (d *Decomposition) Eigenvalues() []float64 { return append([]float64(nil), d.values...) }

// Vector returns a copy of the unit eigenvector v_i.
func (d *Decomposition) Vector(i int) []float64 { return mat.Col(nil, i, d.vectors) }

// Stable reports whether the rank-r truncation retains only eigenvalues
// above the cutoff.
func (d *Decomposition) Stable(rank int) bool {
	if rank < 1 || rank > len(d.values) {
		return false
	}
	l := d.values[rank-1]

	return l > 0 && l > d.cutoff
}

// Covariance returns Σ_{i<rank} (sigmaD²/λ_i)·v_i·v_iᵀ.
func (d *Decomposition) Covariance(sigmaD float64, rank int) (*matrix.Dense, error) {
	if !d.Stable(rank) {
		return nil, fmt.Errorf("%w: %d", ErrUnstableRank, rank)
	}
	n := len(d.values)
	vr, err := matrix.NewDense(n, rank)
	if err != nil {
		return nil, err
	}
	scaled, err := matrix.NewDense(n, rank)
	if err != nil {
		return nil, err
	}
	s2 := sigmaD * sigmaD
	for i := 0; i < rank; i++ {
		f := s2 / d.values[i]
		for k := 0; k < n; k++ {
			v := d.vectors.At(k, i)
			if err := vr.Set(k, i, v); err != nil {
				return nil, err
			}
			if err := scaled.Set(k, i, f*v); err != nil {
				return nil, err
			}
		}
	}
	vt, err := matrix.Transpose(vr)
	if err != nil {
		return nil, err
	}

	return matrix.Mul(scaled, vt)
}

// Solve decomposes ata and returns the models of every stable rank.
func (s *TruncatedSVD) Solve(ata *matrix.Dense, atd []float64) (*Family, error) {
	if err := checkSystem(ata, atd); err != nil {
		return nil, fmt.Errorf("solver: svd: %w", err)
	}
	d, err := s.Decompose(ata)
	if err != nil {
		return nil, err
	}

	return d.Family(atd, s.opts.maxRank, s.opts.logger)
}

// Family builds the rank family for right-hand side atd. maxRank <= 0 means
// every rank.
func (d *Decomposition) Family(atd []float64, maxRank int, logger *zap.Logger) (*Family, error) {
	n := len(d.values)
	if err := matrix.ValidateVecLen(atd, n); err != nil {
		return nil, fmt.Errorf("solver: svd: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRank <= 0 || maxRank > n {
		maxRank = n
	}

	f := &Family{Method: MethodSVD}
	m := make([]float64, n)
	v := make([]float64, n)
	for r := 1; r <= maxRank; r++ {
		if !d.Stable(r) {
			// eigenvalues descend, so every higher rank retains this one too
			for k := r; k <= maxRank; k++ {
				w := InstabilityWarning{Rank: k, Eigenvalue: d.values[k-1]}
				f.Warnings = append(f.Warnings, w)
			}
			logger.Warn("svd ranks excluded",
				zap.Int("from_rank", r),
				zap.Int("to_rank", maxRank),
				zap.Float64("eigenvalue", d.values[r-1]),
				zap.Float64("cutoff", d.cutoff))

			break
		}
		mat.Col(v, r-1, d.vectors)
		floats.AddScaled(m, floats.Dot(v, atd)/d.values[r-1], v)
		f.Solutions = append(f.Solutions, Solution{Rank: r, Model: append([]float64(nil), m...)})
	}
	if len(f.Solutions) == 0 {
		return f, ErrNoStableRank
	}
	logger.Info("svd family solved",
		zap.Int("ranks", len(f.Solutions)),
		zap.Int("excluded", len(f.Warnings)),
		zap.Float64("lambda_max", d.values[0]))

	return f, nil
}
