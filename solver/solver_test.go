// SPDX-License-Identifier: MIT
package solver_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/waveinv/matrix"
	"github.com/katalvlaran/waveinv/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// system is a least-squares problem with its normal equations.
type system struct {
	a     *matrix.ColumnDense
	d     []float64
	ata   *matrix.Dense
	atd   []float64
	mTrue []float64
}

// wellPosed returns a random tall system whose data is exactly A·mTrue plus
// a small perturbation when noise > 0.
func wellPosed(t *testing.T, n, m int, noise float64, seed int64) *system {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	a, err := matrix.NewColumnDense(n, m)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			require.NoError(t, a.Set(i, j, rng.NormFloat64()))
		}
	}
	mTrue := make([]float64, m)
	for j := range mTrue {
		mTrue[j] = rng.NormFloat64()
	}
	e := matrix.NewEngine(matrix.WithWorkers(2))
	d, err := e.MulVec(a, mTrue)
	require.NoError(t, err)
	for i := range d {
		d[i] += noise * rng.NormFloat64()
	}
	ata, err := e.AtA(a)
	require.NoError(t, err)
	atd, err := e.MulTransVec(a, d)
	require.NoError(t, err)

	return &system{a: a, d: d, ata: ata, atd: atd, mTrue: mTrue}
}

func (s *system) residual2(t *testing.T, m []float64) float64 {
	t.Helper()
	am, err := matrix.NewEngine().MulVec(s.a, m)
	require.NoError(t, err)
	r := append([]float64(nil), s.d...)
	floats.Sub(r, am)

	return floats.Dot(r, r)
}

func diag(t *testing.T, vals ...float64) *matrix.Dense {
	t.Helper()
	d, err := matrix.NewDense(len(vals), len(vals))
	require.NoError(t, err)
	for i, v := range vals {
		require.NoError(t, d.Set(i, i, v))
	}

	return d
}

func TestTruncatedSVD_FullRankRecoversModel(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 40, 6, 0, 1)
	f, err := solver.NewTruncatedSVD().Solve(s.ata, s.atd)
	require.NoError(t, err)
	assert.Equal(t, solver.MethodSVD, f.Method)
	require.Len(t, f.Solutions, 6)
	assert.Empty(t, f.Warnings)

	full, ok := f.At(6)
	require.True(t, ok)
	assert.InDeltaSlice(t, s.mTrue, full.Model, 1e-9)
}

func TestTruncatedSVD_VarianceNonIncreasing(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 60, 8, 0.3, 2)
	f, err := solver.NewTruncatedSVD().Solve(s.ata, s.atd)
	require.NoError(t, err)

	prev := floats.Dot(s.d, s.d)
	for _, sol := range f.Solutions {
		v := s.residual2(t, sol.Model)
		assert.LessOrEqual(t, v, prev*(1+1e-12), "rank %d", sol.Rank)
		prev = v
	}
}

func TestTruncatedSVD_RankOneIsDominantProjection(t *testing.T) {
	t.Parallel()

	f, err := solver.NewTruncatedSVD().Solve(diag(t, 4, 1), []float64{8, 3})
	require.NoError(t, err)
	r1, ok := f.At(1)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{2, 0}, r1.Model, 1e-14)
	r2, ok := f.At(2)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{2, 3}, r2.Model, 1e-14)

	_, ok = f.At(3)
	assert.False(t, ok)
}

func TestTruncatedSVD_UnstableRanksExcluded(t *testing.T) {
	t.Parallel()

	f, err := solver.NewTruncatedSVD().Solve(diag(t, 4, 1, 0), []float64{8, 3, 0})
	require.NoError(t, err)
	require.Len(t, f.Solutions, 2)
	require.Len(t, f.Warnings, 1)
	assert.Equal(t, 3, f.Warnings[0].Rank)
	assert.InDelta(t, 0.0, f.Warnings[0].Eigenvalue, 1e-12)

	// A cutoff above λ_min/λ_max removes rank 2 as well.
	f, err = solver.NewTruncatedSVD(solver.WithRelativeCutoff(0.5)).Solve(diag(t, 4, 1, 0), []float64{8, 3, 0})
	require.NoError(t, err)
	require.Len(t, f.Solutions, 1)
	assert.Len(t, f.Warnings, 2)

	_, err = solver.NewTruncatedSVD().Solve(diag(t, 0, 0), []float64{1, 1})
	require.ErrorIs(t, err, solver.ErrNoStableRank)
}

func TestTruncatedSVD_MaxRank(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 30, 5, 0, 3)
	f, err := solver.NewTruncatedSVD(solver.WithMaxRank(2)).Solve(s.ata, s.atd)
	require.NoError(t, err)
	last, ok := f.Last()
	require.True(t, ok)
	assert.Equal(t, 2, last.Rank)
}

func TestDecomposition(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 30, 4, 0, 4)
	d, err := solver.NewTruncatedSVD().Decompose(s.ata)
	require.NoError(t, err)
	ev := d.Eigenvalues()
	require.Len(t, ev, 4)
	for i := 1; i < len(ev); i++ {
		assert.GreaterOrEqual(t, ev[i-1], ev[i])
	}
	// AᵀA·v = λ·v
	for i := 0; i < d.Len(); i++ {
		v := d.Vector(i)
		av, err := matrix.NewEngine().MulVec(s.ata, v)
		require.NoError(t, err)
		floats.Scale(1/ev[i], av)
		assert.InDeltaSlice(t, v, av, 1e-9)
	}

	cov, err := solver.NewTruncatedSVD().Decompose(diag(t, 4, 1))
	require.NoError(t, err)
	c2, err := cov.Covariance(2, 2)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 4}, c2.Data(), 1e-14)
	c1, err := cov.Covariance(2, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0, 0, 0}, c1.Data(), 1e-14)

	sing, err := solver.NewTruncatedSVD().Decompose(diag(t, 4, 0))
	require.NoError(t, err)
	_, err = sing.Covariance(1, 2)
	require.ErrorIs(t, err, solver.ErrUnstableRank)
}

func TestDecompose_RejectsAsymmetric(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDenseFrom(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	_, err = solver.NewTruncatedSVD().Decompose(m)
	require.ErrorIs(t, err, matrix.ErrAsymmetry)
}

func TestConjugateGradient_MatchesSVD(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 50, 7, 0.1, 5)
	cg, err := solver.NewConjugateGradient(solver.WithTolerance(1e-12)).Solve(s.ata, s.atd)
	require.NoError(t, err)
	assert.Equal(t, solver.MethodCG, cg.Method)
	for k, sol := range cg.Solutions {
		assert.Equal(t, k+1, sol.Rank)
	}

	svd, err := solver.NewTruncatedSVD().Solve(s.ata, s.atd)
	require.NoError(t, err)
	cgLast, _ := cg.Last()
	svdLast, _ := svd.Last()
	assert.InDeltaSlice(t, svdLast.Model, cgLast.Model, 1e-8)
}

func TestConjugateGradient_NonConvergence(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 20, 5, 0.1, 6)
	_, err := solver.NewConjugateGradient(solver.WithMaxIter(1)).Solve(s.ata, s.atd)
	require.ErrorIs(t, err, solver.ErrNonConvergence)
	var nc *solver.NonConvergenceError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, 1, nc.Iterations)
	assert.Greater(t, nc.Residual, nc.Tolerance)
}

func TestConjugateGradient_EdgeCases(t *testing.T) {
	t.Parallel()

	f, err := solver.NewConjugateGradient().Solve(diag(t, 2, 3), []float64{0, 0})
	require.NoError(t, err)
	require.Len(t, f.Solutions, 1)
	assert.Equal(t, 0, f.Solutions[0].Rank)
	assert.Equal(t, []float64{0, 0}, f.Solutions[0].Model)

	_, err = solver.NewConjugateGradient().Solve(diag(t, 1, -1), []float64{0, 1})
	require.ErrorIs(t, err, solver.ErrIndefinite)

	_, err = solver.NewConjugateGradient().Solve(diag(t, 1, 1), []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = solver.NewTruncatedSVD().Solve(diag(t, 1, 1), []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestSolversAreInterchangeable(t *testing.T) {
	t.Parallel()

	s := wellPosed(t, 25, 3, 0, 7)
	for _, m := range []solver.Method{solver.MethodSVD, solver.MethodCG} {
		sv, err := solver.New(m)
		require.NoError(t, err)
		assert.Equal(t, m, sv.Method())
		f, err := sv.Solve(s.ata, s.atd)
		require.NoError(t, err)
		last, ok := f.Last()
		require.True(t, ok)
		assert.InDeltaSlice(t, s.mTrue, last.Model, 1e-8, string(m))
	}
	_, err := solver.New("lsqr")
	require.Error(t, err)
	_, err = solver.ParseMethod("lsqr")
	require.Error(t, err)
}

func TestWriteFamily(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "svd")
	f := &solver.Family{Method: solver.MethodSVD, Solutions: []solver.Solution{
		{Rank: 1, Model: []float64{0.1, -1.0 / 3}},
		{Rank: 2, Model: []float64{1e-300, 2.5}},
	}}
	require.NoError(t, solver.WriteFamily(dir, f))

	for _, s := range f.Solutions {
		got, err := solver.ReadModel(filepath.Join(dir, solver.ModelFileName(s.Rank)))
		require.NoError(t, err)
		assert.Equal(t, s.Model, got)
	}
}

func TestOptions_Panic(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { solver.WithRelativeCutoff(1) })
	assert.Panics(t, func() { solver.WithTolerance(0) })
	assert.Panics(t, func() { solver.WithMaxIter(0) })
	assert.Panics(t, func() { solver.WithMaxRank(0) })
}
