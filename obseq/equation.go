// SPDX-License-Identifier: MIT

package obseq

import (
	"fmt"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/matrix"
	"github.com/katalvlaran/waveinv/parameter"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Equation is an assembled observation equation with its normal-equation
// products. It is immutable and safe for concurrent use.
type Equation struct {
	a        *matrix.ColumnDense
	d        []float64
	atd      []float64
	ata      *matrix.Dense
	dNorm2   float64
	obsNorm2 float64
	cat      *parameter.Catalog
	dv       *datavector.DataVector
	engine   *matrix.Engine
	drops    map[DropReason]int
}

func newEquation(a *matrix.ColumnDense, cat *parameter.Catalog, dv *datavector.DataVector,
	drops map[DropReason]int, o options) (*Equation, error) {
	engine := matrix.NewEngine(matrix.WithWorkers(o.workers))
	d := dv.ResidualVector()
	atd, err := engine.MulTransVec(a, d)
	if err != nil {
		return nil, fmt.Errorf("obseq: Atd: %w", err)
	}
	ata, err := engine.AtA(a)
	if err != nil {
		return nil, fmt.Errorf("obseq: AtA: %w", err)
	}
	e := &Equation{
		a:        a,
		d:        d,
		atd:      atd,
		ata:      ata,
		dNorm2:   norm2(d),
		obsNorm2: norm2(dv.ObservedVector()),
		cat:      cat,
		dv:       dv,
		engine:   engine,
		drops:    drops,
	}
	o.logger.Info("observation equation assembled",
		zap.Int("rows", a.Rows()),
		zap.Int("columns", a.Cols()),
		zap.Float64("d_norm2", e.dNorm2),
		zap.Float64("obs_norm2", e.obsNorm2))

	return e, nil
}

// A returns the N×M design matrix. Callers must not modify it.
func (e *Equation) A() *matrix.ColumnDense { return e.a }

// AtA returns a copy of AᵀA.
func (e *Equation) AtA() *matrix.Dense { return e.ata.Clone().(*matrix.Dense) }

// Atd returns a copy of Aᵀd.
func (e *Equation) Atd() []float64 { return append([]float64(nil), e.atd...) }

// D returns a copy of the data vector d.
func (e *Equation) D() []float64 { return append([]float64(nil), e.d...) }

// DNorm2 returns ‖d‖².
func (e *Equation) DNorm2() float64 { return e.dNorm2 }

// ObsNorm2 returns ‖obs‖² of the weighted observed data.
func (e *Equation) ObsNorm2() float64 { return e.obsNorm2 }

// Len returns the number of unknowns, M.
func (e *Equation) Len() int { return e.cat.Len() }

// Rows returns the number of data rows, N.
func (e *Equation) Rows() int { return e.a.Rows() }

// Params returns the catalog that fixes the column order.
func (e *Equation) Params() *parameter.Catalog { return e.cat }

// DataVector returns the data vector that fixes the row order.
func (e *Equation) DataVector() *datavector.DataVector { return e.dv }

// Engine returns the kernel engine the equation was assembled with.
func (e *Equation) Engine() *matrix.Engine { return e.engine }

// Drops returns how many partial records were dropped, by reason.
func (e *Equation) Drops() map[DropReason]int {
	out := make(map[DropReason]int, len(e.drops))
	for k, v := range e.drops {
		out[k] = v
	}

	return out
}

// Operate returns A·m in the weighted data space.
func (e *Equation) Operate(m []float64) ([]float64, error) {
	am, err := e.engine.MulVec(e.a, m)
	if err != nil {
		return nil, fmt.Errorf("obseq: operate: %w", err)
	}

	return am, nil
}

// VarianceOf returns ‖d − A·m‖² / ‖obs‖², evaluated as
// (‖d‖² − 2·Aᵀd·m + mᵀ·AᵀA·m) / ‖obs‖² without forming d − A·m.
func (e *Equation) VarianceOf(m []float64) (float64, error) {
	if err := matrix.ValidateVecLen(m, e.Len()); err != nil {
		return 0, fmt.Errorf("obseq: variance: %w", err)
	}
	if e.obsNorm2 == 0 {
		return 0, ErrZeroObserved
	}
	ataM, err := e.engine.MulVec(e.ata, m)
	if err != nil {
		return 0, fmt.Errorf("obseq: variance: %w", err)
	}

	return (e.dNorm2 - 2*floats.Dot(e.atd, m) + floats.Dot(m, ataM)) / e.obsNorm2, nil
}
