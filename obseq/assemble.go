// SPDX-License-Identifier: MIT

package obseq

import (
	"fmt"
	"math"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/matrix"
	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/waveform"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// DropReason classifies a partial-derivative record that was not placed.
type DropReason uint8

const (
	DropNoParameter DropReason = iota // no catalog column matches type and location
	DropNoWindow                      // no window matches station, event and component
	DropBand                          // period band differs from the window's
	DropLength                        // sample count differs from the window's
	DropDuplicate                     // the cell was already filled by another record
	numDropReasons
)

var dropReasonNames = [numDropReasons]string{
	DropNoParameter: "no matching parameter",
	DropNoWindow:    "no matching window",
	DropBand:        "period band mismatch",
	DropLength:      "sample count mismatch",
	DropDuplicate:   "duplicate cell",
}

// String returns a short description of the reason.
func (r DropReason) String() string {
	if r < numDropReasons {
		return dropReasonNames[r]
	}

	return fmt.Sprintf("DropReason(%d)", uint8(r))
}

// chunk is the number of cells a worker writes per task.
const chunk = 64

// placement is a partial record resolved to its cell.
type placement struct {
	rec waveform.Record
	win int
	col int
}

// placer carries the shared state of one assembly.
type placer struct {
	dv      *datavector.DataVector
	cat     *parameter.Catalog
	a       *matrix.ColumnDense
	claimed []bool // W*M, index window*M + param
	drops   [numDropReasons]int
	logger  *zap.Logger
}

// Assemble builds the observation equation from partial-derivative records.
// Every (window, parameter) cell must be filled by exactly one record;
// otherwise an *IncompleteDesignMatrixError is returned. When several
// records resolve to the same cell the one earliest in partials is kept.
func Assemble(partials []waveform.Record, cat *parameter.Catalog, dv *datavector.DataVector, opts ...Option) (*Equation, error) {
	o := gatherOptions(opts...)
	if cat == nil || dv == nil {
		return nil, ErrNilInput
	}
	for i, r := range partials {
		if r.Kind() != waveform.Partial {
			return nil, fmt.Errorf("obseq: record %d: %w: %s record among partials", i, waveform.ErrInvalidRecord, r.Kind())
		}
	}

	n, m, w := dv.Len(), cat.Len(), dv.WindowCount()
	a, err := matrix.NewColumnDense(n, m)
	if err != nil {
		return nil, fmt.Errorf("obseq: allocate %dx%d design matrix: %w", n, m, err)
	}
	p := &placer{
		dv:      dv,
		cat:     cat,
		a:       a,
		claimed: make([]bool, w*m),
		logger:  o.logger,
	}

	// Claims are made in input order; only the writes run concurrently.
	cells := make([]placement, 0, min(len(partials), w*m))
	for _, r := range partials {
		if c, ok := p.resolve(r); ok {
			cells = append(cells, c)
		}
	}

	var g errgroup.Group
	g.SetLimit(o.workers)
	for lo := 0; lo < len(cells); lo += chunk {
		batch := cells[lo:min(lo+chunk, len(cells))]
		g.Go(func() error {
			for _, c := range batch {
				if err := p.write(c); err != nil {
					return err
				}
			}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drops := make(map[DropReason]int)
	for r, c := range p.drops {
		if c > 0 {
			drops[DropReason(r)] = c
		}
	}
	placed, expected := len(cells), w*m
	o.logger.Info("design matrix placement finished",
		zap.Int("records", len(partials)),
		zap.Int("placed", placed),
		zap.Int("expected", expected),
		zap.Any("dropped", dropFields(drops)))

	if placed != expected {
		return nil, p.incomplete(placed, expected)
	}

	return newEquation(a, cat, dv, drops, o)
}

// resolve finds the cell of r and claims it. Every miss is counted as a
// drop.
func (p *placer) resolve(r waveform.Record) (placement, bool) {
	col, ok := p.cat.Resolve(r.PartialType(), r.Location())
	if !ok {
		p.drop(r, DropNoParameter)
		return placement{}, false
	}
	wi, ok := p.dv.IndexOf(r.Key())
	if !ok {
		p.drop(r, DropNoWindow)
		return placement{}, false
	}
	if !r.Band().Equal(p.dv.Band(wi)) {
		p.drop(r, DropBand)
		return placement{}, false
	}
	if r.Len() != p.dv.WindowLen(wi) {
		p.drop(r, DropLength)
		return placement{}, false
	}
	cell := wi*p.cat.Len() + col
	if p.claimed[cell] {
		p.drop(r, DropDuplicate)
		return placement{}, false
	}
	p.claimed[cell] = true

	return placement{rec: r, win: wi, col: col}, true
}

// write scales the samples of c into its column segment. Cells are
// disjoint, so writes need no locking. Only non-finite samples are an error.
func (p *placer) write(c placement) error {
	seg, err := p.a.ColumnSegment(c.col, p.dv.StartOffset(c.win), p.dv.WindowLen(c.win))
	if err != nil {
		return fmt.Errorf("obseq: place %s: %w", c.rec, err)
	}
	c.rec.ScaleInto(seg, p.dv.Weight(c.win)*p.cat.At(c.col).Weighting())
	for _, v := range seg {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("obseq: place %s: %w", c.rec, matrix.ErrNaNInf)
		}
	}

	return nil
}

func (p *placer) drop(r waveform.Record, reason DropReason) {
	p.drops[reason]++
	p.logger.Debug("partial record dropped",
		zap.String("station", r.Station().Name),
		zap.String("event", r.Event()),
		zap.Stringer("component", r.Component()),
		zap.Stringer("parameter", parameter.KeyOf(r.PartialType(), r.Location())),
		zap.Stringer("reason", reason))
}

func (p *placer) incomplete(placed, expected int) error {
	m := p.cat.Len()
	e := &IncompleteDesignMatrixError{Expected: expected, Placed: placed}
	for i := range p.claimed {
		if p.claimed[i] {
			continue
		}
		wi, col := i/m, i%m
		e.Missing = append(e.Missing, Cell{
			Window:    wi,
			Param:     col,
			Key:       p.dv.Window(wi).Key,
			Parameter: p.cat.At(col).Key(),
		})
	}
	p.logger.Error("design matrix incomplete",
		zap.Int("placed", placed),
		zap.Int("expected", expected),
		zap.Int("missing", len(e.Missing)))

	return e
}

func dropFields(drops map[DropReason]int) map[string]int {
	out := make(map[string]int, len(drops))
	for r, c := range drops {
		out[r.String()] = c
	}

	return out
}

// norm2 returns ‖v‖².
func norm2(v []float64) float64 { return floats.Dot(v, v) }
