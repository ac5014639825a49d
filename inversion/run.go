// SPDX-License-Identifier: MIT

package inversion

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/evaluate"
	"github.com/katalvlaran/waveinv/obseq"
	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/solver"
	"github.com/katalvlaran/waveinv/waveform"
	"github.com/katalvlaran/waveinv/window"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrStageOrder is returned when a stage runs before the one it depends on.
var ErrStageOrder = errors.New("inversion: stage called out of order")

// Run holds the inputs and results of one inversion.
type Run struct {
	cfg    Config
	logger *zap.Logger

	observed  []waveform.Record
	synthetic []waveform.Record
	partials  []waveform.Record
	catalog   *parameter.Catalog
	windows   []window.TimeWindow

	dv   *datavector.DataVector
	eq   *obseq.Equation
	eval *evaluate.Evaluator

	families  []*solver.Family
	summaries map[solver.Method][]evaluate.RankSummary
}

// New validates cfg and returns an empty run. A nil logger discards output.
func New(cfg Config, logger *zap.Logger) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Run{
		cfg:       cfg,
		logger:    logger,
		summaries: make(map[solver.Method][]evaluate.RankSummary),
	}, nil
}

// Config returns the validated configuration.
func (r *Run) Config() Config { return r.cfg }

// DataVector is nil before Assemble.
func (r *Run) DataVector() *datavector.DataVector { return r.dv }

// Equation is nil before Assemble.
func (r *Run) Equation() *obseq.Equation { return r.eq }

// Families returns one family per configured method, in configuration
// order. Empty before Solve.
func (r *Run) Families() []*solver.Family { return r.families }

// Summary returns the per-rank variance and AIC computed by Report.
func (r *Run) Summary(m solver.Method) []evaluate.RankSummary { return r.summaries[m] }

// Execute runs Load, Assemble, Solve and Report.
func (r *Run) Execute() error {
	for _, stage := range []func() error{r.Load, r.Assemble, r.Solve, r.Report} {
		if err := stage(); err != nil {
			return err
		}
	}

	return nil
}

// Load reads every input file. Files are read concurrently.
func (r *Run) Load() error {
	waves := make([][]waveform.Record, len(r.cfg.Waveforms))
	parts := make([][]waveform.Record, len(r.cfg.Partials))

	var g errgroup.Group
	for i, p := range r.cfg.Waveforms {
		i, p := i, p
		g.Go(func() error {
			rs, err := waveform.ReadFiles(p.ID, p.Payload)
			waves[i] = rs
			return err
		})
	}
	for i, p := range r.cfg.Partials {
		i, p := i, p
		g.Go(func() error {
			rs, err := waveform.ReadFiles(p.ID, p.Payload)
			parts[i] = rs
			return err
		})
	}
	g.Go(func() error {
		cat, err := parameter.ReadCatalogFile(r.cfg.Catalog, parameter.WithLogger(r.logger))
		r.catalog = cat
		return err
	})
	g.Go(func() error {
		ws, err := window.ReadFile(r.cfg.Windows)
		r.windows = ws
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("inversion: load: %w", err)
	}

	r.observed, r.synthetic, r.partials = nil, nil, nil
	for i, rs := range waves {
		for _, rec := range rs {
			switch rec.Kind() {
			case waveform.Observed:
				r.observed = append(r.observed, rec)
			case waveform.Synthetic:
				r.synthetic = append(r.synthetic, rec)
			default:
				return fmt.Errorf("inversion: load: %s: %w: %s record among waveforms",
					r.cfg.Waveforms[i].ID, waveform.ErrInvalidRecord, rec.Kind())
			}
		}
	}
	for _, rs := range parts {
		r.partials = append(r.partials, rs...)
	}

	r.logger.Info("inputs loaded",
		zap.Int("observed", len(r.observed)),
		zap.Int("synthetic", len(r.synthetic)),
		zap.Int("partials", len(r.partials)),
		zap.Int("parameters", r.catalog.Len()),
		zap.Int("windows", len(r.windows)))

	return nil
}

// Assemble builds the data vector and the observation equation.
func (r *Run) Assemble() error {
	if r.catalog == nil {
		return fmt.Errorf("%w: Assemble before Load", ErrStageOrder)
	}

	dvOpts := []datavector.Option{datavector.WithLogger(r.logger)}
	if r.cfg.SkipUnpaired {
		dvOpts = append(dvOpts, datavector.WithSkipUnpaired())
	}
	dv, err := datavector.Build(r.observed, r.synthetic, r.windows, r.cfg.policy(), dvOpts...)
	if err != nil {
		return fmt.Errorf("inversion: assemble: %w", err)
	}

	eqOpts := []obseq.Option{obseq.WithLogger(r.logger)}
	if r.cfg.Workers > 0 {
		eqOpts = append(eqOpts, obseq.WithWorkers(r.cfg.Workers))
	}
	eq, err := obseq.Assemble(r.partials, r.catalog, dv, eqOpts...)
	if err != nil {
		return fmt.Errorf("inversion: assemble: %w", err)
	}

	r.dv, r.eq = dv, eq
	r.eval = evaluate.New(eq, evaluate.WithLogger(r.logger))

	return nil
}

// Solve runs every configured method on the normal equations.
func (r *Run) Solve() error {
	if r.eq == nil {
		return fmt.Errorf("%w: Solve before Assemble", ErrStageOrder)
	}

	ata, atd := r.eq.AtA(), r.eq.Atd()
	opts := append(r.cfg.solverOptions(),
		solver.WithEngine(r.eq.Engine()),
		solver.WithLogger(r.logger))

	r.families = r.families[:0]
	for _, name := range r.cfg.Methods {
		m, err := solver.ParseMethod(name)
		if err != nil {
			return fmt.Errorf("inversion: solve: %w", err)
		}
		s, err := solver.New(m, opts...)
		if err != nil {
			return fmt.Errorf("inversion: solve: %w", err)
		}
		f, err := s.Solve(ata, atd)
		if err != nil {
			return fmt.Errorf("inversion: solve %s: %w", m, err)
		}
		for _, w := range f.Warnings {
			r.logger.Warn("unstable rank excluded",
				zap.String("method", string(m)),
				zap.Int("rank", w.Rank),
				zap.Float64("eigenvalue", w.Eigenvalue))
		}
		r.families = append(r.families, f)
	}

	return nil
}
