// SPDX-License-Identifier: MIT

package inversion

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/katalvlaran/waveinv/evaluate"
	"github.com/katalvlaran/waveinv/solver"
	"github.com/katalvlaran/waveinv/waveform"
	"go.uber.org/zap"
)

// Report file names, relative to <output_dir>/<method>/.
const (
	SummaryFile         = "summary.txt"
	EventVarianceFile   = "event_variance.txt"
	StationVarianceFile = "station_variance.txt"
	BornIDFile          = "born_id.dat"
	BornPayloadFile     = "born.dat"
	WarpFile            = "born_warp.txt"
)

// Report writes the results of every solved family under
// <output_dir>/<method>/.
func (r *Run) Report() error {
	if len(r.families) == 0 {
		return fmt.Errorf("%w: Report before Solve", ErrStageOrder)
	}
	for _, f := range r.families {
		if err := r.report(f); err != nil {
			return fmt.Errorf("inversion: report %s: %w", f.Method, err)
		}
	}

	return nil
}

func (r *Run) report(f *solver.Family) error {
	dir := filepath.Join(r.cfg.OutputDir, string(f.Method))
	if err := solver.WriteFamily(dir, f); err != nil {
		return err
	}

	sum, err := r.eval.Summarize(f, r.cfg.Redundancy)
	if err != nil {
		return err
	}
	r.summaries[f.Method] = sum
	if err := writeText(filepath.Join(dir, SummaryFile), func(w *bufio.Writer) error {
		return writeSummary(w, sum)
	}); err != nil {
		return err
	}

	events := make([][]evaluate.GroupVariance, len(f.Solutions))
	stations := make([][]evaluate.GroupVariance, len(f.Solutions))
	for i, s := range f.Solutions {
		if events[i], stations[i], err = r.eval.Breakdown(s.Model); err != nil {
			return fmt.Errorf("rank %d: %w", s.Rank, err)
		}
	}
	for _, g := range []struct {
		file   string
		groups [][]evaluate.GroupVariance
	}{
		{EventVarianceFile, events},
		{StationVarianceFile, stations},
	} {
		if err := writeText(filepath.Join(dir, g.file), func(w *bufio.Writer) error {
			return writeGroups(w, f, g.groups)
		}); err != nil {
			return err
		}
	}

	if r.cfg.BornRank == 0 {
		return nil
	}
	s, ok := f.At(r.cfg.BornRank)
	if !ok {
		r.logger.Warn("born rank not in family, born waveforms skipped",
			zap.String("method", string(f.Method)),
			zap.Int("rank", r.cfg.BornRank))
		return nil
	}

	return r.writeBorn(dir, s)
}

// writeBorn writes the Born waveform of every window as synthetic records.
// Windows of weight 0 are skipped.
func (r *Run) writeBorn(dir string, s solver.Solution) error {
	w := waveform.NewWriter()
	for i := 0; i < r.dv.WindowCount(); i++ {
		rec, err := r.eval.BornRecord(i, s.Model)
		if errors.Is(err, evaluate.ErrZeroWeight) {
			r.logger.Warn("zero-weight window, born waveform skipped",
				zap.Stringer("window", r.dv.Window(i)))
			continue
		}
		if err != nil {
			return err
		}
		if err := w.Add(rec); err != nil {
			return err
		}
	}
	if w.Len() == 0 {
		return nil
	}
	r.logger.Info("writing born waveforms",
		zap.String("dir", dir),
		zap.Int("rank", s.Rank),
		zap.Int("records", w.Len()))

	if err := w.FlushFiles(filepath.Join(dir, BornIDFile), filepath.Join(dir, BornPayloadFile)); err != nil {
		return err
	}

	ws, err := r.eval.Warp(s.Model, r.cfg.WarpBand)
	if err != nil {
		return err
	}

	return writeText(filepath.Join(dir, WarpFile), func(bw *bufio.Writer) error {
		if _, err := bw.WriteString("# window warp l1\n"); err != nil {
			return err
		}
		for _, x := range ws {
			if _, err := fmt.Fprintf(bw, "%s %s %s\n", r.dv.Window(x.Window).Key, formatFloat(x.Distance), formatFloat(x.L1)); err != nil {
				return err
			}
		}

		return nil
	})
}

// writeSummary writes one "rank variance aic" line per solution.
func writeSummary(w *bufio.Writer, sum []evaluate.RankSummary) error {
	if _, err := w.WriteString("# rank variance aic\n"); err != nil {
		return err
	}
	for _, s := range sum {
		if _, err := fmt.Fprintf(w, "%d %s %s\n", s.Rank, formatFloat(s.Variance), formatFloat(s.AIC)); err != nil {
			return err
		}
	}

	return nil
}

// writeGroups writes one "rank name windows variance" line per group and
// solution; groups[i] belongs to f.Solutions[i].
func writeGroups(w *bufio.Writer, f *solver.Family, groups [][]evaluate.GroupVariance) error {
	if _, err := w.WriteString("# rank name windows variance\n"); err != nil {
		return err
	}
	for i, s := range f.Solutions {
		for _, g := range groups[i] {
			if _, err := fmt.Fprintf(w, "%d %s %d %s\n", s.Rank, g.Name, g.Windows, formatFloat(g.Variance)); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeText(path string, body func(*bufio.Writer) error) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, fh.Close()) }()

	w := bufio.NewWriter(fh)
	if err := body(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return w.Flush()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
