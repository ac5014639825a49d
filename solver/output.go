// SPDX-License-Identifier: MIT

package solver

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ModelFileName returns the file name WriteFamily uses for rank.
func ModelFileName(rank int) string { return strconv.Itoa(rank) + ".txt" }

// WriteFamily writes one file per solution, <dir>/<rank>.txt, holding the
// model values one per line in catalog column order. dir is created if
// needed.
func WriteFamily(dir string, f *Family) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("solver: create %s: %w", dir, err)
	}
	for _, s := range f.Solutions {
		if err := WriteModel(filepath.Join(dir, ModelFileName(s.Rank)), s.Model); err != nil {
			return err
		}
	}

	return nil
}

// WriteModel writes model values one per line with full precision.
func WriteModel(path string, model []float64) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("solver: create model file: %w", err)
	}
	defer func() { err = errors.Join(err, fh.Close()) }()

	w := bufio.NewWriter(fh)
	for _, v := range model {
		if _, err := w.WriteString(strconv.FormatFloat(v, 'g', -1, 64) + "\n"); err != nil {
			return fmt.Errorf("solver: write %s: %w", path, err)
		}
	}

	return w.Flush()
}

// ReadModel reads a file written by WriteModel. Blank lines are skipped.
func ReadModel(path string) ([]float64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("solver: open model file: %w", err)
	}
	defer fh.Close()

	var model []float64
	sc := bufio.NewScanner(fh)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %q", ErrBadModelFile, path, n, line)
		}
		model = append(model, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("solver: read %s: %w", path, err)
	}

	return model, nil
}
