// SPDX-License-Identifier: MIT

package parameter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/waveinv/waveform"
)

// ReadCatalog parses the text catalog format from r.
func ReadCatalog(r io.Reader, opts ...Option) (*Catalog, error) {
	o := gatherOptions(opts...)

	var (
		params []Parameter
		lines  []int
	)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		p, err := parseLine(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		params = append(params, p)
		lines = append(lines, n)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parameter: read catalog: %w", err)
	}

	return build(params, lines, o)
}

// ReadCatalogFile opens path and parses it with ReadCatalog.
func ReadCatalogFile(path string, opts ...Option) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parameter: open catalog: %w", err)
	}
	defer f.Close()

	c, err := ReadCatalog(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

func parseLine(fields []string) (Parameter, error) {
	typ, err := waveform.ParsePartialType(fields[0])
	if err != nil {
		return nil, err
	}
	want := 5
	if typ.Is1D() {
		want = 3
	}
	if len(fields) != want {
		return nil, fmt.Errorf("%w: %s takes %d fields, got %d", ErrSyntax, typ, want, len(fields))
	}

	vals := make([]float64, want-1)
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, fields[i+1], errors.Unwrap(err))
		}
		vals[i] = v
	}

	var loc waveform.Location
	if typ.Is1D() {
		loc.Radius = vals[0]
	} else {
		loc = waveform.Location{Lat: vals[0], Lon: vals[1], Radius: vals[2]}
	}

	return New(typ, loc, vals[len(vals)-1])
}

// WriteCatalog writes c in the text catalog format, one parameter per line
// in column order.
func WriteCatalog(w io.Writer, c *Catalog) error {
	bw := bufio.NewWriter(w)
	for _, p := range c.params {
		loc := p.Location()
		var err error
		if p.Type().Is1D() {
			_, err = fmt.Fprintf(bw, "%s %s %s\n", p.Type(), ftoa(loc.Radius), ftoa(p.Weighting()))
		} else {
			_, err = fmt.Fprintf(bw, "%s %s %s %s %s\n", p.Type(),
				ftoa(loc.Lat), ftoa(loc.Lon), ftoa(loc.Radius), ftoa(p.Weighting()))
		}
		if err != nil {
			return fmt.Errorf("parameter: write catalog: %w", err)
		}
	}

	return bw.Flush()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
