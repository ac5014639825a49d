// SPDX-License-Identifier: MIT

package parameter

import (
	"fmt"

	"github.com/katalvlaran/waveinv/waveform"
	"go.uber.org/zap"
)

// Conflict records a duplicate key whose weighting differs from the entry
// that was kept.
type Conflict struct {
	Key       Key
	Kept      float64
	Discarded float64
	Position  int // index in the input list (or 1-based line when read from text)
}

// String describes the conflicting entries.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: weighting %g kept, %g discarded (entry %d)", c.Key, c.Kept, c.Discarded, c.Position)
}

// Catalog is the ordered, deduplicated, immutable list of unknowns. Index i
// is column i of the design matrix.
type Catalog struct {
	params    []Parameter
	index     map[Key]int
	conflicts []Conflict
	dropped   int
}

// Option configures catalog construction.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger routes duplicate and conflict reports to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(user ...Option) options {
	o := options{logger: zap.NewNop()}
	for _, set := range user {
		set(&o)
	}

	return o
}

// NewCatalog deduplicates params by Key, keeping the first occurrence.
// Duplicates are logged; a duplicate with a different weighting is a data
// error that is logged and reported by Conflicts but not returned.
func NewCatalog(params []Parameter, opts ...Option) (*Catalog, error) {
	o := gatherOptions(opts...)

	return build(params, nil, o)
}

// build keeps positions so text input can report line numbers.
func build(params []Parameter, positions []int, o options) (*Catalog, error) {
	c := &Catalog{index: make(map[Key]int, len(params))}
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("%w: entry %d", ErrNilParameter, i)
		}
		pos := i
		if positions != nil {
			pos = positions[i]
		}

		k := p.Key()
		if j, ok := c.index[k]; ok {
			c.dropped++
			kept := c.params[j].Weighting()
			if kept != p.Weighting() {
				cf := Conflict{Key: k, Kept: kept, Discarded: p.Weighting(), Position: pos}
				c.conflicts = append(c.conflicts, cf)
				o.logger.Error("conflicting weighting for duplicate parameter",
					zap.Stringer("parameter", k),
					zap.Float64("kept", kept),
					zap.Float64("discarded", p.Weighting()),
					zap.Int("position", pos))
			} else {
				o.logger.Warn("duplicate parameter ignored",
					zap.Stringer("parameter", k),
					zap.Int("position", pos))
			}

			continue
		}
		c.index[k] = len(c.params)
		c.params = append(c.params, p)
	}
	if len(c.params) == 0 {
		return nil, ErrEmptyCatalog
	}
	o.logger.Debug("parameter catalog built",
		zap.Int("parameters", len(c.params)),
		zap.Int("duplicates", c.dropped),
		zap.Int("conflicts", len(c.conflicts)))

	return c, nil
}

// Len returns the number of unknowns, M.
func (c *Catalog) Len() int { return len(c.params) }

// At returns the parameter of column i. Panics if i is out of range.
func (c *Catalog) At(i int) Parameter { return c.params[i] }

// Params returns the parameters in column order.
func (c *Catalog) Params() []Parameter {
	out := make([]Parameter, len(c.params))
	copy(out, c.params)

	return out
}

// Weightings returns the per-column weightings.
func (c *Catalog) Weightings() []float64 {
	out := make([]float64, len(c.params))
	for i, p := range c.params {
		out[i] = p.Weighting()
	}

	return out
}

// Index returns the column of k.
func (c *Catalog) Index(k Key) (int, bool) {
	i, ok := c.index[k]

	return i, ok
}

// Resolve returns the column a partial derivative of type typ perturbed at
// loc belongs to: exact type, radius equality for 1-D types, point
// equality for 3-D types.
func (c *Catalog) Resolve(typ waveform.PartialType, loc waveform.Location) (int, bool) {
	return c.Index(KeyOf(typ, loc))
}

// Conflicts returns the duplicate entries whose weighting disagreed.
func (c *Catalog) Conflicts() []Conflict {
	out := make([]Conflict, len(c.conflicts))
	copy(out, c.conflicts)

	return out
}

// Duplicates returns how many input entries were dropped as duplicates.
func (c *Catalog) Duplicates() int { return c.dropped }
