// SPDX-License-Identifier: MIT

package inversion

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/solver"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a run configuration that cannot be executed.
var ErrInvalidConfig = errors.New("inversion: invalid config")

// Weighting policy names accepted in Config.Weighting.
const (
	WeightingIdentity  = "identity"
	WeightingAmplitude = "amplitude"
	WeightingTable     = "table"
)

// DefaultRedundancy is the AIC redundancy factor applied by Validate.
const DefaultRedundancy = 1.0

// FilePair names an ID file and its payload file.
type FilePair struct {
	ID      string `yaml:"id"`
	Payload string `yaml:"payload"`
}

// SolverConfig tunes the solvers. Zero values select the solver defaults.
type SolverConfig struct {
	Tolerance float64 `yaml:"tolerance"`
	MaxIter   int     `yaml:"max_iter"`
	Cutoff    float64 `yaml:"cutoff"`
	MaxRank   int     `yaml:"max_rank"`
}

// Config is one inversion run.
type Config struct {
	// Waveforms holds observed and synthetic records, possibly mixed in
	// the same files.
	Waveforms []FilePair `yaml:"waveforms"`
	Partials  []FilePair `yaml:"partials"`
	Catalog   string     `yaml:"catalog"`
	Windows   string     `yaml:"windows"`
	OutputDir string     `yaml:"output_dir"`

	Methods        []string           `yaml:"methods"`
	Weighting      string             `yaml:"weighting"`
	StationWeights map[string]float64 `yaml:"station_weights"`
	EventWeights   map[string]float64 `yaml:"event_weights"`
	SkipUnpaired   bool               `yaml:"skip_unpaired"`

	Workers    int          `yaml:"workers"`
	Solver     SolverConfig `yaml:"solver"`
	Redundancy float64      `yaml:"redundancy"`

	// BornRank selects the rank whose Born waveforms are written. 0 skips
	// them.
	BornRank int `yaml:"born_rank"`
	// WarpBand is the Sakoe-Chiba half-width, in samples, of the warp
	// diagnostic written next to the Born waveforms. 0 is unconstrained.
	WarpBand int `yaml:"warp_band"`
}

// LoadConfig decodes a YAML run file and validates it. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("inversion: read config: %w", err)
	}

	return ParseConfig(raw)
}

// ParseConfig decodes and validates a YAML run document.
func ParseConfig(raw []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Marshal encodes cfg as YAML.
func (c Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }

// Validate checks c and fills in defaults: methods [svd], identity
// weighting, redundancy 1.
func (c *Config) Validate() error {
	if len(c.Waveforms) == 0 {
		return fmt.Errorf("%w: no waveform files", ErrInvalidConfig)
	}
	if len(c.Partials) == 0 {
		return fmt.Errorf("%w: no partial files", ErrInvalidConfig)
	}
	for _, p := range append(append([]FilePair(nil), c.Waveforms...), c.Partials...) {
		if p.ID == "" || p.Payload == "" {
			return fmt.Errorf("%w: file pair needs id and payload: %+v", ErrInvalidConfig, p)
		}
	}
	switch {
	case c.Catalog == "":
		return fmt.Errorf("%w: no catalog", ErrInvalidConfig)
	case c.Windows == "":
		return fmt.Errorf("%w: no timewindow file", ErrInvalidConfig)
	case c.OutputDir == "":
		return fmt.Errorf("%w: no output_dir", ErrInvalidConfig)
	}

	if len(c.Methods) == 0 {
		c.Methods = []string{string(solver.MethodSVD)}
	}
	seen := make(map[solver.Method]bool, len(c.Methods))
	for _, s := range c.Methods {
		m, err := solver.ParseMethod(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if seen[m] {
			return fmt.Errorf("%w: method %q listed twice", ErrInvalidConfig, m)
		}
		seen[m] = true
	}

	if c.Weighting == "" {
		c.Weighting = WeightingIdentity
	}
	switch c.Weighting {
	case WeightingIdentity, WeightingAmplitude:
	case WeightingTable:
		if err := checkWeights(c.StationWeights, c.EventWeights); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown weighting %q", ErrInvalidConfig, c.Weighting)
	}

	if c.Redundancy == 0 {
		c.Redundancy = DefaultRedundancy
	}
	s := c.Solver
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case !(c.Redundancy > 0) || math.IsInf(c.Redundancy, 0):
		return fmt.Errorf("%w: redundancy %g", ErrInvalidConfig, c.Redundancy)
	case s.Tolerance < 0 || math.IsNaN(s.Tolerance):
		return fmt.Errorf("%w: tolerance %g", ErrInvalidConfig, s.Tolerance)
	case s.MaxIter < 0:
		return fmt.Errorf("%w: max_iter %d", ErrInvalidConfig, s.MaxIter)
	case !(s.Cutoff >= 0 && s.Cutoff < 1):
		return fmt.Errorf("%w: cutoff %g", ErrInvalidConfig, s.Cutoff)
	case s.MaxRank < 0:
		return fmt.Errorf("%w: max_rank %d", ErrInvalidConfig, s.MaxRank)
	case c.BornRank < 0:
		return fmt.Errorf("%w: born_rank %d", ErrInvalidConfig, c.BornRank)
	case c.WarpBand < 0:
		return fmt.Errorf("%w: warp_band %d", ErrInvalidConfig, c.WarpBand)
	}

	return nil
}

func checkWeights(tables ...map[string]float64) error {
	for _, t := range tables {
		for k, v := range t {
			if !(v >= 0) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: weight %s = %g", ErrInvalidConfig, k, v)
			}
		}
	}

	return nil
}

// policy returns the weighting policy named by c.Weighting.
func (c *Config) policy() datavector.Weighting {
	switch c.Weighting {
	case WeightingAmplitude:
		return datavector.ReciprocalAmplitude{}
	case WeightingTable:
		return datavector.WeightTable{Station: c.StationWeights, Event: c.EventWeights}
	}

	return datavector.Identity{}
}

// solverOptions maps the non-zero solver settings to options.
func (c *Config) solverOptions() []solver.Option {
	var opts []solver.Option
	s := c.Solver
	if s.Tolerance > 0 {
		opts = append(opts, solver.WithTolerance(s.Tolerance))
	}
	if s.MaxIter > 0 {
		opts = append(opts, solver.WithMaxIter(s.MaxIter))
	}
	if s.Cutoff > 0 {
		opts = append(opts, solver.WithRelativeCutoff(s.Cutoff))
	}
	if s.MaxRank > 0 {
		opts = append(opts, solver.WithMaxRank(s.MaxRank))
	}

	return opts
}
