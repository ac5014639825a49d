// SPDX-License-Identifier: MIT
package inversion_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/waveinv/inversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
waveforms:
  - id: wave_id.dat
    payload: wave.dat
partials:
  - id: part_id.dat
    payload: part.dat
catalog: unknowns.inf
windows: timewindow.dat
output_dir: out
`

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := inversion.ParseConfig([]byte(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, []string{"svd"}, cfg.Methods)
	assert.Equal(t, inversion.WeightingIdentity, cfg.Weighting)
	assert.InDelta(t, inversion.DefaultRedundancy, cfg.Redundancy, 0)
	assert.Zero(t, cfg.BornRank)
	assert.Equal(t, "wave.dat", cfg.Waveforms[0].Payload)
}

func TestParseConfig_Full(t *testing.T) {
	t.Parallel()

	raw := minimalYAML + `
methods: [cg, svd]
weighting: table
station_weights: {AAA: 2}
event_weights: {E1: 0.5}
skip_unpaired: true
workers: 4
redundancy: 8
born_rank: 3
solver:
  tolerance: 1e-8
  max_iter: 50
  cutoff: 1e-6
  max_rank: 10
`
	cfg, err := inversion.ParseConfig([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"cg", "svd"}, cfg.Methods)
	assert.Equal(t, map[string]float64{"AAA": 2}, cfg.StationWeights)
	assert.True(t, cfg.SkipUnpaired)
	assert.Equal(t, inversion.SolverConfig{Tolerance: 1e-8, MaxIter: 50, Cutoff: 1e-6, MaxRank: 10}, cfg.Solver)

	// Marshal output parses back to the same config.
	out, err := cfg.Marshal()
	require.NoError(t, err)
	again, err := inversion.ParseConfig(out)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestParseConfig_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown key":      minimalYAML + "colour: red\n",
		"unknown method":   minimalYAML + "methods: [lsqr]\n",
		"duplicate method": minimalYAML + "methods: [svd, svd]\n",
		"unknown weight":   minimalYAML + "weighting: random\n",
		"negative weight":  minimalYAML + "weighting: table\nstation_weights: {AAA: -1}\n",
		"redundancy":       minimalYAML + "redundancy: -2\n",
		"cutoff":           minimalYAML + "solver: {cutoff: 1}\n",
		"workers":          minimalYAML + "workers: -1\n",
		"born rank":        minimalYAML + "born_rank: -1\n",
		"no partials":      "waveforms: [{id: a, payload: b}]\ncatalog: c\nwindows: w\noutput_dir: o\n",
		"half pair":        "waveforms: [{id: a}]\npartials: [{id: a, payload: b}]\ncatalog: c\nwindows: w\noutput_dir: o\n",
		"no output":        "waveforms: [{id: a, payload: b}]\npartials: [{id: a, payload: b}]\ncatalog: c\nwindows: w\n",
	}
	for name, raw := range cases {
		raw := raw
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := inversion.ParseConfig([]byte(raw))
			require.ErrorIs(t, err, inversion.ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))
	cfg, err := inversion.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)

	_, err = inversion.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
