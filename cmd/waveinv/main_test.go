// SPDX-License-Identifier: MIT
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/waveinv/inversion"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() inversion.Config {
	return inversion.Config{
		Waveforms: []inversion.FilePair{{ID: "w_id", Payload: "w"}},
		Partials:  []inversion.FilePair{{ID: "p_id", Payload: "p"}},
		Catalog:   "unknowns.inf",
		Windows:   "timewindow.dat",
		OutputDir: "out",
		Methods:   []string{"svd"},
		Workers:   3,
	}
}

func TestFlags_Apply(t *testing.T) {
	t.Parallel()

	var f flags
	cmd := &cobra.Command{}
	f.bind(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"-c", "run.yaml", "-m", "cg,svd", "-o", "elsewhere", "--born-rank", "4"}))

	cfg := baseConfig()
	require.NoError(t, f.apply(cmd, &cfg))
	assert.Equal(t, []string{"cg", "svd"}, cfg.Methods)
	assert.Equal(t, "elsewhere", cfg.OutputDir)
	assert.Equal(t, 4, cfg.BornRank)
	assert.Equal(t, 3, cfg.Workers, "unset flag keeps the file value")
}

func TestFlags_ApplyInvalid(t *testing.T) {
	t.Parallel()

	var f flags
	cmd := &cobra.Command{}
	f.bind(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--weighting", "random"}))

	cfg := baseConfig()
	require.ErrorIs(t, f.apply(cmd, &cfg), inversion.ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		l, err := newLogger(lvl, false)
		require.NoError(t, err, lvl)
		assert.NotNil(t, l)
	}
	_, err := newLogger("chatty", true)
	require.Error(t, err)
}

func TestRootCmd_Errors(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	require.Error(t, cmd.Execute(), "--config is required")

	cmd = newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")})
	require.ErrorIs(t, cmd.Execute(), os.ErrNotExist)
}
