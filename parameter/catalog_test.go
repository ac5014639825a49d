// SPDX-License-Identifier: MIT
package parameter_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/waveform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustNew(t *testing.T, typ waveform.PartialType, loc waveform.Location, w float64) parameter.Parameter {
	t.Helper()
	p, err := parameter.New(typ, loc, w)
	require.NoError(t, err)

	return p
}

func TestNew_Variant(t *testing.T) {
	t.Parallel()

	p1 := mustNew(t, waveform.TypePAR2, waveform.Location{Lat: 9, Lon: 9, Radius: 6271}, 1)
	e1, ok := p1.(parameter.Elastic1D)
	require.True(t, ok)
	assert.InDelta(t, 6271.0, e1.Radius(), 0)
	// 1-D matches on radius only.
	assert.True(t, p1.Matches(waveform.Location{Lat: -40, Lon: 100, Radius: 6271}))
	assert.False(t, p1.Matches(waveform.Location{Radius: 6270}))

	p3 := mustNew(t, waveform.TypeMU, waveform.Location{Lat: 12.5, Lon: -33, Radius: 5961}, 2)
	_, ok = p3.(parameter.Elastic3D)
	require.True(t, ok)
	assert.True(t, p3.Matches(waveform.Location{Lat: 12.5, Lon: -33, Radius: 5961}))
	assert.False(t, p3.Matches(waveform.Location{Lat: 12.5, Lon: -34, Radius: 5961}))

	_, err := parameter.New(0, waveform.Location{}, 1)
	require.ErrorIs(t, err, waveform.ErrUnknownPartialType)
}

func TestCatalog_DedupeAndResolve(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	params := []parameter.Parameter{
		mustNew(t, waveform.TypeMU, waveform.Location{Lat: 1, Lon: 2, Radius: 6000}, 1),
		mustNew(t, waveform.TypePAR2, waveform.Location{Radius: 5000}, 1),
		mustNew(t, waveform.TypeMU, waveform.Location{Lat: 1, Lon: 2, Radius: 6000}, 1),   // duplicate
		mustNew(t, waveform.TypePAR2, waveform.Location{Radius: 5000}, 3),                 // conflict
		mustNew(t, waveform.TypeRHO, waveform.Location{Lat: 1, Lon: 2, Radius: 6000}, 1),  // same point, other type
	}
	c, err := parameter.NewCatalog(params, parameter.WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Duplicates())
	require.Len(t, c.Conflicts(), 1)
	cf := c.Conflicts()[0]
	assert.InDelta(t, 1.0, cf.Kept, 0)
	assert.InDelta(t, 3.0, cf.Discarded, 0)
	assert.Equal(t, 3, cf.Position)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())

	col, ok := c.Resolve(waveform.TypePAR2, waveform.Location{Lat: 50, Lon: 50, Radius: 5000})
	require.True(t, ok)
	assert.Equal(t, 1, col)
	col, ok = c.Resolve(waveform.TypeRHO, waveform.Location{Lat: 1, Lon: 2, Radius: 6000})
	require.True(t, ok)
	assert.Equal(t, 2, col)
	_, ok = c.Resolve(waveform.TypeMU, waveform.Location{Lat: 1, Lon: 2, Radius: 6001})
	assert.False(t, ok)
	_, ok = c.Resolve(waveform.TypePAR3, waveform.Location{Radius: 5000})
	assert.False(t, ok)

	assert.Equal(t, []float64{1, 1, 1}, c.Weightings())
}

func TestCatalog_Empty(t *testing.T) {
	t.Parallel()

	_, err := parameter.NewCatalog(nil)
	require.ErrorIs(t, err, parameter.ErrEmptyCatalog)
	_, err = parameter.NewCatalog([]parameter.Parameter{nil})
	require.ErrorIs(t, err, parameter.ErrNilParameter)
}

const catalogText = `# unknowns
PAR2 6271.0 1.0
MU   12.5 -33.0 5961.0 0.5   # lower mantle

par2 6271 1
`

func TestReadCatalog(t *testing.T) {
	t.Parallel()

	c, err := parameter.ReadCatalog(strings.NewReader(catalogText))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, waveform.TypePAR2, c.At(0).Type())
	assert.Equal(t, waveform.TypeMU, c.At(1).Type())
	assert.InDelta(t, 0.5, c.At(1).Weighting(), 0)
	assert.Equal(t, 1, c.Duplicates())
	assert.Empty(t, c.Conflicts())

	var buf bytes.Buffer
	require.NoError(t, parameter.WriteCatalog(&buf, c))
	assert.Equal(t, "PAR2 6271 1\nMU 12.5 -33 5961 0.5\n", buf.String())

	back, err := parameter.ReadCatalog(&buf)
	require.NoError(t, err)
	assert.Equal(t, c.Params(), back.Params())
}

func TestReadCatalog_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"PAR2 6271\n":           parameter.ErrSyntax,
		"MU 1 2 3\n":            parameter.ErrSyntax,
		"MU 1 2 x 1\n":          parameter.ErrSyntax,
		"VSV 6271 1\n":          waveform.ErrUnknownPartialType,
		"PAR2 6271 NaN\n":       parameter.ErrBadWeighting,
		"# nothing but notes\n": parameter.ErrEmptyCatalog,
	}
	for in, want := range cases {
		_, err := parameter.ReadCatalog(strings.NewReader(in))
		require.ErrorIs(t, err, want, in)
	}

	_, err := parameter.ReadCatalog(strings.NewReader("PAR0 1 1\nPAR2 6271\n"))
	require.ErrorContains(t, err, "line 2")
}

func TestReadCatalogFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "unknowns.inf")
	require.NoError(t, os.WriteFile(path, []byte(catalogText), 0o644))
	c, err := parameter.ReadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = parameter.ReadCatalogFile(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
