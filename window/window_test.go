// SPDX-License-Identifier: MIT
package window_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/waveinv/waveform"
	"github.com/katalvlaran/waveinv/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) []window.TimeWindow {
	t.Helper()
	a, err := window.New(waveform.Key{Station: "ABC", Event: "200503211243A", Component: waveform.Z}, 120.5, 180.25)
	require.NoError(t, err)
	b, err := window.New(waveform.Key{Station: "LONGNAME", Event: "E2", Component: waveform.T}, 0, 64)
	require.NoError(t, err)

	return []window.TimeWindow{a, b}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	want := fixture(t)
	var buf bytes.Buffer
	require.NoError(t, window.Write(&buf, want))
	assert.Equal(t, 2*window.RecordBytes, buf.Len())

	got, err := window.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.InDelta(t, 59.75, got[0].Duration(), 0)
}

func TestRoundTrip_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "timewindow.dat")
	require.NoError(t, window.WriteFile(path, fixture(t)))
	got, err := window.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRead_Corrupt(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, window.Write(&buf, fixture(t)))
	_, err := window.Read(bytes.NewReader(buf.Bytes()[:40]))
	require.ErrorIs(t, err, waveform.ErrCorruptFile)

	bad := append([]byte{}, buf.Bytes()...)
	bad[23] = 7 // component code of the first record
	_, err = window.Read(bytes.NewReader(bad))
	require.ErrorIs(t, err, window.ErrInvalidWindow)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	_, err := window.New(waveform.Key{Station: "ABC", Event: "E", Component: waveform.R}, 10, 5)
	require.ErrorIs(t, err, window.ErrInvalidWindow)
	_, err = window.New(waveform.Key{Event: "E", Component: waveform.R}, 0, 5)
	require.ErrorIs(t, err, window.ErrInvalidWindow)

	var buf bytes.Buffer
	tw := window.TimeWindow{Start: 0, End: 1, Key: waveform.Key{Station: "TOOLONGNAME", Event: "E", Component: waveform.Z}}
	require.ErrorIs(t, window.Write(&buf, []window.TimeWindow{tw}), waveform.ErrFieldTooLong)
}
