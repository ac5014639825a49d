// SPDX-License-Identifier: MIT
package obseq_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/waveform"
	"github.com/katalvlaran/waveinv/window"
	"github.com/stretchr/testify/require"
)

var band = waveform.Band{Min: 20, Max: 200}

func hdr(station string) waveform.Header {
	return waveform.Header{
		Station:    waveform.Station{Name: station, Network: "II"},
		Event:      "E1",
		Component:  waveform.Z,
		Band:       band,
		SamplingHz: 1,
	}
}

func keyOf(h waveform.Header) waveform.Key {
	return waveform.Key{Station: h.Station.Name, Event: h.Event, Component: h.Component}
}

// problem is a synthetic inversion set-up.
type problem struct {
	obs, syn []waveform.Record
	windows  []window.TimeWindow
	partials []waveform.Record
	cat      *parameter.Catalog
	locs     []waveform.Location
}

func (p *problem) dataVector(t *testing.T, policy datavector.Weighting) *datavector.DataVector {
	t.Helper()
	dv, err := datavector.Build(p.obs, p.syn, p.windows, policy)
	require.NoError(t, err)

	return dv
}

// twoByTwo is the 3+4 sample, two-parameter scenario. Partial samples are
// chosen so every entry of A is distinct.
func twoByTwo(t *testing.T) *problem {
	t.Helper()
	h1, h2 := hdr("AAA"), hdr("BBB")
	p := &problem{
		locs: []waveform.Location{{Radius: 6000}, {Radius: 5000}},
	}
	obs1, err := waveform.NewObserved(h1, []float64{1, 2, 3})
	require.NoError(t, err)
	obs2, err := waveform.NewObserved(h2, []float64{1, -1, 1, -1})
	require.NoError(t, err)
	syn1, err := waveform.NewSynthetic(h1, []float64{0, 1, 1})
	require.NoError(t, err)
	syn2, err := waveform.NewSynthetic(h2, []float64{0, 0, 0, 0})
	require.NoError(t, err)
	p.obs = []waveform.Record{obs1, obs2}
	p.syn = []waveform.Record{syn1, syn2}
	for _, h := range []waveform.Header{h1, h2} {
		w, err := window.New(keyOf(h), 0, 10)
		require.NoError(t, err)
		p.windows = append(p.windows, w)
	}

	var params []parameter.Parameter
	for j, loc := range p.locs {
		par, err := parameter.New(waveform.TypePAR2, loc, float64(j+1))
		require.NoError(t, err)
		params = append(params, par)
	}
	p.cat, err = parameter.NewCatalog(params)
	require.NoError(t, err)

	add := func(h waveform.Header, loc waveform.Location, s ...float64) {
		r, err := waveform.NewPartial(h, waveform.TypePAR2, loc, s)
		require.NoError(t, err)
		p.partials = append(p.partials, r)
	}
	add(h1, p.locs[0], 1, 2, 3)
	add(h1, p.locs[1], 4, 5, 6)
	add(h2, p.locs[0], 7, 8, 9, 10)
	add(h2, p.locs[1], 11, 12, 13, 14)

	return p
}

// randomProblem builds w windows of random length, m 3-D parameters and a
// full set of random partials, in shuffled order.
func randomProblem(t *testing.T, w, m int, seed int64) *problem {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	p := &problem{}
	var params []parameter.Parameter
	for j := 0; j < m; j++ {
		loc := waveform.Location{Lat: float64(j), Lon: float64(-j), Radius: 6000 - float64(10*j)}
		p.locs = append(p.locs, loc)
		par, err := parameter.New(waveform.TypeMU, loc, 1+rng.Float64())
		require.NoError(t, err)
		params = append(params, par)
	}
	var err error
	p.cat, err = parameter.NewCatalog(params)
	require.NoError(t, err)

	randSamples := func(n int) []float64 {
		s := make([]float64, n)
		for i := range s {
			s[i] = rng.NormFloat64()
		}

		return s
	}
	for i := 0; i < w; i++ {
		h := hdr(fmt.Sprintf("S%03d", i))
		n := 5 + rng.Intn(20)
		o, err := waveform.NewObserved(h, randSamples(n))
		require.NoError(t, err)
		s, err := waveform.NewSynthetic(h, randSamples(n))
		require.NoError(t, err)
		win, err := window.New(keyOf(h), 0, float64(n))
		require.NoError(t, err)
		p.obs, p.syn, p.windows = append(p.obs, o), append(p.syn, s), append(p.windows, win)
		for j := 0; j < m; j++ {
			r, err := waveform.NewPartial(h, waveform.TypeMU, p.locs[j], randSamples(n))
			require.NoError(t, err)
			p.partials = append(p.partials, r)
		}
	}
	rng.Shuffle(len(p.partials), func(i, j int) { p.partials[i], p.partials[j] = p.partials[j], p.partials[i] })

	return p
}
