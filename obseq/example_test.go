// SPDX-License-Identifier: MIT
package obseq_test

import (
	"fmt"

	"github.com/katalvlaran/waveinv/datavector"
	"github.com/katalvlaran/waveinv/obseq"
	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/waveform"
	"github.com/katalvlaran/waveinv/window"
)

func ExampleAssemble() {
	h := waveform.Header{Station: waveform.Station{Name: "AAA"}, Event: "E1", Component: waveform.Z, SamplingHz: 1}
	loc := waveform.Location{Radius: 6000}

	o, _ := waveform.NewObserved(h, []float64{2, 2})
	s, _ := waveform.NewSynthetic(h, []float64{1, 0})
	w, _ := window.New(waveform.Key{Station: "AAA", Event: "E1", Component: waveform.Z}, 0, 2)
	dv, _ := datavector.Build([]waveform.Record{o}, []waveform.Record{s}, []window.TimeWindow{w}, nil)

	par, _ := parameter.New(waveform.TypePAR2, loc, 1)
	cat, _ := parameter.NewCatalog([]parameter.Parameter{par})
	dpar, _ := waveform.NewPartial(h, waveform.TypePAR2, loc, []float64{1, 2})

	eq, _ := obseq.Assemble([]waveform.Record{dpar}, cat, dv)
	v0, _ := eq.VarianceOf([]float64{0})
	v1, _ := eq.VarianceOf([]float64{1})
	fmt.Println(eq.Atd(), v0, v1)
	// Output: [5] 0.625 0
}
