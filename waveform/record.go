// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"math"
)

// Header carries the scalar metadata shared by every record flavour.
type Header struct {
	Station    Station
	Event      string
	Component  Component
	Band       Band
	StartTime  float64 // seconds after the event origin
	SamplingHz float64
	Convolved  bool // source-time function applied
}

// Record is one immutable waveform segment. The zero value is not valid;
// use NewObserved, NewSynthetic or NewPartial. Header and location floats
// are held at float32 precision, so a record reads back from disk
// unchanged.
type Record struct {
	kind        Kind
	header      Header
	samples     []float64
	partialType PartialType // Partial only
	location    Location    // Partial only
}

// NewObserved returns an observed record holding a copy of samples.
func NewObserved(h Header, samples []float64) (Record, error) {
	return newRecord(Observed, h, 0, Location{}, samples)
}

// NewSynthetic returns a synthetic record holding a copy of samples.
func NewSynthetic(h Header, samples []float64) (Record, error) {
	return newRecord(Synthetic, h, 0, Location{}, samples)
}

// NewPartial returns a partial-derivative record for parameter type typ
// perturbed at loc.
func NewPartial(h Header, typ PartialType, loc Location, samples []float64) (Record, error) {
	if !typ.Valid() {
		return Record{}, fmt.Errorf("%w: %d", ErrUnknownPartialType, uint8(typ))
	}

	return newRecord(Partial, h, typ, loc, samples)
}

func newRecord(kind Kind, h Header, typ PartialType, loc Location, samples []float64) (Record, error) {
	h, loc = h.stored(), loc.stored()
	if err := validateHeader(h); err != nil {
		return Record{}, err
	}
	if len(samples) == 0 {
		return Record{}, fmt.Errorf("%w: no samples", ErrInvalidRecord)
	}
	cp := make([]float64, len(samples))
	copy(cp, samples)

	return Record{kind: kind, header: h, samples: cp, partialType: typ, location: loc}, nil
}

// stored rounds every float field to the float32 precision of the ID file.
func (h Header) stored() Header {
	h.Station.Lat, h.Station.Lon = round32(h.Station.Lat), round32(h.Station.Lon)
	h.Band = Band{Min: round32(h.Band.Min), Max: round32(h.Band.Max)}
	h.StartTime = round32(h.StartTime)
	h.SamplingHz = round32(h.SamplingHz)

	return h
}

func (l Location) stored() Location {
	return Location{Lat: round32(l.Lat), Lon: round32(l.Lon), Radius: round32(l.Radius)}
}

func validateHeader(h Header) error {
	switch {
	case h.Station.Name == "":
		return fmt.Errorf("%w: empty station name", ErrInvalidRecord)
	case h.Event == "":
		return fmt.Errorf("%w: empty event id", ErrInvalidRecord)
	case !h.Component.Valid():
		return fmt.Errorf("%w: %d", ErrUnknownComponent, uint8(h.Component))
	case !(h.SamplingHz > 0) || math.IsInf(h.SamplingHz, 0):
		return fmt.Errorf("%w: sampling rate %g", ErrInvalidRecord, h.SamplingHz)
	case h.Band.Min > h.Band.Max:
		return fmt.Errorf("%w: period band %v", ErrInvalidRecord, h.Band)
	}

	return nil
}

// Kind reports the record flavour.
func (r Record) Kind() Kind { return r.kind }

// Header returns the scalar metadata.
func (r Record) Header() Header { return r.header }

// Station returns the receiver.
func (r Record) Station() Station { return r.header.Station }

// Event returns the event id.
func (r Record) Event() string { return r.header.Event }

// Component returns the seismogram component.
func (r Record) Component() Component { return r.header.Component }

// Band returns the period band.
func (r Record) Band() Band { return r.header.Band }

// StartTime returns the start of the segment in seconds.
func (r Record) StartTime() float64 { return r.header.StartTime }

// SamplingHz returns the sampling rate.
func (r Record) SamplingHz() float64 { return r.header.SamplingHz }

// Convolved reports whether a source-time function has been applied.
func (r Record) Convolved() bool { return r.header.Convolved }

// Len returns the sample count.
func (r Record) Len() int { return len(r.samples) }

// PartialType returns the parameter type of a partial record (0 otherwise).
func (r Record) PartialType() PartialType { return r.partialType }

// Location returns the perturbation location of a partial record.
func (r Record) Location() Location { return r.location }

// Key returns the (station, event, component) identity.
func (r Record) Key() Key {
	return Key{Station: r.header.Station.Name, Event: r.header.Event, Component: r.header.Component}
}

// Samples returns a copy of the samples.
func (r Record) Samples() []float64 {
	out := make([]float64, len(r.samples))
	copy(out, r.samples)

	return out
}

// ScaleInto writes scale*samples into dst and returns the number written,
// min(len(dst), Len()). It lets callers fill preallocated buffers without
// an intermediate copy.
func (r Record) ScaleInto(dst []float64, scale float64) int {
	n := min(len(dst), len(r.samples))
	for i := 0; i < n; i++ {
		dst[i] = scale * r.samples[i]
	}

	return n
}

// MaxAbs returns max |sample|.
func (r Record) MaxAbs() float64 {
	m := 0.0
	for _, v := range r.samples {
		if a := math.Abs(v); a > m {
			m = a
		}
	}

	return m
}

// WithSamples returns a copy of r holding a copy of samples.
func (r Record) WithSamples(samples []float64) (Record, error) {
	return newRecord(r.kind, r.header, r.partialType, r.location, samples)
}

// String summarises the record for logs.
func (r Record) String() string {
	if r.kind == Partial {
		return fmt.Sprintf("%s %s %v %s@%v npts=%d", r.kind, r.Key(), r.header.Band, r.partialType, r.location, len(r.samples))
	}

	return fmt.Sprintf("%s %s %v npts=%d", r.kind, r.Key(), r.header.Band, len(r.samples))
}
