// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"strings"
)

// Kind distinguishes the three record flavours. The numeric value is the
// on-disk kind byte.
type Kind uint8

const (
	Synthetic Kind = iota // 0
	Observed              // 1
	Partial               // 2
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Synthetic:
		return "synthetic"
	case Observed:
		return "observed"
	case Partial:
		return "partial"
	}

	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Component is the seismogram component; the value is the on-disk code.
type Component uint8

const (
	Z Component = 1 // vertical
	R Component = 2 // radial
	T Component = 3 // transverse
)

// String returns the one-letter component code.
func (c Component) String() string {
	switch c {
	case Z:
		return "Z"
	case R:
		return "R"
	case T:
		return "T"
	}

	return fmt.Sprintf("Component(%d)", uint8(c))
}

// Valid reports whether c is one of Z, R, T.
func (c Component) Valid() bool { return c >= Z && c <= T }

// ParseComponent accepts "Z", "R", "T" (case-insensitive).
func ParseComponent(s string) (Component, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Z":
		return Z, nil
	case "R":
		return R, nil
	case "T":
		return T, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, s)
}

// Location is a point in the Earth model: geographic latitude/longitude in
// degrees and radius in km. 1-D perturbations use Radius only.
type Location struct {
	Lat    float64
	Lon    float64
	Radius float64
}

// Equal compares two locations at float32 precision, the precision they
// are stored with in ID files.
func (l Location) Equal(o Location) bool {
	return float32(l.Lat) == float32(o.Lat) &&
		float32(l.Lon) == float32(o.Lon) &&
		float32(l.Radius) == float32(o.Radius)
}

// RadiusEqual compares radii at float32 precision.
func (l Location) RadiusEqual(o Location) bool {
	return float32(l.Radius) == float32(o.Radius)
}

// String formats the location as (lat, lon, r).
func (l Location) String() string {
	return fmt.Sprintf("(%g, %g, %g)", l.Lat, l.Lon, l.Radius)
}

// Station identifies a receiver. Keys use Name only.
type Station struct {
	Name    string
	Network string
	Lat     float64
	Lon     float64
}

// Band is a period band in seconds.
type Band struct {
	Min float64
	Max float64
}

// Equal compares two bands at float32 precision.
func (b Band) Equal(o Band) bool {
	return float32(b.Min) == float32(o.Min) && float32(b.Max) == float32(o.Max)
}

// String formats the band in seconds.
func (b Band) String() string { return fmt.Sprintf("%g-%g s", b.Min, b.Max) }

// Key identifies the (station, event, component) triple shared by a time
// window and the records that belong to it.
type Key struct {
	Station   string
	Event     string
	Component Component
}

// String joins station, event and component with dots.
func (k Key) String() string {
	return k.Station + "." + k.Event + "." + k.Component.String()
}
