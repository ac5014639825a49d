// SPDX-License-Identifier: MIT

package parameter

import (
	"fmt"
	"math"

	"github.com/katalvlaran/waveinv/waveform"
)

// Key is the identity of a parameter: its type and location rounded to
// float32. Lat and Lon are zero for 1-D parameters.
type Key struct {
	Type   waveform.PartialType
	Lat    float32
	Lon    float32
	Radius float32
}

// String formats the key as type and radius, or type and point.
func (k Key) String() string {
	if k.Type.Is1D() {
		return fmt.Sprintf("%s r=%g", k.Type, k.Radius)
	}

	return fmt.Sprintf("%s (%g, %g, %g)", k.Type, k.Lat, k.Lon, k.Radius)
}

// KeyOf returns the key a partial derivative of type typ at loc resolves to.
func KeyOf(typ waveform.PartialType, loc waveform.Location) Key {
	if typ.Is1D() {
		return Key{Type: typ, Radius: float32(loc.Radius)}
	}

	return Key{Type: typ, Lat: float32(loc.Lat), Lon: float32(loc.Lon), Radius: float32(loc.Radius)}
}

// Parameter is one unknown of the inversion. The set of implementations is
// closed: Elastic1D and Elastic3D.
type Parameter interface {
	Type() waveform.PartialType
	Location() waveform.Location
	// Weighting scales the parameter's column in the design matrix.
	Weighting() float64
	Key() Key
	// Matches reports whether a partial derivative perturbed at loc belongs
	// to this parameter.
	Matches(loc waveform.Location) bool
	String() string

	sealed()
}

// Elastic1D is a radial parameter on the shell at Radius km.
type Elastic1D struct {
	typ       waveform.PartialType
	radius    float64
	weighting float64
}

// Type returns the 1-D parameter type.
func (p Elastic1D) Type() waveform.PartialType { return p.typ }

// Location returns a location holding only the radius.
func (p Elastic1D) Location() waveform.Location { return waveform.Location{Radius: p.radius} }

// Weighting returns the column scale.
func (p Elastic1D) Weighting() float64 { return p.weighting }

// Key returns the type and radius at float32 precision.
func (p Elastic1D) Key() Key { return KeyOf(p.typ, p.Location()) }

// Radius returns the shell radius in km.
func (p Elastic1D) Radius() float64 { return p.radius }

// Matches reports whether l lies on the shell; latitude and longitude are
// ignored.
func (p Elastic1D) Matches(l waveform.Location) bool { return p.Location().RadiusEqual(l) }

// String formats the parameter as a catalog line.
func (p Elastic1D) String() string {
	return fmt.Sprintf("%s %g %g", p.typ, p.radius, p.weighting)
}

func (Elastic1D) sealed() {}

// Elastic3D is a parameter at a point of the 3-D model.
type Elastic3D struct {
	typ       waveform.PartialType
	loc       waveform.Location
	weighting float64
}

// Type returns the 3-D parameter type.
func (p Elastic3D) Type() waveform.PartialType { return p.typ }

// Location returns the model point.
func (p Elastic3D) Location() waveform.Location { return p.loc }

// Weighting returns the column scale.
func (p Elastic3D) Weighting() float64 { return p.weighting }

// Key returns the type and point at float32 precision.
func (p Elastic3D) Key() Key { return KeyOf(p.typ, p.loc) }

// Matches reports whether l is the model point at float32 precision.
func (p Elastic3D) Matches(l waveform.Location) bool { return p.loc.Equal(l) }

// String formats the parameter as a catalog line.
func (p Elastic3D) String() string {
	return fmt.Sprintf("%s %g %g %g %g", p.typ, p.loc.Lat, p.loc.Lon, p.loc.Radius, p.weighting)
}

func (Elastic3D) sealed() {}

// New returns an Elastic1D for 1-D types and an Elastic3D otherwise.
func New(typ waveform.PartialType, loc waveform.Location, weighting float64) (Parameter, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: %d", waveform.ErrUnknownPartialType, uint8(typ))
	}
	if math.IsNaN(weighting) || math.IsInf(weighting, 0) {
		return nil, fmt.Errorf("%w: %g", ErrBadWeighting, weighting)
	}
	if typ.Is1D() {
		return Elastic1D{typ: typ, radius: loc.Radius, weighting: weighting}, nil
	}

	return Elastic3D{typ: typ, loc: loc, weighting: weighting}, nil
}
