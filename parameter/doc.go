// SPDX-License-Identifier: MIT

// Package parameter defines the unknown model parameters of an inversion and
// the ordered catalog that fixes the column order of the design matrix.
//
// A Parameter is a closed tagged variant: Elastic1D is perturbed on a
// spherical shell and matches partial derivatives by radius; Elastic3D is
// perturbed at a point and matches by latitude, longitude and radius. Both
// compare at float32 precision, the precision locations are stored with in
// partial ID files.
//
// Catalog text format, one parameter per line, '#' starts a comment:
//
//	PAR2   6271.0            1.0
//	MU     12.5 -33.0 5961.0 1.0
//
// i.e. "<type> <radius> <weighting>" for 1-D types and
// "<type> <lat> <lon> <radius> <weighting>" for 3-D types.
package parameter
