// SPDX-License-Identifier: MIT

// Package waveinv is the linear core of a seismic waveform inversion for
// Earth structure.
//
// The module is organised as flat packages, one concern each:
//
//	waveform/   observed, synthetic and partial-derivative records; ID + payload files
//	parameter/  the catalog of unknown parameters (1-D and 3-D)
//	window/     time windows and the timewindow file
//	matrix/     dense and column-major kernels (AᵀA, A·v, Aᵀ·v)
//	datavector/ weighted concatenation of windowed residuals
//	obseq/      the observation equation A·m = d and its normal equations
//	solver/     truncated SVD and conjugate-gradient model families
//	evaluate/   variance, AIC, group variances, Born waveforms
//	inversion/  one run: YAML config, load, assemble, solve, report
//
// The waveinv command in cmd/waveinv drives a run from a YAML file.
package waveinv
