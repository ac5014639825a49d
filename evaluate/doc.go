// SPDX-License-Identifier: MIT

// Package evaluate scores candidate models against an assembled observation
// equation: variance, AIC, Born waveforms and per-event / per-station
// variance.
//
// Group variances aggregate the residual and observed energy of all windows
// in a group before taking the ratio; they are not means of per-window
// ratios. All quantities live in the weighted data space of the equation,
// except Born waveforms, which are returned in raw amplitude.
package evaluate
