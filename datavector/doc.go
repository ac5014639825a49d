// SPDX-License-Identifier: MIT

// Package datavector pairs observed and synthetic records per time window,
// weights each window, and concatenates the windows into the data vector d
// whose row order fixes the row order of the design matrix.
//
// Weights are stored per window, not baked into the stored records, so raw
// amplitudes stay recoverable: ResidualVector, ObservedVector and
// SyntheticVector return weighted data, Observed and Synthetic return the
// raw records.
package datavector
