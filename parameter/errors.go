// SPDX-License-Identifier: MIT

package parameter

import "errors"

var (
	// ErrEmptyCatalog is returned when a catalog would hold no parameters.
	ErrEmptyCatalog = errors.New("parameter: empty catalog")

	// ErrSyntax indicates a malformed catalog line.
	ErrSyntax = errors.New("parameter: syntax error")

	// ErrBadWeighting indicates a non-finite weighting.
	ErrBadWeighting = errors.New("parameter: invalid weighting")

	// ErrNilParameter indicates a nil entry passed to NewCatalog.
	ErrNilParameter = errors.New("parameter: nil parameter")
)
