// SPDX-License-Identifier: MIT

package datavector

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/waveinv/window"
)

var (
	// ErrPairing is matched by every *PairingError.
	ErrPairing = errors.New("datavector: pairing failed")

	// ErrBadWeight indicates a weighting policy returned a negative or
	// non-finite weight.
	ErrBadWeight = errors.New("datavector: invalid window weight")

	// ErrNoWindows is returned when no window survives pairing.
	ErrNoWindows = errors.New("datavector: no time windows")
)

// PairingError reports a window without exactly one compatible observed and
// synthetic record. It is recoverable: WithSkipUnpaired drops the window
// instead of failing.
type PairingError struct {
	Window window.TimeWindow
	Reason string
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("datavector: window %s: %s", e.Window, e.Reason)
}

// Is makes errors.Is(err, ErrPairing) hold.
func (e *PairingError) Is(target error) bool { return target == ErrPairing }
