// SPDX-License-Identifier: MIT

package window

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/waveinv/waveform"
)

// ErrInvalidWindow is returned for a window with end before start or an
// incomplete key.
var ErrInvalidWindow = errors.New("window: invalid time window")

// TimeWindow is a bounded interval, in seconds after the event origin, over
// which one observed and one synthetic record are compared.
type TimeWindow struct {
	Start float64
	End   float64
	waveform.Key
}

// New validates and returns a window.
func New(key waveform.Key, start, end float64) (TimeWindow, error) {
	w := TimeWindow{Start: start, End: end, Key: key}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}

	return w, nil
}

// Validate checks the key and the interval.
func (w TimeWindow) Validate() error {
	switch {
	case w.Station == "" || w.Event == "":
		return fmt.Errorf("%w: incomplete key %s", ErrInvalidWindow, w.Key)
	case !w.Component.Valid():
		return fmt.Errorf("%w: %w", ErrInvalidWindow, waveform.ErrUnknownComponent)
	case !(w.End >= w.Start):
		return fmt.Errorf("%w: %s ends at %g before start %g", ErrInvalidWindow, w.Key, w.End, w.Start)
	}

	return nil
}

// Duration returns End - Start.
func (w TimeWindow) Duration() float64 { return w.End - w.Start }

// String formats the key and the time span.
func (w TimeWindow) String() string {
	return fmt.Sprintf("%s [%g, %g]", w.Key, w.Start, w.End)
}
