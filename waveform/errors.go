// SPDX-License-Identifier: MIT

package waveform

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord indicates a record that violates the value invariants
	// (empty samples, bad sampling rate, inverted period band, ...).
	ErrInvalidRecord = errors.New("waveform: invalid record")

	// ErrUnknownComponent indicates a component code or name outside Z/R/T.
	ErrUnknownComponent = errors.New("waveform: unknown component")

	// ErrUnknownPartialType indicates an unrecognised partial-derivative type.
	ErrUnknownPartialType = errors.New("waveform: unknown partial type")

	// ErrCorruptFile is matched by every *CorruptFileError.
	ErrCorruptFile = errors.New("waveform: corrupt file")

	// ErrMixedRecordKinds is returned when a Writer that already holds plain
	// records receives a partial record, or vice versa.
	ErrMixedRecordKinds = errors.New("waveform: writer cannot mix plain and partial records")

	// ErrTableOverflow is returned when a header table outgrows its on-disk index width.
	ErrTableOverflow = errors.New("waveform: header table overflow")

	// ErrFieldTooLong is returned when a fixed-width ASCII field would be truncated.
	ErrFieldTooLong = errors.New("waveform: field exceeds fixed width")
)

// CorruptFileError reports an ID/payload pair whose sizes or contents are
// inconsistent. Expected and Actual are byte counts; both are zero when the
// defect is not a size mismatch.
type CorruptFileError struct {
	Path     string
	Reason   string
	Expected int64
	Actual   int64
}

func (e *CorruptFileError) Error() string {
	path := e.Path
	if path == "" {
		path = "<stream>"
	}

	if e.Expected == 0 && e.Actual == 0 {
		return fmt.Sprintf("waveform: corrupt file %s: %s", path, e.Reason)
	}

	return fmt.Sprintf("waveform: corrupt file %s: %s (expected %d bytes, got %d)",
		path, e.Reason, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrCorruptFile) hold.
func (e *CorruptFileError) Is(target error) bool { return target == ErrCorruptFile }
