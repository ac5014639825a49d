// SPDX-License-Identifier: MIT

package window

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/waveinv/waveform"
)

// RecordBytes is the size of one timewindow file record.
const RecordBytes = 32

const (
	stationWidth = 8
	eventWidth   = 15
	offComponent = stationWidth + eventWidth
	offStart     = offComponent + 1
	offEnd       = offStart + 4
)

// Read decodes every window in r.
func Read(r io.Reader) ([]TimeWindow, error) {
	return read(r, "")
}

func read(r io.Reader, path string) ([]TimeWindow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("window: read: %w", err)
	}
	if len(data)%RecordBytes != 0 {
		return nil, &waveform.CorruptFileError{
			Path:     path,
			Reason:   fmt.Sprintf("size is not a multiple of %d", RecordBytes),
			Expected: int64(len(data) / RecordBytes * RecordBytes),
			Actual:   int64(len(data)),
		}
	}

	out := make([]TimeWindow, 0, len(data)/RecordBytes)
	for off := 0; off < len(data); off += RecordBytes {
		b := data[off : off+RecordBytes]
		w := TimeWindow{
			Key: waveform.Key{
				Station:   waveform.GetASCII(b[:stationWidth]),
				Event:     waveform.GetASCII(b[stationWidth:offComponent]),
				Component: waveform.Component(b[offComponent]),
			},
			Start: waveform.GetFloat32(b[offStart:]),
			End:   waveform.GetFloat32(b[offEnd:]),
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("window: record %d: %w", off/RecordBytes, err)
		}
		out = append(out, w)
	}

	return out, nil
}

// ReadFile reads a timewindow file.
func ReadFile(path string) ([]TimeWindow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("window: open: %w", err)
	}
	defer f.Close()

	return read(f, path)
}

// Write encodes windows in order. Start and End are stored as float32.
func Write(w io.Writer, windows []TimeWindow) error {
	bw := bufio.NewWriter(w)
	var b [RecordBytes]byte
	for i, tw := range windows {
		if err := tw.Validate(); err != nil {
			return fmt.Errorf("window: record %d: %w", i, err)
		}
		if err := waveform.PutASCII(b[:stationWidth], tw.Station); err != nil {
			return fmt.Errorf("window: record %d station: %w", i, err)
		}
		if err := waveform.PutASCII(b[stationWidth:offComponent], tw.Event); err != nil {
			return fmt.Errorf("window: record %d event: %w", i, err)
		}
		b[offComponent] = byte(tw.Component)
		waveform.PutFloat32(b[offStart:], tw.Start)
		waveform.PutFloat32(b[offEnd:], tw.End)
		if _, err := bw.Write(b[:]); err != nil {
			return fmt.Errorf("window: write: %w", err)
		}
	}

	return bw.Flush()
}

// WriteFile creates (or truncates) path and writes windows into it.
func WriteFile(path string, windows []TimeWindow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("window: create: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	return Write(f, windows)
}
