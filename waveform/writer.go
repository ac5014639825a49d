// SPDX-License-Identifier: MIT

package waveform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// WriterState tracks which record layout a Writer has committed to.
type WriterState uint8

const (
	Uncommitted WriterState = iota
	WritingPlain
	WritingPartial
)

// String returns the state name.
func (s WriterState) String() string {
	switch s {
	case Uncommitted:
		return "uncommitted"
	case WritingPlain:
		return "plain"
	case WritingPartial:
		return "partial"
	}

	return fmt.Sprintf("WriterState(%d)", uint8(s))
}

type stationKey struct{ name, network string }

type bandKey struct{ min, max float32 }

// Writer accumulates records and serialises them as an ID/payload pair.
// The first Add commits the writer to either the plain or the partial
// layout; later records of the other layout are rejected with
// ErrMixedRecordKinds. Payload offsets are assigned by the writer.
// A Writer is safe for concurrent use.
type Writer struct {
	mu       sync.Mutex
	state    WriterState
	records  []Record
	stations []Station
	events   []string
	bands    []Band
	stIdx    map[stationKey]int
	evIdx    map[string]int
	bandIdx  map[bandKey]int
}

// NewWriter returns an empty, uncommitted writer.
func NewWriter() *Writer {
	return &Writer{
		stIdx:   make(map[stationKey]int),
		evIdx:   make(map[string]int),
		bandIdx: make(map[bandKey]int),
	}
}

// State returns the committed layout.
func (w *Writer) State() WriterState {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

// Len returns the number of records added so far.
func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.records)
}

// Add appends r. Field widths and table sizes are checked here so that
// Flush never fails half-way for a record-level reason.
func (w *Writer) Add(r Record) error {
	if r.Len() == 0 {
		return fmt.Errorf("%w: zero value record", ErrInvalidRecord)
	}
	if r.Len() > math.MaxInt32 {
		return fmt.Errorf("%w: %d samples", ErrInvalidRecord, r.Len())
	}
	if err := checkWidths(r.header); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next := WritingPlain
	if r.kind == Partial {
		next = WritingPartial
	}
	if w.state != Uncommitted && w.state != next {
		return fmt.Errorf("%w: %s record into %s writer", ErrMixedRecordKinds, r.kind, w.state)
	}

	sk := stationKey{r.header.Station.Name, r.header.Station.Network}
	bk := bandKey{float32(r.header.Band.Min), float32(r.header.Band.Max)}
	_, haveSt := w.stIdx[sk]
	_, haveEv := w.evIdx[r.header.Event]
	_, haveBand := w.bandIdx[bk]
	switch {
	case !haveSt && len(w.stations) >= maxTableEntries:
		return fmt.Errorf("%w: more than %d stations", ErrTableOverflow, maxTableEntries)
	case !haveEv && len(w.events) >= maxTableEntries:
		return fmt.Errorf("%w: more than %d events", ErrTableOverflow, maxTableEntries)
	case !haveBand && len(w.bands) >= maxBandEntries:
		return fmt.Errorf("%w: more than %d period bands", ErrTableOverflow, maxBandEntries)
	}

	if !haveSt {
		w.stIdx[sk] = len(w.stations)
		w.stations = append(w.stations, r.header.Station)
	}
	if !haveEv {
		w.evIdx[r.header.Event] = len(w.events)
		w.events = append(w.events, r.header.Event)
	}
	if !haveBand {
		w.bandIdx[bk] = len(w.bands)
		w.bands = append(w.bands, r.header.Band)
	}
	w.records = append(w.records, r)
	w.state = next

	return nil
}

// AddAll adds every record, stopping at the first error.
func (w *Writer) AddAll(rs []Record) error {
	for i, r := range rs {
		if err := w.Add(r); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return nil
}

func checkWidths(h Header) error {
	var buf [eventWidth]byte
	if err := putASCII(buf[:stationNameWidth], h.Station.Name); err != nil {
		return fmt.Errorf("station name: %w", err)
	}
	if err := putASCII(buf[:networkWidth], h.Station.Network); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := putASCII(buf[:eventWidth], h.Event); err != nil {
		return fmt.Errorf("event: %w", err)
	}

	return nil
}

// Flush writes the ID stream to idW and the payload stream to payloadW.
// The writer keeps its records, so Flush may be called again.
func (w *Writer) Flush(idW, payloadW io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ib := bufio.NewWriter(idW)
	pb := bufio.NewWriter(payloadW)

	if err := w.writeHeader(ib); err != nil {
		return err
	}

	recSize := PlainRecordBytes
	if w.state == WritingPartial {
		recSize = PartialRecordBytes
	}
	rec := make([]byte, recSize)
	var sample [SampleBytes]byte
	var startByte int64
	for _, r := range w.records {
		w.encodeRecord(rec, r, startByte)
		if _, err := ib.Write(rec); err != nil {
			return fmt.Errorf("waveform: write ID record: %w", err)
		}
		for _, v := range r.samples {
			byteOrder.PutUint64(sample[:], math.Float64bits(v))
			if _, err := pb.Write(sample[:]); err != nil {
				return fmt.Errorf("waveform: write payload: %w", err)
			}
		}
		startByte += int64(len(r.samples)) * SampleBytes
	}

	if err := ib.Flush(); err != nil {
		return fmt.Errorf("waveform: flush ID stream: %w", err)
	}
	if err := pb.Flush(); err != nil {
		return fmt.Errorf("waveform: flush payload stream: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader(ib *bufio.Writer) error {
	hdr := make([]byte, headerCountBytes+
		len(w.stations)*stationEntryBytes+
		len(w.events)*eventEntryBytes+
		len(w.bands)*bandEntryBytes)
	byteOrder.PutUint16(hdr[0:], uint16(len(w.stations)))
	byteOrder.PutUint16(hdr[2:], uint16(len(w.events)))
	byteOrder.PutUint16(hdr[4:], uint16(len(w.bands)))

	// widths were checked on Add
	off := headerCountBytes
	for _, s := range w.stations {
		_ = putASCII(hdr[off:off+stationNameWidth], s.Name)
		_ = putASCII(hdr[off+stationNameWidth:off+stationNameWidth+networkWidth], s.Network)
		putF32(hdr[off+16:], s.Lat)
		putF32(hdr[off+20:], s.Lon)
		off += stationEntryBytes
	}
	for _, e := range w.events {
		_ = putASCII(hdr[off:off+eventEntryBytes], e)
		off += eventEntryBytes
	}
	for _, b := range w.bands {
		putF32(hdr[off:], b.Min)
		putF32(hdr[off+4:], b.Max)
		off += bandEntryBytes
	}

	if _, err := ib.Write(hdr); err != nil {
		return fmt.Errorf("waveform: write ID header: %w", err)
	}

	return nil
}

func (w *Writer) encodeRecord(b []byte, r Record, startByte int64) {
	h := r.header
	b[offKind] = byte(r.kind)
	byteOrder.PutUint16(b[offStation:], uint16(w.stIdx[stationKey{h.Station.Name, h.Station.Network}]))
	byteOrder.PutUint16(b[offEvent:], uint16(w.evIdx[h.Event]))
	b[offComponent] = byte(h.Component)
	b[offBand] = byte(w.bandIdx[bandKey{float32(h.Band.Min), float32(h.Band.Max)}])
	putF32(b[offStart:], h.StartTime)
	byteOrder.PutUint32(b[offNPTS:], uint32(len(r.samples)))
	putF32(b[offSampling:], h.SamplingHz)
	b[offConvolved] = 0
	if h.Convolved {
		b[offConvolved] = 1
	}
	byteOrder.PutUint64(b[offStartByte:], uint64(startByte))
	if r.kind == Partial {
		b[offPartial] = byte(r.partialType)
		putF32(b[offLat:], r.location.Lat)
		putF32(b[offLon:], r.location.Lon)
		putF32(b[offRadius:], r.location.Radius)
	}
}

// FlushFiles creates (or truncates) idPath and payloadPath and flushes into
// them.
func (w *Writer) FlushFiles(idPath, payloadPath string) (err error) {
	idF, err := os.Create(idPath)
	if err != nil {
		return fmt.Errorf("waveform: create ID file: %w", err)
	}
	defer func() { err = errors.Join(err, idF.Close()) }()

	pF, err := os.Create(payloadPath)
	if err != nil {
		return fmt.Errorf("waveform: create payload file: %w", err)
	}
	defer func() { err = errors.Join(err, pF.Close()) }()

	return w.Flush(idF, pF)
}
