// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"io"
	"math"
	"os"
)

// ReadFiles reads an ID file and its payload file.
func ReadFiles(idPath, payloadPath string) ([]Record, error) {
	id, err := os.ReadFile(idPath)
	if err != nil {
		return nil, fmt.Errorf("waveform: read ID file: %w", err)
	}
	payload, err := os.ReadFile(payloadPath)
	if err != nil {
		return nil, fmt.Errorf("waveform: read payload file: %w", err)
	}

	return decode(id, payload, idPath, payloadPath)
}

// Read reads an ID stream and its payload stream. Both are consumed fully.
func Read(idR, payloadR io.Reader) ([]Record, error) {
	id, err := io.ReadAll(idR)
	if err != nil {
		return nil, fmt.Errorf("waveform: read ID stream: %w", err)
	}
	payload, err := io.ReadAll(payloadR)
	if err != nil {
		return nil, fmt.Errorf("waveform: read payload stream: %w", err)
	}

	return decode(id, payload, "", "")
}

func corrupt(path, reason string, expected, actual int) error {
	return &CorruptFileError{Path: path, Reason: reason, Expected: int64(expected), Actual: int64(actual)}
}

// tables holds the decoded header look-up tables.
type tables struct {
	stations []Station
	events   []string
	bands    []Band
}

func decodeTables(id []byte, idPath string) (tables, int, error) {
	if len(id) < headerCountBytes {
		return tables{}, 0, corrupt(idPath, "truncated header", headerCountBytes, len(id))
	}
	ns := int(byteOrder.Uint16(id[0:]))
	ne := int(byteOrder.Uint16(id[2:]))
	nb := int(byteOrder.Uint16(id[4:]))
	headerLen := headerCountBytes + ns*stationEntryBytes + ne*eventEntryBytes + nb*bandEntryBytes
	if len(id) < headerLen {
		return tables{}, 0, corrupt(idPath, "truncated header tables", headerLen, len(id))
	}

	t := tables{
		stations: make([]Station, ns),
		events:   make([]string, ne),
		bands:    make([]Band, nb),
	}
	off := headerCountBytes
	for i := range t.stations {
		b := id[off : off+stationEntryBytes]
		t.stations[i] = Station{
			Name:    getASCII(b[0:stationNameWidth]),
			Network: getASCII(b[stationNameWidth : stationNameWidth+networkWidth]),
			Lat:     getF32(b[16:]),
			Lon:     getF32(b[20:]),
		}
		off += stationEntryBytes
	}
	for i := range t.events {
		t.events[i] = getASCII(id[off : off+eventEntryBytes])
		off += eventEntryBytes
	}
	for i := range t.bands {
		t.bands[i] = Band{Min: getF32(id[off:]), Max: getF32(id[off+4:])}
		off += bandEntryBytes
	}

	return t, headerLen, nil
}

func decode(id, payload []byte, idPath, payloadPath string) ([]Record, error) {
	t, headerLen, err := decodeTables(id, idPath)
	if err != nil {
		return nil, err
	}
	body := id[headerLen:]
	if len(body) == 0 {
		if len(payload) != 0 {
			return nil, corrupt(payloadPath, "payload without records", 0, len(payload))
		}

		return nil, nil
	}

	partial := Kind(body[offKind]) == Partial
	recSize := PlainRecordBytes
	if partial {
		recSize = PartialRecordBytes
	}
	if len(body)%recSize != 0 {
		return nil, corrupt(idPath, fmt.Sprintf("record area is not a multiple of %d", recSize),
			headerLen+(len(body)/recSize)*recSize, len(id))
	}

	n := len(body) / recSize
	records := make([]Record, 0, n)
	var end int64
	size := int64(len(payload))
	for k := 0; k < n; k++ {
		at := headerLen + k*recSize
		b := body[k*recSize : (k+1)*recSize]
		kind := Kind(b[offKind])
		if kind > Partial || (kind == Partial) != partial {
			return nil, corrupt(idPath, fmt.Sprintf("record %d at byte %d: mixed record kinds", k, at), 0, 0)
		}
		si, ei, bi := int(byteOrder.Uint16(b[offStation:])), int(byteOrder.Uint16(b[offEvent:])), int(b[offBand])
		if si >= len(t.stations) || ei >= len(t.events) || bi >= len(t.bands) {
			return nil, corrupt(idPath, fmt.Sprintf("record %d at byte %d: table index out of range", k, at), 0, 0)
		}
		npts := int64(int32(byteOrder.Uint32(b[offNPTS:])))
		startByte := int64(byteOrder.Uint64(b[offStartByte:]))
		if npts <= 0 || startByte < 0 || startByte > size || npts > (size-startByte)/SampleBytes {
			return nil, rangeError(payloadPath, k, startByte, npts, size)
		}
		end = startByte + npts*SampleBytes

		samples := make([]float64, npts)
		for i := range samples {
			samples[i] = math.Float64frombits(byteOrder.Uint64(payload[startByte+int64(i)*SampleBytes:]))
		}
		h := Header{
			Station:    t.stations[si],
			Event:      t.events[ei],
			Component:  Component(b[offComponent]),
			Band:       t.bands[bi],
			StartTime:  getF32(b[offStart:]),
			SamplingHz: getF32(b[offSampling:]),
			Convolved:  b[offConvolved] != 0,
		}

		var r Record
		switch kind {
		case Partial:
			loc := Location{Lat: getF32(b[offLat:]), Lon: getF32(b[offLon:]), Radius: getF32(b[offRadius:])}
			r, err = NewPartial(h, PartialType(b[offPartial]), loc, samples)
		case Observed:
			r, err = NewObserved(h, samples)
		default:
			r, err = NewSynthetic(h, samples)
		}
		if err != nil {
			return nil, fmt.Errorf("waveform: record %d of %s: %w", k, idPath, err)
		}
		records = append(records, r)
	}

	if end != int64(len(payload)) {
		return nil, &CorruptFileError{Path: payloadPath, Reason: "payload size does not match ID file",
			Expected: end, Actual: int64(len(payload))}
	}

	return records, nil
}

// rangeError reports record k whose samples do not lie inside the payload.
// The byte counts are set only when the record's end offset is
// representable.
func rangeError(path string, k int, startByte, npts, size int64) error {
	e := &CorruptFileError{Path: path,
		Reason: fmt.Sprintf("record %d: %d samples at byte %d exceed payload", k, npts, startByte)}
	if npts > 0 && startByte >= 0 && npts <= (math.MaxInt64-startByte)/SampleBytes {
		e.Expected, e.Actual = startByte+npts*SampleBytes, size
	}

	return e
}
