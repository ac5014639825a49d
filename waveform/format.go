// SPDX-License-Identifier: MIT

package waveform

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// On-disk sizes in bytes.
const (
	headerCountBytes   = 6
	stationEntryBytes  = 24
	eventEntryBytes    = 15
	bandEntryBytes     = 8
	PlainRecordBytes   = 28
	PartialRecordBytes = 41
	SampleBytes        = 8

	stationNameWidth = 8
	networkWidth     = 8
	eventWidth       = 15

	maxTableEntries = math.MaxUint16
	maxBandEntries  = math.MaxUint8 + 1
)

// record field offsets
const (
	offKind      = 0
	offStation   = 1
	offEvent     = 3
	offComponent = 5
	offBand      = 6
	offStart     = 7
	offNPTS      = 11
	offSampling  = 15
	offConvolved = 19
	offStartByte = 20
	offPartial   = 28
	offLat       = 29
	offLon       = 33
	offRadius    = 37
)

var byteOrder = binary.BigEndian

func getF32(b []byte) float64 {
	return float64(math.Float32frombits(byteOrder.Uint32(b)))
}

func round32(v float64) float64 { return float64(float32(v)) }

func putF32(b []byte, v float64) {
	byteOrder.PutUint32(b, math.Float32bits(float32(v)))
}

// getASCII decodes a fixed-width, space (or NUL) padded field.
func getASCII(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// putASCII writes s left-aligned and space padded into b.
func putASCII(b []byte, s string) error {
	if len(s) > len(b) {
		return fmt.Errorf("%w: %q (max %d)", ErrFieldTooLong, s, len(b))
	}
	n := copy(b, s)
	for i := n; i < len(b); i++ {
		b[i] = ' '
	}

	return nil
}

// GetASCII and PutASCII expose the fixed-width string codec to sibling
// file formats (time windows) that share the legacy layout.
func GetASCII(b []byte) string { return getASCII(b) }

// PutASCII writes s into b, space padded; ErrFieldTooLong if it does not fit.
func PutASCII(b []byte, s string) error { return putASCII(b, s) }

// GetFloat32 decodes a big-endian IEEE-754 single into a float64.
func GetFloat32(b []byte) float64 { return getF32(b) }

// PutFloat32 encodes v as a big-endian IEEE-754 single.
func PutFloat32(b []byte, v float64) { putF32(b, v) }
