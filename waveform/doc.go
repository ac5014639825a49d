// Package waveform models observed, synthetic and partial-derivative
// waveform segments and reads/writes them as waveform-ID + payload file pairs.
//
// Records are immutable values: every accessor returns a copy of slice data,
// and WithSamples returns a new Record instead of mutating the receiver.
//
// File layout (big-endian, bit-exact):
//
//	ID file   := header table* record*
//	header    := nStations u16 | nEvents u16 | nBands u16
//	station   := name [8]byte | network [8]byte | lat f32 | lon f32
//	event     := id [15]byte
//	band      := min f32 | max f32
//	record    := kind u8 | station u16 | event u16 | component u8 | band u8 |
//	             start f32 | npts i32 | samplingHz f32 | convolved u8 | startByte i64
//	partial   := record | partialType u8 | lat f32 | lon f32 | radius f32
//
//	payload   := f64 samples of every record, in record order, at startByte.
//
// A Writer holds either plain (observed/synthetic) records or partial records,
// never both; the first Add decides. Readers treat size inconsistencies as a
// CorruptFileError.
package waveform
