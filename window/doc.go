// SPDX-License-Identifier: MIT

// Package window defines the time windows that pair observed and synthetic
// records and reads/writes the legacy fixed-layout timewindow file.
//
// Each file record is 32 bytes, big-endian:
//
//	station [8]byte | event [15]byte | component u8 | start f32 | end f32
//
// There is no header; the record count is the file size divided by 32.
package window
