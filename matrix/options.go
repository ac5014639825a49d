// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for the kernel Engine and the
// numeric policy. This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "runtime"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the tolerance callers pass to ValidateSymmetric for
	// normal-equation matrices.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation on Dense.Set.
	DefaultValidateNaNInf = true

	// DefaultWorkers selects runtime.GOMAXPROCS(0) workers when left at zero.
	DefaultWorkers = 0

	// DefaultBlocksPerWorker controls how finely output ranges are split.
	// More blocks than workers evens out uneven rows of the AᵀA triangle.
	DefaultBlocksPerWorker = 4
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicWorkersInvalid = "matrix: WithWorkers: n must be >= 1"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	workers int // >= 1 after finalizeOptions
}

// WithWorkers bounds the number of goroutines a kernel may run at once.
// Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// gatherOptions applies user setters on top of defaults (last-writer-wins)
// and finalizes derived values.
func gatherOptions(user ...Option) Options {
	o := Options{
		workers: DefaultWorkers,
	}
	for _, set := range user {
		set(&o)
	}
	finalizeOptions(&o)

	return o
}

// finalizeOptions enforces derived invariants in exactly one place.
func finalizeOptions(o *Options) {
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
}
