// SPDX-License-Identifier: MIT

package obseq

import (
	"runtime"

	"go.uber.org/zap"
)

const panicWorkersInvalid = "obseq: WithWorkers: n must be >= 1"

// Option configures Assemble.
type Option func(*options)

type options struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers bounds the goroutines used for placement and for the matrix
// kernels. Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger for drop and completeness reports.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(user ...Option) options {
	o := options{workers: runtime.GOMAXPROCS(0), logger: zap.NewNop()}
	for _, set := range user {
		set(&o)
	}

	return o
}
