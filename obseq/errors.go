// SPDX-License-Identifier: MIT

package obseq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/waveinv/parameter"
	"github.com/katalvlaran/waveinv/waveform"
)

var (
	// ErrIncomplete is matched by every *IncompleteDesignMatrixError.
	ErrIncomplete = errors.New("obseq: incomplete design matrix")

	// ErrZeroObserved is returned by VarianceOf when the weighted observed
	// data has zero norm.
	ErrZeroObserved = errors.New("obseq: observed data has zero norm")

	// ErrNilInput is returned when Assemble receives a nil catalog or data vector.
	ErrNilInput = errors.New("obseq: nil catalog or data vector")
)

// Cell is one (window, parameter) block of the design matrix.
type Cell struct {
	Window    int
	Param     int
	Key       waveform.Key
	Parameter parameter.Key
}

// String names the window and the parameter.
func (c Cell) String() string {
	return fmt.Sprintf("window %d (%s) x parameter %d (%s)", c.Window, c.Key, c.Param, c.Parameter)
}

// maxListed bounds how many missing cells Error spells out.
const maxListed = 8

// IncompleteDesignMatrixError reports (window, parameter) cells that no
// partial-derivative record filled. It is fatal: a partially filled matrix
// biases the inversion.
type IncompleteDesignMatrixError struct {
	Missing  []Cell
	Expected int
	Placed   int
}

func (e *IncompleteDesignMatrixError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "obseq: incomplete design matrix: %d of %d cells placed; missing ", e.Placed, e.Expected)
	for i, c := range e.Missing {
		if i == maxListed {
			fmt.Fprintf(&b, ", ... (%d more)", len(e.Missing)-maxListed)
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}

	return b.String()
}

// Is makes errors.Is(err, ErrIncomplete) hold.
func (e *IncompleteDesignMatrixError) Is(target error) bool { return target == ErrIncomplete }
