// SPDX-License-Identifier: MIT

package waveform

import (
	"fmt"
	"strings"
)

// PartialType names the model parameter a partial derivative is taken with
// respect to. The numeric value is the on-disk code; zero is invalid.
type PartialType uint8

// 1-D (radial) parameter types.
const (
	TypePAR0 PartialType = iota + 1
	TypePAR1
	TypePAR2
	TypePAR3
	TypePAR4
	TypePAR5
	TypePARA
	TypePARC
	TypePARF
	TypePARL
	TypePARN
	TypePARQ
)

// 3-D parameter types.
const (
	TypeA PartialType = iota + 13
	TypeC
	TypeF
	TypeL
	TypeN
	TypeQ
	TypeMU
	TypeLAMBDA
	TypeKAPPA
	TypeRHO
)

var partialTypeNames = [...]string{
	TypePAR0:   "PAR0",
	TypePAR1:   "PAR1",
	TypePAR2:   "PAR2",
	TypePAR3:   "PAR3",
	TypePAR4:   "PAR4",
	TypePAR5:   "PAR5",
	TypePARA:   "PARA",
	TypePARC:   "PARC",
	TypePARF:   "PARF",
	TypePARL:   "PARL",
	TypePARN:   "PARN",
	TypePARQ:   "PARQ",
	TypeA:      "A",
	TypeC:      "C",
	TypeF:      "F",
	TypeL:      "L",
	TypeN:      "N",
	TypeQ:      "Q",
	TypeMU:     "MU",
	TypeLAMBDA: "LAMBDA",
	TypeKAPPA:  "KAPPA",
	TypeRHO:    "RHO",
}

// Valid reports whether p is a known type.
func (p PartialType) Valid() bool {
	return p >= TypePAR0 && int(p) < len(partialTypeNames)
}

// Is1D reports whether p is a radial (1-D) parameter type.
func (p PartialType) Is1D() bool { return p >= TypePAR0 && p <= TypePARQ }

// String returns the catalog name of the type.
func (p PartialType) String() string {
	if p.Valid() {
		return partialTypeNames[p]
	}

	return fmt.Sprintf("PartialType(%d)", uint8(p))
}

// ParsePartialType resolves a type name (case-insensitive).
func ParsePartialType(s string) (PartialType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for code, n := range partialTypeNames {
		if n != "" && n == name {
			return PartialType(code), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownPartialType, s)
}
