// SPDX-License-Identifier: MIT

package spherical

import (
	"fmt"
	"strings"
)

// Normalization selects the per-degree scale of the harmonics.
type Normalization int

const (
	// Component: each component has unit mean square over the sphere.
	Component Normalization = iota
	// Norm: each degree block has unit norm on the unit sphere.
	Norm
	// Integral: each function has unit L2 norm over the sphere.
	Integral
)

var normalizationNames = [...]string{"component", "norm", "integral"}

// String implements fmt.Stringer.
func (n Normalization) String() string {
	if n < 0 || int(n) >= len(normalizationNames) {
		return fmt.Sprintf("Normalization(%d)", int(n))
	}

	return normalizationNames[n]
}

// ParseNormalization maps "component", "norm" or "integral" (case-insensitive)
// to a Normalization.
func ParseNormalization(s string) (Normalization, error) {
	for i, name := range normalizationNames {
		if strings.EqualFold(s, name) {
			return Normalization(i), nil
		}
	}

	return 0, fmt.Errorf("normalization %q: %w", s, ErrInvalidConfig)
}

// Parity of the input vector: −1 for a polar vector, +1 for an axial one.
type Parity int

// Parity values.
const (
	Odd  Parity = -1
	Even Parity = 1
)

// Valid reports whether p is ±1.
func (p Parity) Valid() bool { return p == Odd || p == Even }

// Irrep is one degree block: order l and parity label ±1.
type Irrep struct {
	L      int
	Parity Parity
}

// Dim returns 2l+1.
func (ir Irrep) Dim() int { return 2*ir.L + 1 }

// String renders the irrep as "<l>e" or "<l>o".
func (ir Irrep) String() string {
	if ir.Parity == Odd {
		return fmt.Sprintf("%do", ir.L)
	}

	return fmt.Sprintf("%de", ir.L)
}

// Irreps is the ordered list of degree blocks produced by an Encoder.
type Irreps []Irrep

// Dim returns the total width Σ(2l+1).
func (irs Irreps) Dim() int {
	d := 0
	for _, ir := range irs {
		d += ir.Dim()
	}

	return d
}

// String renders the list as "1x0e+1x1o+1x2e".
func (irs Irreps) String() string {
	var sb strings.Builder
	for i, ir := range irs {
		if i > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString("1x")
		sb.WriteString(ir.String())
	}

	return sb.String()
}

// SphericalIrreps returns the labels of degrees 0..lmax for an input of parity
// p: degree l carries parity p^l.
func SphericalIrreps(lmax int, p Parity) Irreps {
	irs := make(Irreps, lmax+1)
	sign := Even
	for l := range irs {
		irs[l] = Irrep{L: l, Parity: sign}
		sign *= p
	}

	return irs
}
