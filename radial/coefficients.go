// SPDX-License-Identifier: MIT

package radial

import "math"

// Kind tags how a coefficient vector takes part in training.
type Kind int

const (
	// KindFixed coefficients are a constant buffer.
	KindFixed Kind = iota
	// KindTrainable coefficients accumulate gradients and may be replaced.
	KindTrainable
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k == KindTrainable {
		return "trainable"
	}

	return "fixed"
}

// Coefficients is the tagged parameter {Fixed(values) | Trainable(initial)}.
// The zero value is an empty Fixed vector, which NewBessel replaces with
// DefaultCoefficients.
type Coefficients struct {
	kind   Kind
	values []float64
}

// Fixed returns a constant coefficient vector. values is copied.
func Fixed(values []float64) Coefficients {
	return Coefficients{kind: KindFixed, values: append([]float64(nil), values...)}
}

// Trainable returns a trainable coefficient vector starting at initial. initial is copied.
func Trainable(initial []float64) Coefficients {
	return Coefficients{kind: KindTrainable, values: append([]float64(nil), initial...)}
}

// Kind reports the tag.
func (c Coefficients) Kind() Kind { return c.kind }

// Len returns the number of coefficients.
func (c Coefficients) Len() int { return len(c.values) }

// Values returns a copy of the coefficients.
func (c Coefficients) Values() []float64 { return append([]float64(nil), c.values...) }

// DefaultCoefficients returns c_n = nπ/rc for n = 1..n.
func DefaultCoefficients(n int, rc float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) * math.Pi / rc
	}

	return out
}
