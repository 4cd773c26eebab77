// SPDX-License-Identifier: MIT

package radial

import (
	"fmt"
	"math"
	"sync"
)

// smallArg is the |c·r| below which sin(x)/x and its derivative switch to a
// two-term Taylor series to avoid cancellation.
const smallArg = 1e-4

// Bessel is the radial basis R_n(r) = (2/rc)·sin(c_n·r)/r.
type Bessel struct {
	rc        float64
	prefactor float64 // 2/rc

	mu     sync.RWMutex
	coeffs Coefficients
	grad   []float64 // dL/dc_n, only for KindTrainable
}

// NewBessel constructs a basis with numBasis functions and cutoff length rc.
// The coefficients are trainable unless WithTrainable(false) or a Fixed
// parameter says otherwise.
//
// Errors:
//   - ErrInvalidConfig if numBasis <= 0, rc is not a positive finite number,
//     or WithCoefficients supplied a vector of the wrong length.
func NewBessel(numBasis int, rc float64, opts ...Option) (*Bessel, error) {
	if numBasis <= 0 {
		return nil, fmt.Errorf("num_basis=%d: %w", numBasis, ErrInvalidConfig)
	}
	if !(rc > 0) || math.IsInf(rc, 0) {
		return nil, fmt.Errorf("cutoff_length=%g: %w", rc, ErrInvalidConfig)
	}

	o := options{trainable: true}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	values := o.values
	if values == nil {
		values = DefaultCoefficients(numBasis, rc)
	}
	if len(values) != numBasis {
		return nil, fmt.Errorf("%d coefficients for num_basis=%d: %w", len(values), numBasis, ErrInvalidConfig)
	}

	b := &Bessel{rc: rc, prefactor: 2 / rc}
	if o.trainable {
		b.coeffs = Coefficients{kind: KindTrainable, values: values}
		b.grad = make([]float64, numBasis)
	} else {
		b.coeffs = Coefficients{kind: KindFixed, values: values}
	}

	return b, nil
}

// NumBasis returns the output width.
func (b *Bessel) NumBasis() int { return b.coeffs.Len() }

// CutoffLength returns rc.
func (b *Bessel) CutoffLength() float64 { return b.rc }

// Coefficients returns a snapshot of the current tagged coefficients.
func (b *Bessel) Coefficients() Coefficients {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return Coefficients{kind: b.coeffs.kind, values: b.coeffs.Values()}
}

// Eval writes R_n(r) for every basis function into out.
//
// Errors:
//   - ErrShapeMismatch if len(out) != NumBasis().
func (b *Bessel) Eval(r float64, out []float64) error {
	if len(out) != b.coeffs.Len() {
		return fmt.Errorf("Eval: len(out)=%d: %w", len(out), ErrShapeMismatch)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	for n, c := range b.coeffs.values {
		out[n] = b.prefactor * sinc(c, r)
	}

	return nil
}

// Backward returns dL/dr = Σ_n gradOut[n]·R_n'(r) for one length. For a
// trainable basis it also accumulates dL/dc_n = Σ gradOut[n]·(2/rc)·cos(c_n·r)
// into the coefficient gradient.
//
// Errors:
//   - ErrShapeMismatch if len(gradOut) != NumBasis().
func (b *Bessel) Backward(r float64, gradOut []float64) (float64, error) {
	if len(gradOut) != b.coeffs.Len() {
		return 0, fmt.Errorf("Backward: len(gradOut)=%d: %w", len(gradOut), ErrShapeMismatch)
	}

	trainable := b.coeffs.kind == KindTrainable
	if trainable {
		b.mu.Lock()
		defer b.mu.Unlock()
	} else {
		b.mu.RLock()
		defer b.mu.RUnlock()
	}

	var dr float64
	for n, c := range b.coeffs.values {
		g := gradOut[n]
		if g == 0 {
			continue
		}
		dr += g * b.prefactor * sincDeriv(c, r)
		if trainable {
			b.grad[n] += g * b.prefactor * math.Cos(c*r)
		}
	}

	return dr, nil
}

// Grad returns a copy of the accumulated coefficient gradient, or nil for a
// fixed basis.
func (b *Bessel) Grad() []float64 {
	if b.coeffs.kind != KindTrainable {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]float64(nil), b.grad...)
}

// ZeroGrad clears the accumulated coefficient gradient.
func (b *Bessel) ZeroGrad() {
	if b.coeffs.kind != KindTrainable {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.grad {
		b.grad[i] = 0
	}
}

// SetCoefficients replaces the trainable coefficients, typically after an
// optimizer step.
//
// Errors:
//   - ErrFrozen for a fixed basis.
//   - ErrInvalidConfig if len(values) != NumBasis().
func (b *Bessel) SetCoefficients(values []float64) error {
	if b.coeffs.kind != KindTrainable {
		return ErrFrozen
	}
	if len(values) != b.coeffs.Len() {
		return fmt.Errorf("%d coefficients for num_basis=%d: %w", len(values), b.coeffs.Len(), ErrInvalidConfig)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.coeffs.values, values)

	return nil
}

// sinc returns sin(c·r)/r, with the limit c at r == 0.
func sinc(c, r float64) float64 {
	x := c * r
	if math.Abs(x) < smallArg {
		return c * (1 - x*x/6)
	}

	return math.Sin(x) / r
}

// sincDeriv returns d/dr[sin(c·r)/r] = (c·r·cos(c·r) − sin(c·r))/r².
func sincDeriv(c, r float64) float64 {
	x := c * r
	if math.Abs(x) < smallArg {
		return -c * c * x / 3
	}

	return (x*math.Cos(x) - math.Sin(x)) / (r * r)
}
