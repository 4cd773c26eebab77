// SPDX-License-Identifier: MIT

package spherical

import (
	"fmt"
	"math"
)

// Encoder evaluates the harmonics of degrees 0..lmax. It is immutable after
// construction and safe for concurrent use.
type Encoder struct {
	lmax   int
	parity Parity
	norm   Normalization
	irreps Irreps

	// coef[l*(lmax+1)+m], m >= 0: degree multiplier × (1 for m == 0, √2·K_lm otherwise),
	// K_lm = √((l−m)!/(l+m)!).
	coef []float64
	// dfact[m] = (2m−1)!!, the seed Q_m^m of the Legendre recurrence.
	dfact []float64
}

// NewEncoder builds an encoder for degrees 0..lmax.
//
// Errors:
//   - ErrInvalidConfig if lmax < 0, the parity is not ±1 or the
//     normalization is unknown.
func NewEncoder(lmax int, opts ...Option) (*Encoder, error) {
	o := defaultOptions()
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	if lmax < 0 {
		return nil, fmt.Errorf("lmax=%d: %w", lmax, ErrInvalidConfig)
	}
	if !o.parity.Valid() {
		return nil, fmt.Errorf("parity=%d: %w", int(o.parity), ErrInvalidConfig)
	}
	if o.norm < Component || o.norm > Integral {
		return nil, fmt.Errorf("normalization=%d: %w", int(o.norm), ErrInvalidConfig)
	}

	e := &Encoder{
		lmax:   lmax,
		parity: o.parity,
		norm:   o.norm,
		irreps: SphericalIrreps(lmax, o.parity),
		coef:   make([]float64, (lmax+1)*(lmax+1)),
		dfact:  make([]float64, lmax+1),
	}

	e.dfact[0] = 1
	for m := 1; m <= lmax; m++ {
		e.dfact[m] = e.dfact[m-1] * float64(2*m-1)
	}
	for l := 0; l <= lmax; l++ {
		dm := degreeMultiplier(l, o.norm)
		e.coef[l*(lmax+1)] = dm
		k2 := 1.0
		for m := 1; m <= l; m++ {
			// K_lm² = K_l,m−1² / ((l+m)(l−m+1))
			k2 /= float64((l + m) * (l - m + 1))
			e.coef[l*(lmax+1)+m] = dm * math.Sqrt(2*k2)
		}
	}

	return e, nil
}

// degreeMultiplier is the factor applied to the Norm-normalized degree l block.
func degreeMultiplier(l int, n Normalization) float64 {
	switch n {
	case Component:
		return math.Sqrt(float64(2*l + 1))
	case Integral:
		return math.Sqrt(float64(2*l+1) / (4 * math.Pi))
	default:
		return 1
	}
}

// Lmax returns the maximum degree.
func (e *Encoder) Lmax() int { return e.lmax }

// Dim returns (lmax+1)².
func (e *Encoder) Dim() int { return (e.lmax + 1) * (e.lmax + 1) }

// Parity returns the configured input parity.
func (e *Encoder) Parity() Parity { return e.parity }

// Normalization returns the configured normalization.
func (e *Encoder) Normalization() Normalization { return e.norm }

// Irreps returns a copy of the output degree labels.
func (e *Encoder) Irreps() Irreps { return append(Irreps(nil), e.irreps...) }

// Eval writes the harmonics of v into out.
//
// Errors:
//   - ErrShapeMismatch if len(out) != Dim().
func (e *Encoder) Eval(v [3]float64, out []float64) error {
	if len(out) != e.Dim() {
		return fmt.Errorf("Eval: len(out)=%d, want %d: %w", len(out), e.Dim(), ErrShapeMismatch)
	}
	harmonics(e, plain(v[0]), plain(v[1]), plain(v[2]), plain(1), func(i int, val plain) {
		out[i] = float64(val)
	})

	return nil
}

// Backward returns Σ_i gradOut[i]·∂Y_i/∂v.
//
// Errors:
//   - ErrShapeMismatch if len(gradOut) != Dim().
func (e *Encoder) Backward(v [3]float64, gradOut []float64) ([3]float64, error) {
	var g [3]float64
	if len(gradOut) != e.Dim() {
		return g, fmt.Errorf("Backward: len(gradOut)=%d, want %d: %w", len(gradOut), e.Dim(), ErrShapeMismatch)
	}
	harmonics(e, seed(v[0], 0), seed(v[1], 1), seed(v[2], 2), dual{v: 1}, func(i int, val dual) {
		w := gradOut[i]
		g[0] += w * val.g[0]
		g[1] += w * val.g[1]
		g[2] += w * val.g[2]
	})

	return g, nil
}

// harmonics runs the Cartesian Legendre recurrence and emits every output
// component by its flat index l²+l+m.
//
// The input is rotated into a frame with polar axis Z = y, X = z, Y = x. Then
//
//	C_m + i·S_m = (X + iY)^m
//	Q_m^m     = (2m−1)!!
//	Q_{m+1}^m = (2m+1)·Z·Q_m^m
//	Q_l^m     = ((2l−1)·Z·Q_{l−1}^m − (l+m−1)·r²·Q_{l−2}^m) / (l−m)
//
// and Y_l,±m = coef_lm · Q_l^m · (C_m | S_m).
func harmonics[T scalar[T]](e *Encoder, x, y, z, one T, emit func(int, T)) {
	lmax := e.lmax
	stride := lmax + 1
	bx, by, bz := z, x, y
	r2 := x.mul(x).add(y.mul(y)).add(z.mul(z))

	cs := make([]T, stride)
	sn := make([]T, stride)
	cs[0], sn[0] = one, one.scale(0)
	for m := 1; m <= lmax; m++ {
		cs[m] = bx.mul(cs[m-1]).sub(by.mul(sn[m-1]))
		sn[m] = bx.mul(sn[m-1]).add(by.mul(cs[m-1]))
	}

	q := make([]T, stride*stride)
	for m := 0; m <= lmax; m++ {
		q[m*stride+m] = one.scale(e.dfact[m])
		if m+1 <= lmax {
			q[(m+1)*stride+m] = bz.mul(q[m*stride+m]).scale(float64(2*m + 1))
		}
		for l := m + 2; l <= lmax; l++ {
			a := bz.mul(q[(l-1)*stride+m]).scale(float64(2*l - 1))
			b := r2.mul(q[(l-2)*stride+m]).scale(float64(l + m - 1))
			q[l*stride+m] = a.sub(b).scale(1 / float64(l-m))
		}
	}

	for l := 0; l <= lmax; l++ {
		center := l*l + l
		emit(center, q[l*stride].scale(e.coef[l*stride]))
		for m := 1; m <= l; m++ {
			c, qlm := e.coef[l*stride+m], q[l*stride+m]
			emit(center+m, qlm.mul(cs[m]).scale(c))
			emit(center-m, qlm.mul(sn[m]).scale(c))
		}
	}
}
