// SPDX-License-Identifier: MIT

// Package cutoff implements smooth envelopes f(r) that weight a bond by its
// length and vanish at the cutoff radius rc.
//
// Two interchangeable variants implement Envelope:
//
//   - Polynomial(p, rc): f(u) = 1 − C0·u^p + C1·u^(p+1) − C2·u^(p+2), u = r/rc,
//     with C0=(p+1)(p+2)/2, C1=p(p+2), C2=p(p+1)/2. f(0)=1 and f, f', f''
//     all vanish at r = rc.
//   - XPLOR(rOn, rc): f = 1 for r < rOn, otherwise
//     (rc²−r²)²(rc²+2r²−3rOn²)/(rc²−rOn²)³, falling to 0 at rc.
//
// Both are only meaningful on [0, rc]; edges are built within the cutoff and
// neither variant clamps r > rc.
package cutoff

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig reports a nonsensical envelope parameter.
var ErrInvalidConfig = errors.New("cutoff: invalid configuration")

// Envelope maps a bond length to a weight in [0, 1] and provides df/dr for
// the backward pass.
type Envelope interface {
	Eval(r float64) float64
	Deriv(r float64) float64
	CutoffLength() float64
}

// Polynomial is the polynomial envelope of order p.
type Polynomial struct {
	p          float64
	rc         float64
	c0, c1, c2 float64
}

var _ Envelope = (*Polynomial)(nil)

// NewPolynomial returns the order-p polynomial envelope.
//
// Errors:
//   - ErrInvalidConfig when p < 1 or rc is not a positive finite number.
func NewPolynomial(p int, rc float64) (*Polynomial, error) {
	if p < 1 {
		return nil, fmt.Errorf("polynomial p=%d (want >= 1): %w", p, ErrInvalidConfig)
	}
	if !(rc > 0) || math.IsInf(rc, 0) {
		return nil, fmt.Errorf("polynomial cutoff length %g: %w", rc, ErrInvalidConfig)
	}
	pf := float64(p)

	return &Polynomial{
		p:  pf,
		rc: rc,
		c0: (pf + 1) * (pf + 2) / 2,
		c1: pf * (pf + 2),
		c2: pf * (pf + 1) / 2,
	}, nil
}

// Eval returns f(r).
func (e *Polynomial) Eval(r float64) float64 {
	u := r / e.rc
	up := math.Pow(u, e.p)

	return 1 - e.c0*up + e.c1*up*u - e.c2*up*u*u
}

// Deriv returns df/dr = (1/rc)·(−p·C0·u^(p−1) + (p+1)·C1·u^p − (p+2)·C2·u^(p+1)).
func (e *Polynomial) Deriv(r float64) float64 {
	u := r / e.rc
	upm1 := math.Pow(u, e.p-1)

	return (-e.p*e.c0*upm1 + (e.p+1)*e.c1*upm1*u - (e.p+2)*e.c2*upm1*u*u) / e.rc
}

// CutoffLength returns rc.
func (e *Polynomial) CutoffLength() float64 { return e.rc }

// Order returns p.
func (e *Polynomial) Order() int { return int(e.p) }

// XPLOR is the switching-region envelope between rOn and rc.
type XPLOR struct {
	rOn, rc         float64
	rOnSq, rcSq, dd float64 // dd = (rc²−rOn²)³
}

var _ Envelope = (*XPLOR)(nil)

// NewXPLOR returns the switching envelope that is exactly 1 below rOn.
//
// Errors:
//   - ErrInvalidConfig unless 0 <= rOn < rc and rc is finite.
func NewXPLOR(rOn, rc float64) (*XPLOR, error) {
	if !(rOn >= 0) || !(rOn < rc) || math.IsInf(rc, 0) {
		return nil, fmt.Errorf("xplor cutoff_on=%g cutoff_length=%g (want 0 <= on < length): %w", rOn, rc, ErrInvalidConfig)
	}
	rOnSq, rcSq := rOn*rOn, rc*rc
	diff := rcSq - rOnSq

	return &XPLOR{rOn: rOn, rc: rc, rOnSq: rOnSq, rcSq: rcSq, dd: diff * diff * diff}, nil
}

// Eval returns f(r).
func (e *XPLOR) Eval(r float64) float64 {
	if r < e.rOn {
		return 1
	}
	rSq := r * r
	gap := e.rcSq - rSq

	return gap * gap * (e.rcSq + 2*rSq - 3*e.rOnSq) / e.dd
}

// Deriv returns df/dr = 12·r·(rc²−r²)(rOn²−r²)/(rc²−rOn²)³ above rOn, 0 below.
func (e *XPLOR) Deriv(r float64) float64 {
	if r < e.rOn {
		return 0
	}
	rSq := r * r

	return 12 * r * (e.rcSq - rSq) * (e.rOnSq - rSq) / e.dd
}

// CutoffLength returns rc.
func (e *XPLOR) CutoffLength() float64 { return e.rc }

// CutoffOn returns rOn.
func (e *XPLOR) CutoffOn() float64 { return e.rOn }
