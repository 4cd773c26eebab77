// SPDX-License-Identifier: MIT

package spherical

// scalar is the arithmetic the recurrence needs. It is implemented by plain
// float64 values for Eval and by dual numbers for Backward.
type scalar[T any] interface {
	add(T) T
	sub(T) T
	mul(T) T
	scale(float64) T
}

type plain float64

func (a plain) add(b plain) plain     { return a + b }
func (a plain) sub(b plain) plain     { return a - b }
func (a plain) mul(b plain) plain     { return a * b }
func (a plain) scale(s float64) plain { return plain(s) * a }

// dual carries a value and its gradient with respect to the input (x, y, z).
type dual struct {
	v float64
	g [3]float64
}

// seed returns the dual number for input coordinate axis with value v.
func seed(v float64, axis int) dual {
	d := dual{v: v}
	d.g[axis] = 1

	return d
}

func (a dual) add(b dual) dual {
	return dual{v: a.v + b.v, g: [3]float64{a.g[0] + b.g[0], a.g[1] + b.g[1], a.g[2] + b.g[2]}}
}

func (a dual) sub(b dual) dual {
	return dual{v: a.v - b.v, g: [3]float64{a.g[0] - b.g[0], a.g[1] - b.g[1], a.g[2] - b.g[2]}}
}

func (a dual) mul(b dual) dual {
	return dual{
		v: a.v * b.v,
		g: [3]float64{
			a.g[0]*b.v + a.v*b.g[0],
			a.g[1]*b.v + a.v*b.g[1],
			a.g[2]*b.v + a.v*b.g[2],
		},
	}
}

func (a dual) scale(s float64) dual {
	return dual{v: s * a.v, g: [3]float64{s * a.g[0], s * a.g[1], s * a.g[2]}}
}
