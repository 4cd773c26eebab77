// SPDX-License-Identifier: MIT

// Package radial expands a bond length r into a vector of Bessel-type basis
// values
//
//	R_n(r) = (2/rc) · sin(c_n · r) / r,   c_n = nπ/rc,  n = 1..num_basis,
//
// used as the radial part of every edge embedding.
//
// The coefficients c_n are an explicit tagged parameter: Fixed values never
// change after construction, Trainable values receive gradients through
// Backward and are replaced by an external optimizer via SetCoefficients.
//
// r == 0 is not a valid bond length, but Eval returns the finite limit
// (2/rc)·c_n there instead of NaN. Lengths are otherwise assumed positive.
//
// Complexity:
//   - Eval, Backward: O(num_basis) per length, one sin/cos pair per basis.
//
// Concurrency:
//   - Eval and Backward may run concurrently; gradient accumulation and
//     coefficient replacement are serialized by an internal RWMutex.
package radial
