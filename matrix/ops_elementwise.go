// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Row-oriented kernels shared by geometry and embedding: index gathering,
//     per-row Euclidean norms and tolerance comparison.
//   - Keep all loops deterministic and cache-friendly over the flat buffer.
//
// Determinism & Performance:
//   - Fixed loop orders (i→j or flat 0..n-1).
//   - No hidden allocations beyond the output; O(r*c) time and space.

package matrix

import (
	"fmt"
	"math"
)

const (
	opGatherRows = "GatherRows"
	opRowNorms   = "RowNorms"
	opAllClose   = "AllClose"
)

// GatherRows builds out[k,:] = m[idx[k],:]. It is the row-indexing primitive
// behind pos[src] / pos[dst] and cell[batch[src]].
//
// Errors:
//   - ErrNilMatrix; ErrOutOfRange (wrapped with the offending position) when
//     any idx[k] is outside [0, m.Rows()).
//
// Complexity:
//   - Time O(len(idx)*c), Space O(len(idx)*c).
func GatherRows(m *Dense, idx []int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opGatherRows, err)
	}

	out := m.like(len(idx), m.c)
	for k, row := range idx {
		if row < 0 || row >= m.r {
			return nil, matrixErrorf(opGatherRows, fmt.Errorf("idx[%d]=%d (rows=%d): %w", k, row, m.r, ErrOutOfRange))
		}
		copy(out.data[k*m.c:(k+1)*m.c], m.data[row*m.c:(row+1)*m.c])
	}

	return out, nil
}

// RowNorms returns the Euclidean norm of every row (no overflow rescaling).
//
// Errors:
//   - ErrNilMatrix.
func RowNorms(m *Dense) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRowNorms, err)
	}

	out := make([]float64, m.r)
	var i, j, base int
	var acc float64
	for i = 0; i < m.r; i++ {
		base = i * m.c
		acc = ZeroSum
		for j = 0; j < m.c; j++ {
			acc += m.data[base+j] * m.data[base+j]
		}
		out[i] = math.Sqrt(acc)
	}

	return out, nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances are rejected.
//
// Complexity: Time O(r*c). Space O(1).
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	for idx := range a.data {
		if math.Abs(a.data[idx]-b.data[idx]) > atol+rtol*math.Abs(b.data[idx]) {
			return false, nil // early-exit on first violation
		}
	}

	return true, nil
}
