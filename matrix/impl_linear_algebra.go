// SPDX-License-Identifier: MIT
// Package matrix provides linear-algebra kernels on *Dense: element-wise
// addition and subtraction, matrix multiplication, transpose, scalar scaling
// and symmetrization. All functions perform strict fail-fast validation and
// return clear errors on dimension mismatches.
//
// Purpose:
//   - Every kernel allocates a fresh result and never mutates its operands.
//     Geometry code depends on this: perturbed positions and cells are always
//     new tensors, so the unperturbed inputs stay available for the backward pass.
//   - Define operation tags for determinism and error reporting.

package matrix

import (
	"fmt"
)

// ZeroSum is the initial value for accumulations.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd        = "Add"
	opSub        = "Sub"
	opMul        = "Mul"
	opTranspose  = "Transpose"
	opScale      = "Scale"
	opSymmetrize = "Symmetrize"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// Inputs must have identical shapes. A fresh Dense is allocated; operands are not mutated.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b). Allocate result with a's policy.
//   - Stage 2: single flat loop 0..n-1.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
//
// Notes:
//   - Keeping `sign` as a float avoids an extra branch inside the hot loop.
func addSub(a, b *Dense, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	res := a.like(a.r, a.c)
	for idx := range res.data { // deterministic 0..n-1
		res.data[idx] = a.data[idx] + sign*b.data[idx]
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j loop over row-major strides, skipping zero A[i,k].
//
// Inputs:
//   - A: left matrix with shape (r × n); r may be 0.
//   - B: right matrix with shape (n × c).
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	aRows, aCols, bCols := a.r, a.c, b.c
	res := a.like(aRows, bCols)
	var (
		i, k, j                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = a.data[rowOffsetA+k]
			if av == 0 {
				continue // skip zero for performance
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * b.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
//
// Errors:
//   - ErrNilMatrix; ErrBadShape for a 0-row input (its transpose has 0 columns).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	if m.r == 0 {
		return nil, matrixErrorf(opTranspose, ErrBadShape)
	}

	res := m.like(m.c, m.r)
	var i, j int
	for i = 0; i < m.r; i++ {
		for j = 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// Scale returns alpha*m as a new matrix.
//
// Errors:
//   - ErrNilMatrix.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}

	res := m.like(m.r, m.c)
	for idx, v := range m.data {
		res.data[idx] = alpha * v
	}

	return res, nil
}

// Symmetrize returns ½(M + Mᵀ) for a square matrix, or the per-block
// symmetric part for a stacked (3G)×3 tensor of 3×3 blocks.
// MAIN DESCRIPTION:
//   - Strain tensors are stored stacked; only their symmetric part acts on geometry.
//
// Implementation:
//   - Stage 1: require Rows() to be a positive multiple of Cols().
//   - Stage 2: for each c×c block b, out_b[i,j] = ½(b[i,j] + b[j,i]).
//
// Errors:
//   - ErrNilMatrix; ErrNonSquare when rows is not a multiple of cols.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Symmetrize(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	if m.r == 0 || m.r%m.c != 0 {
		return nil, matrixErrorf(opSymmetrize, ErrNonSquare)
	}

	n := m.c
	res := m.like(m.r, m.c)
	var blk, i, j, base int
	for blk = 0; blk < m.r/n; blk++ {
		base = blk * n * n
		for i = 0; i < n; i++ {
			for j = 0; j < n; j++ {
				res.data[base+i*n+j] = 0.5 * (m.data[base+i*n+j] + m.data[base+j*n+i])
			}
		}
	}

	return res, nil
}
