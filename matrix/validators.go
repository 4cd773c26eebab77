// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/symmetry checks here.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//
// Note:
//  - Each composite validator follows a fixed sequence (NotNil → Shape).

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil.
// Returns ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSameShape ensures a and b have equal dimensions.
// Assumes a and b are not nil (caller must ensure).
// Complexity: O(1).
func ValidateSameShape(a, b *Dense) error {
	if a.r != b.r {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.c != b.c {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape is NotNil(a) → NotNil(b) → SameShape(a, b).
func ValidateBinarySameShape(a, b *Dense) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}

	return ValidateSameShape(a, b)
}

// ValidateMulCompatible checks non-nil operands and a.Cols == b.Rows.
func ValidateMulCompatible(a, b *Dense) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if err := ValidateNotNil(b); err != nil {
		return err
	}
	if a.c != b.r {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateCols checks that m is non-nil and has exactly cols columns.
// Geometry uses it to enforce the trailing dimension 3 of positions,
// cell shifts and edge vectors.
func ValidateCols(m *Dense, cols int) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.c != cols {
		return validatorErrorf(fmt.Sprintf("ValidateCols(%d): got %d", cols, m.c), ErrDimensionMismatch)
	}

	return nil
}

// ValidateSymmetric checks |m[i,j] - m[j,i]| <= eps for every stacked square
// block of m. eps defaults to DefaultEpsilon and is overridden by WithEpsilon.
func ValidateSymmetric(m *Dense, opts ...Option) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.r == 0 || m.r%m.c != 0 {
		return validatorErrorf("ValidateSymmetric", ErrNonSquare)
	}
	eps := gatherOptions(opts...).eps
	n := m.c
	var blk, i, j, base int
	for blk = 0; blk < m.r/n; blk++ {
		base = blk * n * n
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				if math.Abs(m.data[base+i*n+j]-m.data[base+j*n+i]) > eps {
					return validatorErrorf(fmt.Sprintf("ValidateSymmetric: block %d (%d,%d)", blk, i, j), ErrAsymmetry)
				}
			}
		}
	}

	return nil
}
