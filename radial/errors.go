// SPDX-License-Identifier: MIT

package radial

import "errors"

var (
	// ErrInvalidConfig reports num_basis <= 0, a non-positive cutoff or a
	// coefficient vector of the wrong length.
	ErrInvalidConfig = errors.New("radial: invalid configuration")

	// ErrFrozen is returned when replacing the coefficients of a Fixed basis.
	ErrFrozen = errors.New("radial: coefficients are not trainable")

	// ErrShapeMismatch reports an output or gradient slice whose length is not num_basis.
	ErrShapeMismatch = errors.New("radial: slice length does not match num_basis")
)
