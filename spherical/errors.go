// SPDX-License-Identifier: MIT

package spherical

import "errors"

var (
	// ErrInvalidConfig reports lmax < 0, a parity other than ±1 or an unknown normalization.
	ErrInvalidConfig = errors.New("spherical: invalid configuration")

	// ErrShapeMismatch reports an output or gradient slice whose length is not Dim().
	ErrShapeMismatch = errors.New("spherical: slice length does not match (lmax+1)^2")
)
