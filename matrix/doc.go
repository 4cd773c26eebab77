// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major storage used for every tensor
// in equigeom: atom positions (N×3), stacked lattice cells ((3G)×3), cell
// shifts and edge vectors (E×3), radial embeddings (E×num_basis) and angular
// attributes (E×(lmax+1)²).
//
// The package provides:
//
//   - Dense with bounds-checked At/Set, copy-based Row/Block/Reshape and a
//     no-copy RowView for tight loops.
//   - Kernels (Add, Sub, Mul, Transpose, Scale, Symmetrize, GatherRows,
//     RowNorms, AllClose) that always allocate a fresh result and never
//     mutate their operands.
//   - Sentinel errors (errors.go) and shared validators (validators.go).
//
// Shapes are validated eagerly; a failure is an upstream contract violation
// and is returned, never repaired.
package matrix
