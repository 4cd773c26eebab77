// SPDX-License-Identifier: MIT

// Package spherical encodes a bond direction as real spherical harmonics of
// degree 0..lmax, blocks ordered by increasing l and each block of size 2l+1.
//
// Convention (pinned to the e3nn basis consumed by equivariant tensor-product
// layers):
//
//   - Within a block, components run m = −l..l. Negative m carries the sine
//     (sin mφ) part, positive m the cosine part, m = 0 the zonal part.
//   - The polar axis is y. Under component normalization degree 1 is
//     √3·(x, y, z) and degree 2 starts with √15·x·z.
//   - No Condon–Shortley phase.
//   - Values are solid harmonics: homogeneous polynomials of degree l in
//     (x, y, z), not divided by |v|. A vector of length s yields s^l times the
//     unit-direction value.
//
// Evaluation uses the associated Legendre recurrence in Cartesian form, so
// there is no division by |v| and the zero vector is well defined.
// Normalization multiplies degree l by a constant:
//
//	Norm:      Σ_m Y_lm(v̂)² = 1
//	Component: Σ_m Y_lm(v̂)² = 2l+1     (Norm · √(2l+1))
//	Integral:  ∫ Y_lm² dΩ = 1          (Norm · √(2l+1)/√(4π))
//
// Parity only labels the output (Irreps); it never changes a value.
//
// Backward computes the exact gradient with forward-mode dual numbers through
// the same recurrence.
package spherical
