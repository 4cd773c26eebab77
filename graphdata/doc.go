// SPDX-License-Identifier: MIT

// Package graphdata defines AtomGraph, the typed record that carries one
// atomic graph (or a batch of graphs) through the edge-feature pipeline.
//
// Inputs (owned by the caller):
//
//	Pos        N×3     atom positions
//	Cell       G×9 / (3G)×3 / 3×3   lattice vectors as rows (nil: non-periodic)
//	CellShift  E×3     periodic image offsets (nil: all zero)
//	EdgeIndex  [2][E]  source / destination atom indices
//	Batch      [N]     graph id per atom (nil in single-graph mode)
//
// Outputs (written by geometry and embedding):
//
//	EdgeVec, EdgeLength, EdgeEmbedding, EdgeAttr, Strain
//
// Each field has a Key with the interop name used by structure files and by
// Has lookups. Validate checks the cross-field contracts once, at the
// boundary, so the numeric code can index without re-checking.
package graphdata
