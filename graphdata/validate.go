// SPDX-License-Identifier: MIT

package graphdata

import (
	"fmt"

	"github.com/katalvlaran/equigeom/matrix"
)

// Validate checks the input contracts of g.
//
// Checks, in order:
//  1. Pos present with 3 columns.
//  2. EdgeIndex rows of equal length, every entry in [0, N).
//  3. CellShift nil or E×3.
//  4. batched: Batch of length N with contiguous 0-based ids, and both
//     endpoints of every edge in the same graph.
//  5. Cell nil or holding exactly 9 values per graph.
//
// The first violation is returned, wrapped around ErrMissingField,
// ErrShapeMismatch or ErrIndexOutOfRange.
func (g *AtomGraph) Validate(batched bool) error {
	if g.Pos == nil {
		return fmt.Errorf("%s: %w", KeyPos, ErrMissingField)
	}
	if err := matrix.ValidateCols(g.Pos, 3); err != nil {
		return fmt.Errorf("%s: %v: %w", KeyPos, err, ErrShapeMismatch)
	}
	n := g.Pos.Rows()

	src, dst := g.EdgeIndex.Src(), g.EdgeIndex.Dst()
	if len(src) != len(dst) {
		return fmt.Errorf("%s: %d sources vs %d destinations: %w", KeyEdgeIndex, len(src), len(dst), ErrShapeMismatch)
	}
	for e := range src {
		if src[e] < 0 || src[e] >= n || dst[e] < 0 || dst[e] >= n {
			return fmt.Errorf("%s: edge %d (%d→%d) with %d atoms: %w", KeyEdgeIndex, e, src[e], dst[e], n, ErrIndexOutOfRange)
		}
	}

	if g.CellShift != nil && (g.CellShift.Rows() != len(src) || g.CellShift.Cols() != 3) {
		r, c := g.CellShift.Shape()
		return fmt.Errorf("%s: got %dx%d, want %dx3: %w", KeyCellShift, r, c, len(src), ErrShapeMismatch)
	}

	numGraphs := 1
	if batched {
		if err := g.validateBatch(n); err != nil {
			return err
		}
		numGraphs = g.NumGraphs()
		for e := range src {
			if g.Batch[src[e]] != g.Batch[dst[e]] {
				return fmt.Errorf("%s: edge %d joins graphs %d and %d: %w", KeyEdgeIndex, e, g.Batch[src[e]], g.Batch[dst[e]], ErrIndexOutOfRange)
			}
		}
	}

	if g.Cell != nil && g.Cell.Len() != 9*numGraphs {
		return fmt.Errorf("%s: %d values for %d graph(s): %w", KeyCell, g.Cell.Len(), numGraphs, ErrShapeMismatch)
	}

	return nil
}

// validateBatch checks len(Batch) == n and that ids are 0-based and contiguous.
func (g *AtomGraph) validateBatch(n int) error {
	if g.Batch == nil {
		return fmt.Errorf("%s: %w", KeyBatch, ErrMissingField)
	}
	if len(g.Batch) != n {
		return fmt.Errorf("%s: length %d, want %d: %w", KeyBatch, len(g.Batch), n, ErrShapeMismatch)
	}
	if n == 0 {
		return nil
	}
	numGraphs := g.NumGraphs()
	seen := make([]bool, numGraphs)
	for i, b := range g.Batch {
		if b < 0 {
			return fmt.Errorf("%s: atom %d has graph id %d: %w", KeyBatch, i, b, ErrIndexOutOfRange)
		}
		seen[b] = true
	}
	for id, ok := range seen {
		if !ok {
			return fmt.Errorf("%s: graph id %d has no atoms: %w", KeyBatch, id, ErrIndexOutOfRange)
		}
	}

	return nil
}
