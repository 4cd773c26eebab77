// SPDX-License-Identifier: MIT

package graphdata

import (
	"fmt"

	"github.com/katalvlaran/equigeom/matrix"
)

// Key names a field of AtomGraph. The string values are the interop names
// shared with structure files and the downstream model.
type Key string

// Field keys.
const (
	KeyPos           Key = "pos"
	KeyCell          Key = "cell_lattice_vectors"
	KeyCellShift     Key = "pbc_shift"
	KeyEdgeIndex     Key = "edge_index"
	KeyBatch         Key = "batch"
	KeyEdgeVec       Key = "edge_vec"
	KeyEdgeLength    Key = "edge_length"
	KeyEdgeEmbedding Key = "edge_embedding"
	KeyEdgeAttr      Key = "edge_attr"
	KeyStrain        Key = "_strain"
)

// EdgeIndex holds directed edges as two parallel index rows:
// row 0 is the source atom, row 1 the destination atom.
type EdgeIndex [2][]int

// Src returns the source row.
func (e EdgeIndex) Src() []int { return e[0] }

// Dst returns the destination row.
func (e EdgeIndex) Dst() []int { return e[1] }

// Len returns the number of edges (length of the source row).
func (e EdgeIndex) Len() int { return len(e[0]) }

// Variable is a differentiable leaf tensor: a value plus the gradient
// accumulated into it by backward passes.
type Variable struct {
	Value        *matrix.Dense
	Grad         *matrix.Dense
	requiresGrad bool
}

// NewLeaf wraps value as a leaf that requires gradients, with a zero Grad of
// the same shape.
//
// Errors:
//   - ErrMissingField if value is nil.
//   - ErrShapeMismatch if no gradient of value's shape can be allocated.
func NewLeaf(value *matrix.Dense) (*Variable, error) {
	if value == nil {
		return nil, fmt.Errorf("graphdata: leaf value: %w", ErrMissingField)
	}
	grad, err := matrix.Zeros(value.Rows(), value.Cols())
	if err != nil {
		return nil, fmt.Errorf("graphdata: leaf gradient: %v: %w", err, ErrShapeMismatch)
	}

	return &Variable{Value: value, Grad: grad, requiresGrad: true}, nil
}

// RequiresGrad reports whether backward passes accumulate into v.Grad.
func (v *Variable) RequiresGrad() bool { return v != nil && v.requiresGrad }

// ZeroGrad resets the accumulated gradient.
func (v *Variable) ZeroGrad() {
	if v == nil || v.Grad == nil {
		return
	}
	v.Grad, _ = matrix.Zeros(v.Grad.Rows(), v.Grad.Cols())
}

// AccumulateGrad adds g to the gradient. It is a no-op for a variable that
// does not require gradients.
func (v *Variable) AccumulateGrad(g *matrix.Dense) error {
	if !v.RequiresGrad() {
		return nil
	}
	sum, err := matrix.Add(v.Grad, g)
	if err != nil {
		return fmt.Errorf("graphdata: accumulate grad: %w", err)
	}
	v.Grad = sum

	return nil
}

// AtomGraph is the typed replacement for a string-keyed tensor mapping.
// Input fields are never modified by the pipeline; output fields are
// replaced wholesale on every forward evaluation.
type AtomGraph struct {
	// inputs
	Pos       *matrix.Dense
	Cell      *matrix.Dense
	CellShift *matrix.Dense
	EdgeIndex EdgeIndex
	Batch     []int

	// outputs
	EdgeVec       *matrix.Dense
	EdgeLength    []float64
	EdgeEmbedding *matrix.Dense
	EdgeAttr      *matrix.Dense
	Strain        *Variable
}

// NumAtoms returns the number of rows of Pos (0 when Pos is nil).
func (g *AtomGraph) NumAtoms() int {
	if g.Pos == nil {
		return 0
	}

	return g.Pos.Rows()
}

// NumEdges returns the number of edges.
func (g *AtomGraph) NumEdges() int { return g.EdgeIndex.Len() }

// NumGraphs returns 1 + max(Batch), or 1 when Batch is empty.
func (g *AtomGraph) NumGraphs() int {
	if len(g.Batch) == 0 {
		return 1
	}
	maxID := 0
	for _, b := range g.Batch {
		if b > maxID {
			maxID = b
		}
	}

	return maxID + 1
}

// Has reports whether the field named by k is populated.
func (g *AtomGraph) Has(k Key) bool {
	switch k {
	case KeyPos:
		return g.Pos != nil
	case KeyCell:
		return g.Cell != nil
	case KeyCellShift:
		return g.CellShift != nil
	case KeyEdgeIndex:
		return g.EdgeIndex[0] != nil && g.EdgeIndex[1] != nil
	case KeyBatch:
		return g.Batch != nil
	case KeyEdgeVec:
		return g.EdgeVec != nil
	case KeyEdgeLength:
		return g.EdgeLength != nil
	case KeyEdgeEmbedding:
		return g.EdgeEmbedding != nil
	case KeyEdgeAttr:
		return g.EdgeAttr != nil
	case KeyStrain:
		return g.Strain != nil
	default:
		return false
	}
}

// CellBlocks returns the lattice as a fresh (3·numGraphs)×3 stack of 3×3
// blocks; graph k occupies rows 3k..3k+2. A nil Cell yields zeros, which
// makes every cell-shift contribution vanish (non-periodic systems).
func (g *AtomGraph) CellBlocks(numGraphs int) (*matrix.Dense, error) {
	if g.Cell == nil {
		return matrix.Zeros(3*numGraphs, 3)
	}
	cell, err := g.Cell.Reshape(3*numGraphs, 3)
	if err != nil {
		return nil, fmt.Errorf("%s: %d elements for %d graph(s): %w", KeyCell, g.Cell.Len(), numGraphs, ErrShapeMismatch)
	}

	return cell, nil
}

// Shifts returns CellShift, or an E×3 zero matrix when it is nil.
func (g *AtomGraph) Shifts() (*matrix.Dense, error) {
	if g.CellShift == nil {
		return matrix.Zeros(g.NumEdges(), 3)
	}

	return g.CellShift, nil
}

// ClearOutputs drops every output field so a graph can be re-evaluated.
func (g *AtomGraph) ClearOutputs() {
	g.EdgeVec = nil
	g.EdgeLength = nil
	g.EdgeEmbedding = nil
	g.EdgeAttr = nil
	g.Strain = nil
}
