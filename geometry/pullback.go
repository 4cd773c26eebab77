// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"

	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
)

// Pullback carries the state of one Preprocess call needed to propagate
// gradients from the edge vectors back to positions and strain. It keeps a
// reference to the graph's positions; they must not change before Backward.
type Pullback struct {
	frame  *frame
	sym    *matrix.Dense       // S = ½(ε+εᵀ), nil without stress
	strain *graphdata.Variable // leaf that receives dL/dε, nil without stress
}

// Strain returns the leaf created by Preprocess, or nil without stress.
func (p *Pullback) Strain() *graphdata.Variable { return p.strain }

// Backward maps dL/d(edge_vec) (E×3) to dL/d(pos) (N×3). In stress mode it
// also accumulates the symmetric dL/dε into the strain leaf.
//
// Implementation:
//   - Stage 1: scatter per-edge gradients onto perturbed positions
//     (gp[dst] += g, gp[src] −= g) and perturbed cells (gc_b += shiftᵀ·g).
//   - Stage 2: dL/dpos_i = gp_i·(I + S_b); S is symmetric.
//   - Stage 3: G_b = Σ_{i∈b} pos_iᵀ·gp_i + cell_bᵀ·gc_b, dL/dε = ½(G + Gᵀ).
//
// Errors:
//   - ErrShapeMismatch if dEdgeVec is not E×3.
//
// Complexity: O(E + N + G).
func (p *Pullback) Backward(dEdgeVec *matrix.Dense) (*matrix.Dense, error) {
	f := p.frame
	numEdges := len(f.src)
	if dEdgeVec == nil || dEdgeVec.Rows() != numEdges || dEdgeVec.Cols() != 3 {
		return nil, fmt.Errorf("geometry: Backward: edge vector gradient, want %dx3: %w", numEdges, ErrShapeMismatch)
	}

	numAtoms := f.pos.Rows()
	gp, err := matrix.Zeros(numAtoms, 3)
	if err != nil {
		return nil, fmt.Errorf("geometry: Backward: %w", err)
	}
	gc, err := matrix.Zeros(3*f.numGraphs, 3)
	if err != nil {
		return nil, fmt.Errorf("geometry: Backward: %w", err)
	}

	// Stage 1
	for e := 0; e < numEdges; e++ {
		g := dEdgeVec.RowView(e)
		d, s := gp.RowView(f.dst[e]), gp.RowView(f.src[e])
		for c := 0; c < 3; c++ {
			d[c] += g[c]
			s[c] -= g[c]
		}
		addOuter(gc, 3*f.owner[f.src[e]], f.shifts.RowView(e), g)
	}

	if p.sym == nil {
		return gp, nil
	}

	// Stage 2
	dPos, err := perturbRows(gp, p.sym, f.groups)
	if err != nil {
		return nil, fmt.Errorf("geometry: Backward: %w", err)
	}

	// Stage 3
	if p.strain.RequiresGrad() {
		acc, err := f.strainGrad(gp, gc)
		if err != nil {
			return nil, fmt.Errorf("geometry: Backward: %w", err)
		}
		dStrain, err := matrix.Symmetrize(acc)
		if err != nil {
			return nil, fmt.Errorf("geometry: Backward: %w", err)
		}
		if err = p.strain.AccumulateGrad(dStrain); err != nil {
			return nil, fmt.Errorf("geometry: Backward: %w", err)
		}
	}

	return dPos, nil
}

// strainGrad returns the stacked G_b = pos_bᵀ·gp_b + cell_bᵀ·gc_b.
func (f *frame) strainGrad(gp, gc *matrix.Dense) (*matrix.Dense, error) {
	acc, err := matrix.Zeros(3*f.numGraphs, 3)
	if err != nil {
		return nil, err
	}
	for b := 0; b < f.numGraphs; b++ {
		cb, err := f.cell.Block(3*b, 3)
		if err != nil {
			return nil, err
		}
		gcb, err := gc.Block(3*b, 3)
		if err != nil {
			return nil, err
		}
		if err = addTransposeMul(acc, b, cb, gcb); err != nil {
			return nil, err
		}

		idx := f.groups[b]
		if len(idx) == 0 {
			continue
		}
		pb, err := matrix.GatherRows(f.pos, idx)
		if err != nil {
			return nil, err
		}
		gpb, err := matrix.GatherRows(gp, idx)
		if err != nil {
			return nil, err
		}
		if err = addTransposeMul(acc, b, pb, gpb); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

// addTransposeMul adds uᵀ·v into the 3×3 block b of acc.
func addTransposeMul(acc *matrix.Dense, b int, u, v *matrix.Dense) error {
	ut, err := matrix.Transpose(u)
	if err != nil {
		return err
	}
	prod, err := matrix.Mul(ut, v)
	if err != nil {
		return err
	}
	scatterAdd(acc, blockRows(b), prod)

	return nil
}

// addOuter adds uᵀ·v into the 3×3 block of m starting at row r0.
func addOuter(m *matrix.Dense, r0 int, u, v []float64) {
	for a := 0; a < 3; a++ {
		if u[a] == 0 {
			continue
		}
		row := m.RowView(r0 + a)
		row[0] += u[a] * v[0]
		row[1] += u[a] * v[1]
		row[2] += u[a] * v[2]
	}
}
