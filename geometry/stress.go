// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
)

// minVolume is the volume at or below which a cell counts as degenerate.
const minVolume = 1e-12

// VoigtOrder lists the (row, col) of each Voigt component: xx, yy, zz, xy, yz, zx.
var VoigtOrder = [6][2]int{{0, 0}, {1, 1}, {2, 2}, {0, 1}, {1, 2}, {2, 0}}

// CellVolumes returns |det(cell_b)| for every stacked 3×3 block of cell.
//
// Errors:
//   - ErrShapeMismatch unless cell is (3G)×3 with G >= 1.
func CellVolumes(cell *matrix.Dense) ([]float64, error) {
	if cell == nil || cell.Cols() != 3 || cell.Rows() == 0 || cell.Rows()%3 != 0 {
		return nil, fmt.Errorf("geometry: cell must be (3G)x3: %w", ErrShapeMismatch)
	}
	vols := make([]float64, cell.Rows()/3)
	for b := range vols {
		blk, err := cell.Block(3*b, 3)
		if err != nil {
			return nil, fmt.Errorf("geometry: cell %d: %w", b, err)
		}
		vols[b] = math.Abs(mat.Det(mat.NewDense(3, 3, blk.RawData())))
	}

	return vols, nil
}

// Stress converts the strain gradient ∂E/∂ε into σ_b = −(∂E/∂ε)_b / V_b for
// every graph. Both inputs are (3G)×3.
//
// Errors:
//   - ErrShapeMismatch if the shapes differ or are not (3G)×3.
//   - ErrDegenerateCell if some cell has zero volume.
func Stress(strainGrad, cell *matrix.Dense) (*matrix.Dense, error) {
	vols, err := CellVolumes(cell)
	if err != nil {
		return nil, err
	}
	if strainGrad == nil || strainGrad.Rows() != cell.Rows() || strainGrad.Cols() != 3 {
		return nil, fmt.Errorf("geometry: strain gradient must match cell (%dx3): %w", cell.Rows(), ErrShapeMismatch)
	}

	out := strainGrad.Clone()
	for b, v := range vols {
		if v <= minVolume {
			return nil, fmt.Errorf("geometry: graph %d: %w", b, ErrDegenerateCell)
		}
		for r := 3 * b; r < 3*b+3; r++ {
			row := out.RowView(r)
			for c := range row {
				row[c] = -row[c] / v
			}
		}
	}

	return out, nil
}

// GraphStress returns Stress(g.Strain.Grad, cells of g) after a backward pass.
//
// Errors:
//   - ErrNoStrain if g has no strain leaf.
//   - errors of Stress.
func GraphStress(g *graphdata.AtomGraph) (*matrix.Dense, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if g.Strain == nil || g.Strain.Grad == nil {
		return nil, ErrNoStrain
	}
	cell, err := g.CellBlocks(g.Strain.Grad.Rows() / 3)
	if err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	return Stress(g.Strain.Grad, cell)
}

// Voigt flattens (3G)×3 symmetric tensors into G×6 rows in VoigtOrder.
//
// Errors:
//   - ErrShapeMismatch unless t is (3G)×3.
func Voigt(t *matrix.Dense) (*matrix.Dense, error) {
	if t == nil || t.Cols() != 3 || t.Rows()%3 != 0 {
		return nil, fmt.Errorf("geometry: Voigt wants (3G)x3: %w", ErrShapeMismatch)
	}
	out, err := matrix.Zeros(t.Rows()/3, 6)
	if err != nil {
		return nil, fmt.Errorf("geometry: Voigt: %w", err)
	}
	for b := 0; b < out.Rows(); b++ {
		row := out.RowView(b)
		for k, rc := range VoigtOrder {
			row[k] = t.RowView(3*b + rc[0])[rc[1]]
		}
	}

	return out, nil
}
