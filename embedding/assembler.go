// SPDX-License-Identifier: MIT

package embedding

import (
	"fmt"

	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
)

// RadialBasis expands a length into NumBasis values. Implemented by *radial.Bessel.
type RadialBasis interface {
	NumBasis() int
	Eval(r float64, out []float64) error
	// Backward returns Σ gradOut[n]·dR_n/dr and accumulates parameter gradients.
	Backward(r float64, gradOut []float64) (float64, error)
}

// Envelope weights a length. Implemented by the cutoff package.
type Envelope interface {
	Eval(r float64) float64
	Deriv(r float64) float64
}

// AngularEncoder maps a vector to Dim values. Implemented by *spherical.Encoder.
type AngularEncoder interface {
	Dim() int
	Eval(v [3]float64, out []float64) error
	Backward(v [3]float64, gradOut []float64) ([3]float64, error)
}

// Assembler composes a radial basis, an envelope and an angular encoder.
type Assembler struct {
	basis    RadialBasis
	envelope Envelope
	angular  AngularEncoder
}

// NewAssembler wires the three components.
//
// Errors:
//   - ErrNilComponent if any component is nil.
func NewAssembler(basis RadialBasis, envelope Envelope, angular AngularEncoder) (*Assembler, error) {
	switch {
	case basis == nil:
		return nil, fmt.Errorf("radial basis: %w", ErrNilComponent)
	case envelope == nil:
		return nil, fmt.Errorf("envelope: %w", ErrNilComponent)
	case angular == nil:
		return nil, fmt.Errorf("angular encoder: %w", ErrNilComponent)
	}

	return &Assembler{basis: basis, envelope: envelope, angular: angular}, nil
}

// EmbeddingDim returns the width of EdgeEmbedding.
func (a *Assembler) EmbeddingDim() int { return a.basis.NumBasis() }

// AttrDim returns the width of EdgeAttr.
func (a *Assembler) AttrDim() int { return a.angular.Dim() }

// Forward recomputes EdgeLength from EdgeVec and writes EdgeLength,
// EdgeEmbedding (E×NumBasis) and EdgeAttr (E×Dim) into g. Outputs are fresh
// tensors; repeated calls on the same EdgeVec give bit-identical results.
//
// Errors:
//   - ErrMissingField if g.EdgeVec is nil.
//   - ErrShapeMismatch if g.EdgeVec is not E×3.
//   - component errors, wrapped with the edge index.
func (a *Assembler) Forward(g *graphdata.AtomGraph) error {
	vec, err := edgeVectors(g)
	if err != nil {
		return err
	}
	lengths, err := matrix.RowNorms(vec)
	if err != nil {
		return fmt.Errorf("embedding: edge lengths: %w", err)
	}

	numEdges := vec.Rows()
	emb, err := matrix.Zeros(numEdges, a.basis.NumBasis())
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	attr, err := matrix.Zeros(numEdges, a.angular.Dim())
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}

	for e, r := range lengths {
		row := emb.RowView(e)
		if err = a.basis.Eval(r, row); err != nil {
			return fmt.Errorf("embedding: edge %d: %w", e, err)
		}
		w := a.envelope.Eval(r)
		for n := range row {
			row[n] *= w
		}
		if err = a.angular.Eval(toVec3(vec.RowView(e)), attr.RowView(e)); err != nil {
			return fmt.Errorf("embedding: edge %d: %w", e, err)
		}
	}

	g.EdgeLength, g.EdgeEmbedding, g.EdgeAttr = lengths, emb, attr

	return nil
}

// Backward returns dL/d(edge_vec) given dL/d(edge_embedding) and
// dL/d(edge_attr). Either gradient may be nil, meaning zero. Trainable
// radial parameters accumulate their gradient as a side effect.
//
// With u = v/r and emb_n = R_n(r)·f(r):
//
//	dL/dv = (f·Σ dEmb_n·R_n'(r) + f'(r)·Σ dEmb_n·R_n(r))·u + Σ dAttr_k·∂Y_k/∂v
//
// A zero-length edge contributes no radial term.
//
// Errors:
//   - ErrMissingField if g.EdgeVec is nil.
//   - ErrShapeMismatch if a gradient does not match its output's shape.
func (a *Assembler) Backward(g *graphdata.AtomGraph, dEmbedding, dAttr *matrix.Dense) (*matrix.Dense, error) {
	vec, err := edgeVectors(g)
	if err != nil {
		return nil, err
	}
	numEdges := vec.Rows()
	if err = checkGrad(graphdata.KeyEdgeEmbedding, dEmbedding, numEdges, a.basis.NumBasis()); err != nil {
		return nil, err
	}
	if err = checkGrad(graphdata.KeyEdgeAttr, dAttr, numEdges, a.angular.Dim()); err != nil {
		return nil, err
	}

	dVec, err := matrix.Zeros(numEdges, 3)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	lengths, err := matrix.RowNorms(vec)
	if err != nil {
		return nil, fmt.Errorf("embedding: edge lengths: %w", err)
	}

	scaled := make([]float64, a.basis.NumBasis())
	basis := make([]float64, a.basis.NumBasis())
	for e, r := range lengths {
		v := toVec3(vec.RowView(e))
		out := dVec.RowView(e)

		if dEmbedding != nil && r > 0 {
			gEmb := dEmbedding.RowView(e)
			f := a.envelope.Eval(r)
			for n, gn := range gEmb {
				scaled[n] = f * gn
			}
			dr, err := a.basis.Backward(r, scaled)
			if err != nil {
				return nil, fmt.Errorf("embedding: edge %d: %w", e, err)
			}
			if err = a.basis.Eval(r, basis); err != nil {
				return nil, fmt.Errorf("embedding: edge %d: %w", e, err)
			}
			var dot float64
			for n, gn := range gEmb {
				dot += gn * basis[n]
			}
			dr += a.envelope.Deriv(r) * dot
			for c := 0; c < 3; c++ {
				out[c] += dr * v[c] / r
			}
		}

		if dAttr != nil {
			gv, err := a.angular.Backward(v, dAttr.RowView(e))
			if err != nil {
				return nil, fmt.Errorf("embedding: edge %d: %w", e, err)
			}
			for c := 0; c < 3; c++ {
				out[c] += gv[c]
			}
		}
	}

	return dVec, nil
}

func edgeVectors(g *graphdata.AtomGraph) (*matrix.Dense, error) {
	if g == nil || g.EdgeVec == nil {
		return nil, fmt.Errorf("embedding: %s: %w", graphdata.KeyEdgeVec, ErrMissingField)
	}
	if g.EdgeVec.Cols() != 3 {
		return nil, fmt.Errorf("embedding: %s has %d columns: %w", graphdata.KeyEdgeVec, g.EdgeVec.Cols(), ErrShapeMismatch)
	}

	return g.EdgeVec, nil
}

func checkGrad(k graphdata.Key, d *matrix.Dense, rows, cols int) error {
	if d == nil {
		return nil
	}
	if d.Rows() != rows || d.Cols() != cols {
		r, c := d.Shape()
		return fmt.Errorf("embedding: gradient of %s is %dx%d, want %dx%d: %w", k, r, c, rows, cols, ErrShapeMismatch)
	}

	return nil
}

func toVec3(row []float64) [3]float64 { return [3]float64{row[0], row[1], row[2]} }
