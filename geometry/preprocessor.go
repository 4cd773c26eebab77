// SPDX-License-Identifier: MIT

package geometry

import (
	"fmt"

	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
)

// Preprocessor computes edge vectors and lengths for an AtomGraph.
type Preprocessor interface {
	// Preprocess writes EdgeVec, EdgeLength and, in stress mode, a fresh
	// zero Strain leaf into g, and returns the pullback for the backward pass.
	Preprocess(g *graphdata.AtomGraph) (*Pullback, error)
	// ApplyStrain evaluates the edge geometry of g under an explicit strain
	// ((3·numGraphs)×3, nil for none) without touching g.
	ApplyStrain(g *graphdata.AtomGraph, strain *matrix.Dense) (*EdgeGeometry, error)
	// Batched reports whether g.Batch is consulted.
	Batched() bool
	// Stress reports whether a strain leaf is produced.
	Stress() bool
}

// EdgeGeometry is the result of a forward evaluation.
type EdgeGeometry struct {
	Vec    *matrix.Dense // E×3
	Length []float64     // E
}

// SingleGraph preprocesses one graph with a single 3×3 cell.
type SingleGraph struct{ stress bool }

// BatchedGraph preprocesses several graphs concatenated along the atom axis.
type BatchedGraph struct{ stress bool }

var (
	_ Preprocessor = (*SingleGraph)(nil)
	_ Preprocessor = (*BatchedGraph)(nil)
)

// NewSingleGraph returns the single-graph variant.
func NewSingleGraph(opts ...Option) *SingleGraph {
	return &SingleGraph{stress: gatherOptions(opts...).stress}
}

// NewBatchedGraph returns the batched variant.
func NewBatchedGraph(opts ...Option) *BatchedGraph {
	return &BatchedGraph{stress: gatherOptions(opts...).stress}
}

// New returns the variant selected by batched.
func New(batched bool, opts ...Option) Preprocessor {
	if batched {
		return NewBatchedGraph(opts...)
	}

	return NewSingleGraph(opts...)
}

// Preprocess implements Preprocessor.
func (p *SingleGraph) Preprocess(g *graphdata.AtomGraph) (*Pullback, error) {
	return preprocess(g, false, p.stress)
}

// ApplyStrain implements Preprocessor.
func (p *SingleGraph) ApplyStrain(g *graphdata.AtomGraph, strain *matrix.Dense) (*EdgeGeometry, error) {
	return applyStrain(g, false, strain)
}

// Batched implements Preprocessor.
func (p *SingleGraph) Batched() bool { return false }

// Stress implements Preprocessor.
func (p *SingleGraph) Stress() bool { return p.stress }

// Preprocess implements Preprocessor.
func (p *BatchedGraph) Preprocess(g *graphdata.AtomGraph) (*Pullback, error) {
	return preprocess(g, true, p.stress)
}

// ApplyStrain implements Preprocessor.
func (p *BatchedGraph) ApplyStrain(g *graphdata.AtomGraph, strain *matrix.Dense) (*EdgeGeometry, error) {
	return applyStrain(g, true, strain)
}

// Batched implements Preprocessor.
func (p *BatchedGraph) Batched() bool { return true }

// Stress implements Preprocessor.
func (p *BatchedGraph) Stress() bool { return p.stress }

// preprocess is the shared body of both variants.
//
// Implementation:
//   - Stage 1: validate g and resolve cells, shifts and atom owners (frame).
//   - Stage 2 (stress): allocate a zero (3G)×3 leaf and S = ½(ε + εᵀ).
//   - Stage 3: evaluate the edge geometry and store outputs into g.
func preprocess(g *graphdata.AtomGraph, batched, stress bool) (*Pullback, error) {
	f, err := newFrame(g, batched)
	if err != nil {
		return nil, err
	}

	var (
		leaf *graphdata.Variable
		sym  *matrix.Dense
	)
	if stress {
		zero, err := matrix.Zeros(3*f.numGraphs, 3)
		if err != nil {
			return nil, fmt.Errorf("geometry: strain: %w", err)
		}
		if leaf, err = graphdata.NewLeaf(zero); err != nil {
			return nil, fmt.Errorf("geometry: strain: %w", err)
		}
		if sym, err = matrix.Symmetrize(leaf.Value); err != nil {
			return nil, fmt.Errorf("geometry: strain: %w", err)
		}
	}

	geo, err := f.forward(sym)
	if err != nil {
		return nil, err
	}
	g.EdgeVec, g.EdgeLength, g.Strain = geo.Vec, geo.Length, leaf

	return &Pullback{frame: f, sym: sym, strain: leaf}, nil
}

func applyStrain(g *graphdata.AtomGraph, batched bool, strain *matrix.Dense) (*EdgeGeometry, error) {
	f, err := newFrame(g, batched)
	if err != nil {
		return nil, err
	}
	var sym *matrix.Dense
	if strain != nil {
		if strain.Rows() != 3*f.numGraphs || strain.Cols() != 3 {
			r, c := strain.Shape()
			return nil, fmt.Errorf("geometry: strain %dx%d, want %dx3: %w", r, c, 3*f.numGraphs, ErrShapeMismatch)
		}
		if sym, err = matrix.Symmetrize(strain); err != nil {
			return nil, fmt.Errorf("geometry: strain: %w", err)
		}
	}

	return f.forward(sym)
}

// frame is the validated, resolved view of one call's inputs.
type frame struct {
	pos       *matrix.Dense // N×3, the caller's tensor (read only)
	cell      *matrix.Dense // (3G)×3 copy
	shifts    *matrix.Dense // E×3 (read only)
	owner     []int         // graph id per atom
	groups    [][]int       // atoms per graph
	src, dst  []int
	numGraphs int
}

func newFrame(g *graphdata.AtomGraph, batched bool) (*frame, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if err := g.Validate(batched); err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	f := &frame{
		pos:       g.Pos,
		src:       g.EdgeIndex.Src(),
		dst:       g.EdgeIndex.Dst(),
		numGraphs: 1,
	}
	if batched {
		f.numGraphs = g.NumGraphs()
		f.owner = g.Batch
	} else {
		f.owner = make([]int, g.NumAtoms())
	}
	f.groups = groupRows(f.owner, f.numGraphs)

	var err error
	if f.cell, err = g.CellBlocks(f.numGraphs); err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}
	if f.shifts, err = g.Shifts(); err != nil {
		return nil, fmt.Errorf("geometry: %w", err)
	}

	return f, nil
}

// forward evaluates the edge geometry, perturbing by sym when non-nil.
func (f *frame) forward(sym *matrix.Dense) (*EdgeGeometry, error) {
	pos, cell := f.pos, f.cell
	if sym != nil {
		var err error
		if pos, err = perturbRows(f.pos, sym, f.groups); err != nil {
			return nil, fmt.Errorf("geometry: strained positions: %w", err)
		}
		if cell, err = perturbCells(f.cell, sym); err != nil {
			return nil, fmt.Errorf("geometry: strained cells: %w", err)
		}
	}

	ps, err := matrix.GatherRows(pos, f.src)
	if err != nil {
		return nil, fmt.Errorf("geometry: source positions: %w", err)
	}
	pd, err := matrix.GatherRows(pos, f.dst)
	if err != nil {
		return nil, fmt.Errorf("geometry: destination positions: %w", err)
	}
	vec, err := matrix.Sub(pd, ps)
	if err != nil {
		return nil, fmt.Errorf("geometry: edge vectors: %w", err)
	}

	for e, s := range f.src {
		addRowTimesBlock(vec.RowView(e), f.shifts.RowView(e), cell, f.owner[s])
	}

	lengths, err := matrix.RowNorms(vec)
	if err != nil {
		return nil, fmt.Errorf("geometry: edge lengths: %w", err)
	}

	return &EdgeGeometry{Vec: vec, Length: lengths}, nil
}

// perturbRows returns x + x·S_b for the rows of every graph b as a new matrix.
func perturbRows(x, sym *matrix.Dense, groups [][]int) (*matrix.Dense, error) {
	out := x.Clone()
	for b, idx := range groups {
		if len(idx) == 0 {
			continue
		}
		sb, err := sym.Block(3*b, 3)
		if err != nil {
			return nil, err
		}
		xb, err := matrix.GatherRows(x, idx)
		if err != nil {
			return nil, err
		}
		d, err := matrix.Mul(xb, sb)
		if err != nil {
			return nil, err
		}
		scatterAdd(out, idx, d)
	}

	return out, nil
}

// perturbCells returns cell_b + cell_b·S_b for every stacked 3×3 block.
func perturbCells(cell, sym *matrix.Dense) (*matrix.Dense, error) {
	out := cell.Clone()
	for b := 0; b < cell.Rows()/3; b++ {
		cb, err := cell.Block(3*b, 3)
		if err != nil {
			return nil, err
		}
		sb, err := sym.Block(3*b, 3)
		if err != nil {
			return nil, err
		}
		d, err := matrix.Mul(cb, sb)
		if err != nil {
			return nil, err
		}
		scatterAdd(out, blockRows(b), d)
	}

	return out, nil
}

// groupRows lists the atoms owned by each of numGraphs graphs, in order.
func groupRows(owner []int, numGraphs int) [][]int {
	groups := make([][]int, numGraphs)
	for i, b := range owner {
		groups[b] = append(groups[b], i)
	}

	return groups
}

func blockRows(b int) []int { return []int{3 * b, 3*b + 1, 3*b + 2} }

// scatterAdd adds row k of src into row idx[k] of dst.
func scatterAdd(dst *matrix.Dense, idx []int, src *matrix.Dense) {
	for k, i := range idx {
		d, v := dst.RowView(i), src.RowView(k)
		d[0] += v[0]
		d[1] += v[1]
		d[2] += v[2]
	}
}

// addRowTimesBlock adds row · blocks[3b:3b+3, :] into dst.
func addRowTimesBlock(dst, row []float64, blocks *matrix.Dense, b int) {
	for a := 0; a < 3; a++ {
		if row[a] == 0 {
			continue
		}
		m := blocks.RowView(3*b + a)
		dst[0] += row[a] * m[0]
		dst[1] += row[a] * m[1]
		dst[2] += row[a] * m[2]
	}
}
