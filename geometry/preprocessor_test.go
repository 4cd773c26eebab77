package geometry_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/equigeom/geometry"
	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
)

func mustDense(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// dimer is the two-atom scenario: one bond of length 1.5, no cell.
func dimer(t *testing.T) *graphdata.AtomGraph {
	return &graphdata.AtomGraph{
		Pos:       mustDense(t, 2, 3, 0, 0, 0, 1.5, 0, 0),
		EdgeIndex: graphdata.EdgeIndex{{0}, {1}},
	}
}

// periodicBatch holds two periodic graphs: a triclinic cell with three atoms
// and a cubic cell with two, with edges crossing cell boundaries.
func periodicBatch(t *testing.T) *graphdata.AtomGraph {
	return &graphdata.AtomGraph{
		Pos: mustDense(t, 5, 3,
			0.1, 0.2, 0.3,
			1.4, 0.1, 0.9,
			2.2, 1.7, 0.4,
			0.0, 0.0, 0.0,
			1.0, 2.5, 0.5),
		Cell: mustDense(t, 2, 9,
			3.0, 0.1, 0.0, 0.4, 2.8, 0.2, 0.0, 0.3, 3.1,
			4.0, 0.0, 0.0, 0.0, 4.0, 0.0, 0.0, 0.0, 4.0),
		CellShift: mustDense(t, 5, 3,
			0, 0, 0,
			1, 0, 0,
			0, -1, 1,
			0, 0, 0,
			-1, 1, 0),
		EdgeIndex: graphdata.EdgeIndex{{0, 1, 2, 3, 4}, {1, 0, 0, 4, 3}},
		Batch:     []int{0, 0, 0, 1, 1},
	}
}

// expectedVec evaluates dst − src + shift·cell[batch[src]] directly.
func expectedVec(g *graphdata.AtomGraph, e int) [3]float64 {
	s, d := g.EdgeIndex.Src()[e], g.EdgeIndex.Dst()[e]
	b := 0
	if g.Batch != nil {
		b = g.Batch[s]
	}
	var out [3]float64
	ps, pd := g.Pos.RowView(s), g.Pos.RowView(d)
	for c := 0; c < 3; c++ {
		out[c] = pd[c] - ps[c]
	}
	if g.Cell != nil {
		cell := g.Cell.RawData()[9*b : 9*b+9]
		sh := g.CellShift.RowView(e)
		for a := 0; a < 3; a++ {
			for c := 0; c < 3; c++ {
				out[c] += sh[a] * cell[3*a+c]
			}
		}
	}

	return out
}

func TestPreprocess_Dimer(t *testing.T) {
	g := dimer(t)
	pb, err := geometry.NewSingleGraph().Preprocess(g)
	require.NoError(t, err)
	require.NotNil(t, pb)

	assert.Equal(t, []float64{1.5}, g.EdgeLength)
	assert.Equal(t, []float64{1.5, 0, 0}, g.EdgeVec.RawData())
	assert.False(t, g.Has(graphdata.KeyStrain))
	assert.Nil(t, pb.Strain())
}

func TestPreprocess_NoStressExact(t *testing.T) {
	g := periodicBatch(t)
	_, err := geometry.NewBatchedGraph().Preprocess(g)
	require.NoError(t, err)

	require.Equal(t, 5, g.EdgeVec.Rows())
	for e := 0; e < 5; e++ {
		want := expectedVec(g, e)
		assert.Equal(t, want[:], g.EdgeVec.RowView(e), "edge %d", e)
		assert.Equal(t, math.Sqrt(want[0]*want[0]+want[1]*want[1]+want[2]*want[2]), g.EdgeLength[e])
	}
	assert.Nil(t, g.Strain)
}

func TestPreprocess_StressLeaf(t *testing.T) {
	g := periodicBatch(t)
	p := geometry.NewBatchedGraph(geometry.WithStress(true))
	assert.True(t, p.Stress())
	assert.True(t, p.Batched())

	pb, err := p.Preprocess(g)
	require.NoError(t, err)
	require.True(t, g.Has(graphdata.KeyStrain))
	assert.Same(t, g.Strain, pb.Strain())
	assert.True(t, g.Strain.RequiresGrad())
	assert.Equal(t, make([]float64, 18), g.Strain.Value.RawData())

	// a zero strain leaves the geometry untouched
	for e := 0; e < 5; e++ {
		want := expectedVec(g, e)
		assert.Equal(t, want[:], g.EdgeVec.RowView(e))
	}

	// every call allocates a distinct leaf
	first := g.Strain
	_, err = p.Preprocess(g)
	require.NoError(t, err)
	assert.NotSame(t, first, g.Strain)

	s := dimer(t)
	_, err = geometry.NewSingleGraph(geometry.WithStress(true)).Preprocess(s)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Strain.Value.Rows())
}

func TestPreprocess_InputsUntouched(t *testing.T) {
	g := periodicBatch(t)
	pos, cell := g.Pos.Clone(), g.Cell.Clone()
	p := geometry.NewBatchedGraph(geometry.WithStress(true))
	_, err := p.Preprocess(g)
	require.NoError(t, err)

	strain := mustDense(t, 6, 3, 0.01, 0.02, 0, 0, -0.01, 0, 0.03, 0, 0.02, 0.1, 0, 0, 0, 0.1, 0, 0, 0, 0.1)
	_, err = p.ApplyStrain(g, strain)
	require.NoError(t, err)
	assert.Equal(t, pos.RawData(), g.Pos.RawData())
	assert.Equal(t, cell.RawData(), g.Cell.RawData())
}

func TestApplyStrain_IsotropicScaling(t *testing.T) {
	g := periodicBatch(t)
	p := geometry.NewBatchedGraph(geometry.WithStress(true))
	base, err := p.ApplyStrain(g, nil)
	require.NoError(t, err)

	const eps = 1e-3
	iso := mustDense(t, 6, 3, eps, 0, 0, 0, eps, 0, 0, 0, eps, eps, 0, 0, 0, eps, 0, 0, 0, eps)
	scaled, err := p.ApplyStrain(g, iso)
	require.NoError(t, err)

	for e := 0; e < 5; e++ {
		for c := 0; c < 3; c++ {
			assert.InDelta(t, (1+eps)*base.Vec.RowView(e)[c], scaled.Vec.RowView(e)[c], 1e-12)
		}
		assert.InDelta(t, (1+eps)*base.Length[e], scaled.Length[e], 1e-12)
	}

	_, err = p.ApplyStrain(g, mustDense(t, 3, 3, make([]float64, 9)...))
	assert.ErrorIs(t, err, geometry.ErrShapeMismatch)
}

// TestApplyStrain_PerGraphStrain strains two interleaved graphs by different
// symmetric tensors and checks edge_vec = raw_vec·(I + S_b).
func TestApplyStrain_PerGraphStrain(t *testing.T) {
	g := periodicBatch(t)
	// same atoms, stored as A0 B0 A1 B1 A2
	g.Pos = mustDense(t, 5, 3,
		0.1, 0.2, 0.3,
		0.0, 0.0, 0.0,
		1.4, 0.1, 0.9,
		1.0, 2.5, 0.5,
		2.2, 1.7, 0.4)
	g.Batch = []int{0, 1, 0, 1, 0}
	g.EdgeIndex = graphdata.EdgeIndex{{0, 2, 4, 1, 3}, {2, 0, 0, 3, 1}}

	strain := []float64{
		0.010, 0.002, -0.003, 0.002, -0.004, 0.001, -0.003, 0.001, 0.006,
		-0.005, 0.000, 0.003, 0.000, 0.008, -0.002, 0.003, -0.002, 0.001,
	}
	p := geometry.NewBatchedGraph(geometry.WithStress(true))
	geo, err := p.ApplyStrain(g, mustDense(t, 6, 3, strain...))
	require.NoError(t, err)

	graphOf := []int{0, 0, 0, 1, 1}
	for e := 0; e < 5; e++ {
		raw := expectedVec(g, e)
		s := strain[9*graphOf[e] : 9*graphOf[e]+9]
		for c := 0; c < 3; c++ {
			want := raw[c]
			for a := 0; a < 3; a++ {
				want += raw[a] * s[3*a+c]
			}
			assert.InDelta(t, want, geo.Vec.RowView(e)[c], 1e-12, "edge %d axis %d", e, c)
		}
	}
}

// TestBackward_FiniteDifference checks dL/dε and dL/dpos for
// L = Σ_e w_e · edge_vec_e against central differences of ApplyStrain.
func TestBackward_FiniteDifference(t *testing.T) {
	g := periodicBatch(t)
	p := geometry.NewBatchedGraph(geometry.WithStress(true))
	pb, err := p.Preprocess(g)
	require.NoError(t, err)

	w := make([]float64, 15)
	for i := range w {
		w[i] = math.Cos(float64(2*i + 1))
	}
	dVec := mustDense(t, 5, 3, w...)
	dPos, err := pb.Backward(dVec)
	require.NoError(t, err)

	loss := func(gr *graphdata.AtomGraph, strain *matrix.Dense) float64 {
		geo, err := p.ApplyStrain(gr, strain)
		require.NoError(t, err)
		var s float64
		for i, v := range geo.Vec.RawData() {
			s += w[i] * v
		}

		return s
	}

	const h = 1e-6
	for r := 0; r < 6; r++ {
		for c := 0; c < 3; c++ {
			plus, _ := matrix.Zeros(6, 3)
			minus, _ := matrix.Zeros(6, 3)
			require.NoError(t, plus.Set(r, c, h))
			require.NoError(t, minus.Set(r, c, -h))
			fd := (loss(g, plus) - loss(g, minus)) / (2 * h)
			got, _ := g.Strain.Grad.At(r, c)
			assert.InDelta(t, fd, got, 1e-6, "strain (%d,%d)", r, c)
		}
	}
	require.NoError(t, matrix.ValidateSymmetric(g.Strain.Grad))

	for i := 0; i < 5; i++ {
		for c := 0; c < 3; c++ {
			gp, gm := *g, *g
			gp.Pos, gm.Pos = g.Pos.Clone(), g.Pos.Clone()
			v, _ := g.Pos.At(i, c)
			require.NoError(t, gp.Pos.Set(i, c, v+h))
			require.NoError(t, gm.Pos.Set(i, c, v-h))
			fd := (loss(&gp, nil) - loss(&gm, nil)) / (2 * h)
			got, _ := dPos.At(i, c)
			assert.InDelta(t, fd, got, 1e-6, "pos (%d,%d)", i, c)
		}
	}

	// a second backward pass accumulates
	before := g.Strain.Grad.Clone()
	_, err = pb.Backward(dVec)
	require.NoError(t, err)
	doubled, _ := matrix.Scale(before, 2)
	ok, err := matrix.AllClose(doubled, g.Strain.Grad, 1e-12, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBackward_NoStress(t *testing.T) {
	g := dimer(t)
	pb, err := geometry.NewSingleGraph().Preprocess(g)
	require.NoError(t, err)

	dPos, err := pb.Backward(mustDense(t, 1, 3, 1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -2, -3, 1, 2, 3}, dPos.RawData())

	_, err = pb.Backward(mustDense(t, 2, 3, make([]float64, 6)...))
	assert.ErrorIs(t, err, geometry.ErrShapeMismatch)
}

func TestPreprocess_Errors(t *testing.T) {
	_, err := geometry.NewSingleGraph().Preprocess(nil)
	assert.ErrorIs(t, err, geometry.ErrNilGraph)

	g := dimer(t)
	g.EdgeIndex = graphdata.EdgeIndex{{0}, {2}}
	_, err = geometry.NewSingleGraph().Preprocess(g)
	assert.ErrorIs(t, err, geometry.ErrIndexOutOfRange)

	b := periodicBatch(t)
	b.Cell = mustDense(t, 1, 9, make([]float64, 9)...)
	_, err = geometry.New(true).Preprocess(b)
	assert.ErrorIs(t, err, geometry.ErrShapeMismatch)
}

func TestPreprocess_NoEdges(t *testing.T) {
	g := &graphdata.AtomGraph{
		Pos:       mustDense(t, 1, 3, 0, 0, 0),
		EdgeIndex: graphdata.EdgeIndex{{}, {}},
	}
	pb, err := geometry.NewSingleGraph(geometry.WithStress(true)).Preprocess(g)
	require.NoError(t, err)
	assert.Equal(t, 0, g.EdgeVec.Rows())
	assert.Empty(t, g.EdgeLength)

	empty, _ := matrix.Zeros(0, 3)
	dPos, err := pb.Backward(empty)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, dPos.RawData())
}
