package embedding_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/equigeom/cutoff"
	"github.com/katalvlaran/equigeom/embedding"
	"github.com/katalvlaran/equigeom/geometry"
	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
	"github.com/katalvlaran/equigeom/radial"
	"github.com/katalvlaran/equigeom/spherical"
)

func mustDense(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

type parts struct {
	basis    *radial.Bessel
	envelope *cutoff.Polynomial
	angular  *spherical.Encoder
	asm      *embedding.Assembler
}

func newParts(t *testing.T, rc float64, opts ...radial.Option) parts {
	t.Helper()
	b, err := radial.NewBessel(8, rc, opts...)
	require.NoError(t, err)
	env, err := cutoff.NewPolynomial(6, rc)
	require.NoError(t, err)
	sh, err := spherical.NewEncoder(2)
	require.NoError(t, err)
	asm, err := embedding.NewAssembler(b, env, sh)
	require.NoError(t, err)

	return parts{basis: b, envelope: env, angular: sh, asm: asm}
}

func TestNewAssembler_NilComponent(t *testing.T) {
	p := newParts(t, 2)
	_, err := embedding.NewAssembler(nil, p.envelope, p.angular)
	assert.ErrorIs(t, err, embedding.ErrNilComponent)
	_, err = embedding.NewAssembler(p.basis, nil, p.angular)
	assert.ErrorIs(t, err, embedding.ErrNilComponent)
	_, err = embedding.NewAssembler(p.basis, p.envelope, nil)
	assert.ErrorIs(t, err, embedding.ErrNilComponent)
}

// TestForward_Dimer runs the two-atom scenario through geometry and the
// assembler: rc = 2, polynomial p = 6, one bond of length 1.5.
func TestForward_Dimer(t *testing.T) {
	p := newParts(t, 2.0)
	g := &graphdata.AtomGraph{
		Pos:       mustDense(t, 2, 3, 0, 0, 0, 1.5, 0, 0),
		EdgeIndex: graphdata.EdgeIndex{{0}, {1}},
	}
	_, err := geometry.NewSingleGraph().Preprocess(g)
	require.NoError(t, err)
	require.NoError(t, p.asm.Forward(g))

	assert.Equal(t, []float64{1.5}, g.EdgeLength)
	fc := p.envelope.Eval(1.5)
	assert.Greater(t, fc, 0.0)
	assert.Less(t, fc, 1.0)

	require.Equal(t, 8, g.EdgeEmbedding.Cols())
	var nonzero bool
	for n, v := range g.EdgeEmbedding.RowView(0) {
		want := (2 / 2.0) * math.Sin(float64(n+1)*math.Pi*1.5/2.0) / 1.5 * fc
		assert.InDelta(t, want, v, 1e-12, "n=%d", n+1)
		nonzero = nonzero || v != 0
	}
	assert.True(t, nonzero)

	require.Equal(t, 9, g.EdgeAttr.Cols())
	assert.Equal(t, 1.0, g.EdgeAttr.RowView(0)[0])
	// degree 1 of (1.5, 0, 0) is √3·(1.5, 0, 0)
	assert.InDeltaSlice(t, []float64{math.Sqrt(3) * 1.5, 0, 0}, g.EdgeAttr.RowView(0)[1:4], 1e-12)
}

func TestForward_Idempotent(t *testing.T) {
	p := newParts(t, 5.0)
	g := &graphdata.AtomGraph{EdgeVec: mustDense(t, 3, 3, 1, 2, 0.5, -0.3, 0.9, 2.2, 3.1, -1, 0)}

	require.NoError(t, p.asm.Forward(g))
	emb, attr, lengths := g.EdgeEmbedding.RawData(), g.EdgeAttr.RawData(), g.EdgeLength
	require.NoError(t, p.asm.Forward(g))

	assert.Equal(t, emb, g.EdgeEmbedding.RawData())
	assert.Equal(t, attr, g.EdgeAttr.RawData())
	assert.Equal(t, lengths, g.EdgeLength)
}

func TestForward_Errors(t *testing.T) {
	p := newParts(t, 5.0)
	assert.ErrorIs(t, p.asm.Forward(&graphdata.AtomGraph{}), embedding.ErrMissingField)
	assert.ErrorIs(t, p.asm.Forward(&graphdata.AtomGraph{EdgeVec: mustDense(t, 1, 2, 1, 1)}), embedding.ErrShapeMismatch)

	g := &graphdata.AtomGraph{EdgeVec: mustDense(t, 1, 3, 1, 1, 1)}
	_, err := p.asm.Backward(g, mustDense(t, 1, 3, 1, 1, 1), nil)
	assert.ErrorIs(t, err, embedding.ErrShapeMismatch)
	_, err = p.asm.Backward(g, nil, mustDense(t, 2, 9, make([]float64, 18)...))
	assert.ErrorIs(t, err, embedding.ErrShapeMismatch)
}

func TestForward_NoEdges(t *testing.T) {
	p := newParts(t, 5.0)
	empty, err := matrix.Zeros(0, 3)
	require.NoError(t, err)
	g := &graphdata.AtomGraph{EdgeVec: empty}
	require.NoError(t, p.asm.Forward(g))
	assert.Equal(t, 0, g.EdgeEmbedding.Rows())
	assert.Equal(t, 8, g.EdgeEmbedding.Cols())
	assert.Equal(t, 9, g.EdgeAttr.Cols())
}

// weightedLoss returns L = Σ wEmb·emb + Σ wAttr·attr for the current EdgeVec.
func weightedLoss(t *testing.T, asm *embedding.Assembler, g *graphdata.AtomGraph, wEmb, wAttr *matrix.Dense) float64 {
	t.Helper()
	require.NoError(t, asm.Forward(g))
	var s float64
	for i, v := range g.EdgeEmbedding.RawData() {
		s += wEmb.RawData()[i] * v
	}
	for i, v := range g.EdgeAttr.RawData() {
		s += wAttr.RawData()[i] * v
	}

	return s
}

func fill(t *testing.T, r, c int, seed float64) *matrix.Dense {
	vals := make([]float64, r*c)
	for i := range vals {
		vals[i] = math.Sin(seed * float64(i+1))
	}

	return mustDense(t, r, c, vals...)
}

func TestBackward_FiniteDifference(t *testing.T) {
	p := newParts(t, 5.0)
	vec := mustDense(t, 3, 3, 1, 2, 0.5, -0.3, 0.9, 2.2, 3.1, -1, 0.2)
	wEmb, wAttr := fill(t, 3, 8, 0.7), fill(t, 3, 9, 1.3)

	g := &graphdata.AtomGraph{EdgeVec: vec}
	require.NoError(t, p.asm.Forward(g))
	dVec, err := p.asm.Backward(g, wEmb, wAttr)
	require.NoError(t, err)

	const h = 1e-6
	for e := 0; e < 3; e++ {
		for c := 0; c < 3; c++ {
			plus, minus := vec.Clone(), vec.Clone()
			x, _ := vec.At(e, c)
			require.NoError(t, plus.Set(e, c, x+h))
			require.NoError(t, minus.Set(e, c, x-h))
			fd := (weightedLoss(t, p.asm, &graphdata.AtomGraph{EdgeVec: plus}, wEmb, wAttr) -
				weightedLoss(t, p.asm, &graphdata.AtomGraph{EdgeVec: minus}, wEmb, wAttr)) / (2 * h)
			got, _ := dVec.At(e, c)
			assert.InDelta(t, fd, got, 1e-6, "edge %d axis %d", e, c)
		}
	}
}

func TestBackward_TrainableCoefficients(t *testing.T) {
	p := newParts(t, 5.0, radial.WithTrainable(true))
	vec := mustDense(t, 2, 3, 1, 2, 0.5, -0.3, 0.9, 2.2)
	wEmb, wAttr := fill(t, 2, 8, 0.4), fill(t, 2, 9, 0.9)

	g := &graphdata.AtomGraph{EdgeVec: vec}
	require.NoError(t, p.asm.Forward(g))
	_, err := p.asm.Backward(g, wEmb, nil)
	require.NoError(t, err)
	grad := p.basis.Grad()

	const h = 1e-6
	base := p.basis.Coefficients().Values()
	for n := range base {
		shifted := append([]float64(nil), base...)
		shifted[n] = base[n] + h
		require.NoError(t, p.basis.SetCoefficients(shifted))
		lp := weightedLoss(t, p.asm, &graphdata.AtomGraph{EdgeVec: vec}, wEmb, wAttr)
		shifted[n] = base[n] - h
		require.NoError(t, p.basis.SetCoefficients(shifted))
		lm := weightedLoss(t, p.asm, &graphdata.AtomGraph{EdgeVec: vec}, wEmb, wAttr)
		assert.InDelta(t, (lp-lm)/(2*h), grad[n], 1e-6, "coeff %d", n)
	}
}

// TestBackward_ThroughGeometry chains the assembler and geometry pullbacks
// and compares dL/dpos with central differences of the full forward.
func TestBackward_ThroughGeometry(t *testing.T) {
	p := newParts(t, 4.0)
	pre := geometry.NewSingleGraph(geometry.WithStress(true))
	build := func(pos *matrix.Dense) *graphdata.AtomGraph {
		return &graphdata.AtomGraph{
			Pos:       pos,
			Cell:      mustDense(t, 3, 3, 3.5, 0, 0, 0.2, 3.3, 0, 0, 0.1, 3.8),
			CellShift: mustDense(t, 3, 3, 0, 0, 0, 1, 0, 0, 0, 0, 0),
			EdgeIndex: graphdata.EdgeIndex{{0, 1, 2}, {1, 2, 0}},
		}
	}
	pos := mustDense(t, 3, 3, 0.1, 0.2, 0.3, 1.2, 0.4, 0.1, 0.6, 1.5, 0.9)
	wEmb, wAttr := fill(t, 3, 8, 0.3), fill(t, 3, 9, 0.8)

	loss := func(pos *matrix.Dense) float64 {
		g := build(pos)
		_, err := pre.Preprocess(g)
		require.NoError(t, err)

		return weightedLoss(t, p.asm, g, wEmb, wAttr)
	}

	g := build(pos)
	pb, err := pre.Preprocess(g)
	require.NoError(t, err)
	require.NoError(t, p.asm.Forward(g))
	dVec, err := p.asm.Backward(g, wEmb, wAttr)
	require.NoError(t, err)
	dPos, err := pb.Backward(dVec)
	require.NoError(t, err)

	const h = 1e-6
	for i := 0; i < 3; i++ {
		for c := 0; c < 3; c++ {
			plus, minus := pos.Clone(), pos.Clone()
			x, _ := pos.At(i, c)
			require.NoError(t, plus.Set(i, c, x+h))
			require.NoError(t, minus.Set(i, c, x-h))
			fd := (loss(plus) - loss(minus)) / (2 * h)
			got, _ := dPos.At(i, c)
			assert.InDelta(t, fd, got, 1e-6, "atom %d axis %d", i, c)
		}
	}

	// translation invariance: forces sum to zero
	var sum [3]float64
	for i := 0; i < 3; i++ {
		for c, v := range dPos.RowView(i) {
			sum[c] += v
		}
	}
	assert.InDeltaSlice(t, []float64{0, 0, 0}, sum[:], 1e-12)
	require.NoError(t, matrix.ValidateSymmetric(g.Strain.Grad))
}
