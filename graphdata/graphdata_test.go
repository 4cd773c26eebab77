package graphdata_test

import (
	"strings"
	"testing"

	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDense(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err)

	return m
}

// twoGraphs builds a batch of two dimers, 0-1 in graph 0 and 2-3 in graph 1.
func twoGraphs(t *testing.T) *graphdata.AtomGraph {
	return &graphdata.AtomGraph{
		Pos: mustDense(t, 4, 3,
			0, 0, 0,
			1, 0, 0,
			0, 0, 0,
			0, 2, 0),
		Cell:      mustDense(t, 2, 9, 5, 0, 0, 0, 5, 0, 0, 0, 5, 6, 0, 0, 0, 6, 0, 0, 0, 6),
		CellShift: mustDense(t, 2, 3, 0, 0, 0, 1, 0, 0),
		EdgeIndex: graphdata.EdgeIndex{{0, 2}, {1, 3}},
		Batch:     []int{0, 0, 1, 1},
	}
}

func TestValidate_OK(t *testing.T) {
	g := twoGraphs(t)
	require.NoError(t, g.Validate(true))
	assert.Equal(t, 2, g.NumGraphs())
	assert.Equal(t, 4, g.NumAtoms())
	assert.Equal(t, 2, g.NumEdges())
	assert.True(t, g.Has(graphdata.KeyCell))
	assert.False(t, g.Has(graphdata.KeyStrain))
}

func TestValidate_Failures(t *testing.T) {
	for _, tc := range []struct {
		name    string
		mutate  func(g *graphdata.AtomGraph)
		batched bool
		want    error
	}{
		{"missing pos", func(g *graphdata.AtomGraph) { g.Pos = nil }, true, graphdata.ErrMissingField},
		{"pos width", func(g *graphdata.AtomGraph) { g.Pos = mustDense(t, 4, 2, make([]float64, 8)...) }, true, graphdata.ErrShapeMismatch},
		{"edge out of range", func(g *graphdata.AtomGraph) { g.EdgeIndex[1][0] = 4 }, true, graphdata.ErrIndexOutOfRange},
		{"ragged edge index", func(g *graphdata.AtomGraph) { g.EdgeIndex[1] = []int{1} }, true, graphdata.ErrShapeMismatch},
		{"shift rows", func(g *graphdata.AtomGraph) { g.CellShift = mustDense(t, 1, 3, 0, 0, 0) }, true, graphdata.ErrShapeMismatch},
		{"batch length", func(g *graphdata.AtomGraph) { g.Batch = []int{0, 0, 1} }, true, graphdata.ErrShapeMismatch},
		{"batch gap", func(g *graphdata.AtomGraph) { g.Batch = []int{0, 0, 2, 2} }, true, graphdata.ErrIndexOutOfRange},
		{"batch missing", func(g *graphdata.AtomGraph) { g.Batch = nil }, true, graphdata.ErrMissingField},
		{"cross-graph edge", func(g *graphdata.AtomGraph) { g.EdgeIndex[1][0] = 3 }, true, graphdata.ErrIndexOutOfRange},
		{"cell size", func(g *graphdata.AtomGraph) { g.Cell = mustDense(t, 1, 9, make([]float64, 9)...) }, true, graphdata.ErrShapeMismatch},
		{"single cell size", func(g *graphdata.AtomGraph) {}, false, graphdata.ErrShapeMismatch},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := twoGraphs(t)
			tc.mutate(g)
			assert.ErrorIs(t, g.Validate(tc.batched), tc.want)
		})
	}
}

func TestCellBlocksAndShifts(t *testing.T) {
	g := twoGraphs(t)
	cells, err := g.CellBlocks(2)
	require.NoError(t, err)
	assert.Equal(t, 6, cells.Rows())
	v, err := cells.At(3, 0)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = g.CellBlocks(3)
	assert.ErrorIs(t, err, graphdata.ErrShapeMismatch)

	g.Cell, g.CellShift = nil, nil
	cells, err = g.CellBlocks(2)
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 18), cells.RawData())
	shifts, err := g.Shifts()
	require.NoError(t, err)
	assert.Equal(t, 2, shifts.Rows())
}

func TestVariable_Accumulate(t *testing.T) {
	v, err := graphdata.NewLeaf(mustDense(t, 3, 3, make([]float64, 9)...))
	require.NoError(t, err)
	require.True(t, v.RequiresGrad())

	g := mustDense(t, 3, 3, 1, 0, 0, 0, 1, 0, 0, 0, 1)
	require.NoError(t, v.AccumulateGrad(g))
	require.NoError(t, v.AccumulateGrad(g))
	assert.Equal(t, 2.0, v.Grad.RowView(1)[1])

	v.ZeroGrad()
	assert.Equal(t, make([]float64, 9), v.Grad.RawData())

	var frozen *graphdata.Variable
	assert.False(t, frozen.RequiresGrad())
	assert.NoError(t, frozen.AccumulateGrad(g))
}

func TestNewLeaf_NilValue(t *testing.T) {
	v, err := graphdata.NewLeaf(nil)
	assert.ErrorIs(t, err, graphdata.ErrMissingField)
	assert.Nil(t, v)

	// a zero Dense has no columns, so no gradient can be allocated for it
	v, err = graphdata.NewLeaf(&matrix.Dense{})
	assert.ErrorIs(t, err, graphdata.ErrShapeMismatch)
	assert.Nil(t, v)
}

func TestDecode_YAMLAndJSON(t *testing.T) {
	const doc = `
pos:
  - [0, 0, 0]
  - [1.5, 0, 0]
pbc_shift:
  - [0, 0, 0]
edge_index:
  - [0]
  - [1]
`
	g, err := graphdata.Decode(strings.NewReader(doc), graphdata.FormatYAML)
	require.NoError(t, err)
	require.NoError(t, g.Validate(false))
	assert.Equal(t, 2, g.NumAtoms())
	assert.Equal(t, []int{1}, g.EdgeIndex.Dst())
	assert.Nil(t, g.Cell)

	const js = `{"pos": [[0,0,0],[0,1,0]], "edge_index": [[0,1],[1,0]], "batch": [0,0]}`
	g, err = graphdata.Decode(strings.NewReader(js), graphdata.FormatJSON)
	require.NoError(t, err)
	require.NoError(t, g.Validate(true))
	assert.Equal(t, 2, g.NumEdges())

	_, err = graphdata.Decode(strings.NewReader(`{"pos": [[0,0]]}`), graphdata.FormatJSON)
	assert.ErrorIs(t, err, graphdata.ErrShapeMismatch)
	_, err = graphdata.Decode(strings.NewReader(js), graphdata.Format("xml"))
	assert.ErrorIs(t, err, graphdata.ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	f, err := graphdata.FormatFromPath("water.YML")
	require.NoError(t, err)
	assert.Equal(t, graphdata.FormatYAML, f)

	_, err = graphdata.FormatFromPath("water.xyz")
	assert.ErrorIs(t, err, graphdata.ErrUnknownFormat)
}
