// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep algorithmic determinism (fixed loop orders, no map iteration).
//   - Support zero-row tensors (graphs without edges) through Zeros.
//
// Notes:
//   - Per-atom and per-edge tensors are N×3 / E×k; RowView gives a no-copy
//     row slice for tight loops, Row gives an independent copy.
//   - Batched 3×3 cells are stored stacked as (3G)×3; Block(3g, 3) extracts graph g.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone/Reshape: O(r*c); Block: O(rows*c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt      = "At"      // method tag used in error wrappers
	ctxSet     = "Set"     // method tag used in error wrappers
	ctxRow     = "Row"     // method tag used in error wrappers
	ctxReshape = "Reshape" // method tag used in error wrappers
	ctxBlock   = "Block"   // method tag used in error wrappers
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Format: "Dense.<method>(row,col): %w"; preserves the sentinel for errors.Is.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
//   - validateNaNInf enables NaN/Inf rejection in Set.
type Dense struct {
	r, c           int       // row and column counts (r>=0, c>0)
	data           []float64 // contiguous row-major storage (len == r*c)
	validateNaNInf bool      // numeric guard: reject NaN/Inf in Set when true
}

// Compile-time assertion for fmt.Stringer conformance.
var _ fmt.Stringer = (*Dense)(nil)

// NewDense creates an r×c zero matrix using row-major storage.
// MAIN DESCRIPTION:
//   - Public constructor for Dense with strict shape validation and default numeric policy.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrBadShape.
//   - Stage 2: allocate zero-filled buffer and resolve policy from opts.
//
// Errors:
//   - ErrBadShape (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
//
// Notes:
//   - Use Zeros when a legal 0×c tensor is needed (edge-free graphs).
func NewDense(rows, cols int, opts ...Option) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrBadShape)
	}

	return newDense(rows, cols, gatherOptions(opts...)), nil
}

// Zeros creates an r×c zero matrix and, unlike NewDense, accepts rows == 0.
// Columns must stay positive so that per-row feature width is always defined.
//
// Errors:
//   - ErrBadShape when rows < 0 or cols <= 0.
func Zeros(rows, cols int, opts ...Option) (*Dense, error) {
	if rows < 0 || cols <= 0 {
		return nil, fmt.Errorf("Zeros(%d,%d): %w", rows, cols, ErrBadShape)
	}

	return newDense(rows, cols, gatherOptions(opts...)), nil
}

// NewDenseFrom builds an r×c matrix from row-major data. The slice is copied,
// so later mutation of data never reaches the matrix.
//
// Implementation:
//   - Stage 1: validate shape (rows may be 0) and len(data) == rows*cols.
//   - Stage 2: under the numeric policy, reject NaN/Inf with coordinates.
//   - Stage 3: copy into a fresh buffer.
//
// Errors:
//   - ErrBadShape, ErrDimensionMismatch, ErrNaNInf.
func NewDenseFrom(rows, cols int, data []float64, opts ...Option) (*Dense, error) {
	m, err := Zeros(rows, cols, opts...)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom(%d,%d): len(data)=%d: %w", rows, cols, len(data), ErrDimensionMismatch)
	}
	if m.validateNaNInf {
		for idx, v := range data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, denseErrorf(ctxSet, idx/cols, idx%cols, ErrNaNInf)
			}
		}
	}
	copy(m.data, data)

	return m, nil
}

// newDense is the shared allocation path; shape is assumed valid.
func newDense(rows, cols int, o Options) *Dense {
	return &Dense{
		r:              rows,
		c:              cols,
		data:           make([]float64, rows*cols),
		validateNaNInf: o.validateNaNInf,
	}
}

// like allocates a zero matrix of the given shape inheriting m's numeric policy.
func (m *Dense) like(rows, cols int) *Dense {
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols), validateNaNInf: m.validateNaNInf}
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Shape returns (rows, cols).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// Len returns the total element count rows*cols.
func (m *Dense) Len() int { return len(m.data) }

// indexOf computes the row-major offset or returns ErrOutOfRange wrapped with
// the caller's method context.
// Complexity: O(1).
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
//
// Errors:
//   - ErrOutOfRange (wrapped as "Dense.At(i,j): ...").
//
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns v at (row, col).
//
// Errors:
//   - ErrOutOfRange on bad indices; ErrNaNInf when v is not finite under policy.
//
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	if m.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Row returns an independent copy of row i.
//
// Errors:
//   - ErrOutOfRange when i is outside [0, Rows()).
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf(ctxRow, i, 0, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// RowView returns row i as a slice aliasing the backing buffer.
// Writes through the slice bypass the numeric policy; callers that only read
// (hot loops in geometry/embedding) should prefer it over Row.
// Panics on an out-of-range i (programmer error in internal loops).
func (m *Dense) RowView(i int) []float64 {
	return m.data[i*m.c : (i+1)*m.c : (i+1)*m.c]
}

// RawData returns a copy of the row-major buffer.
func (m *Dense) RawData() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)

	return out
}

// Clone returns a deep copy of m that preserves the numeric policy.
// Complexity: O(r*c).
func (m *Dense) Clone() *Dense {
	cp := m.like(m.r, m.c)
	copy(cp.data, m.data)

	return cp
}

// Reshape returns a copy of m viewed as rows×cols in row-major order.
// MAIN DESCRIPTION:
//   - Reinterpret the flat buffer with a new shape, e.g. a G×9 cell tensor as (3G)×3.
//
// Errors:
//   - ErrBadShape when rows*cols != Len() or cols <= 0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func (m *Dense) Reshape(rows, cols int) (*Dense, error) {
	if rows < 0 || cols <= 0 || rows*cols != len(m.data) {
		return nil, fmt.Errorf("Dense.%s(%d,%d) from %dx%d: %w", ctxReshape, rows, cols, m.r, m.c, ErrBadShape)
	}
	out := m.like(rows, cols)
	copy(out.data, m.data)

	return out, nil
}

// Block copies rows [r0, r0+rows) into a new rows×Cols() matrix.
//
// Errors:
//   - ErrOutOfRange when the window leaves the matrix.
func (m *Dense) Block(r0, rows int) (*Dense, error) {
	if r0 < 0 || rows < 0 || r0+rows > m.r {
		return nil, denseErrorf(ctxBlock, r0, rows, ErrOutOfRange)
	}
	out := m.like(rows, m.c)
	copy(out.data, m.data[r0*m.c:(r0+rows)*m.c])

	return out, nil
}

// String renders rows as "[a, b, c]" lines for diagnostics.
// Not for hot paths.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ {
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}
