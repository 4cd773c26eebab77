// SPDX-License-Identifier: MIT

package graphdata

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/equigeom/matrix"
)

// Format selects the structure document encoding.
type Format string

// Supported document formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%q: %w", path, ErrUnknownFormat)
	}
}

// document is the on-disk shape of a structure file. Tensors are nested
// lists so the files stay hand-editable.
type document struct {
	Pos       [][]float64 `json:"pos" yaml:"pos"`
	Cell      [][]float64 `json:"cell_lattice_vectors,omitempty" yaml:"cell_lattice_vectors,omitempty"`
	CellShift [][]float64 `json:"pbc_shift,omitempty" yaml:"pbc_shift,omitempty"`
	EdgeIndex [][]int     `json:"edge_index" yaml:"edge_index"`
	Batch     []int       `json:"batch,omitempty" yaml:"batch,omitempty"`
}

// Decode reads a structure document and builds the input fields of an
// AtomGraph. The result is not validated; call Validate before use.
func Decode(r io.Reader, format Format) (*AtomGraph, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("graphdata: decoding yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("graphdata: decoding json: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}

	return doc.toGraph()
}

func (d *document) toGraph() (*AtomGraph, error) {
	g := &AtomGraph{Batch: d.Batch}
	var err error

	if g.Pos, err = rowsToDense(KeyPos, d.Pos, 3); err != nil {
		return nil, err
	}
	if d.Cell != nil {
		if g.Cell, err = rowsToDense(KeyCell, d.Cell, 3); err != nil {
			return nil, err
		}
	}
	if d.CellShift != nil {
		if g.CellShift, err = rowsToDense(KeyCellShift, d.CellShift, 3); err != nil {
			return nil, err
		}
	}

	switch len(d.EdgeIndex) {
	case 0:
		g.EdgeIndex = EdgeIndex{[]int{}, []int{}}
	case 2:
		g.EdgeIndex = EdgeIndex{d.EdgeIndex[0], d.EdgeIndex[1]}
	default:
		return nil, fmt.Errorf("%s: %d rows, want 2: %w", KeyEdgeIndex, len(d.EdgeIndex), ErrShapeMismatch)
	}

	return g, nil
}

// rowsToDense flattens a list of rows that must all have width cols.
func rowsToDense(k Key, rows [][]float64, cols int) (*matrix.Dense, error) {
	flat := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%s: row %d has %d values, want %d: %w", k, i, len(row), cols, ErrShapeMismatch)
		}
		flat = append(flat, row...)
	}
	m, err := matrix.NewDenseFrom(len(rows), cols, flat)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}

	return m, nil
}
