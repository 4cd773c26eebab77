// SPDX-License-Identifier: MIT

package geometry

import (
	"errors"

	"github.com/katalvlaran/equigeom/graphdata"
)

var (
	// ErrShapeMismatch aliases graphdata.ErrShapeMismatch so either sentinel
	// matches with errors.Is.
	ErrShapeMismatch = graphdata.ErrShapeMismatch

	// ErrIndexOutOfRange aliases graphdata.ErrIndexOutOfRange.
	ErrIndexOutOfRange = graphdata.ErrIndexOutOfRange

	// ErrNilGraph is returned when a nil *AtomGraph is passed.
	ErrNilGraph = errors.New("geometry: nil graph")

	// ErrNoStrain is returned by Stress helpers when the graph carries no
	// strain leaf (stress mode off).
	ErrNoStrain = errors.New("geometry: graph has no strain variable")

	// ErrDegenerateCell is returned when a cell has zero volume.
	ErrDegenerateCell = errors.New("geometry: degenerate cell (zero volume)")
)
