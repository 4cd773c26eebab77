// SPDX-License-Identifier: MIT

package embedding

import (
	"errors"

	"github.com/katalvlaran/equigeom/graphdata"
)

var (
	// ErrNilComponent is returned by NewAssembler when a component is nil.
	ErrNilComponent = errors.New("embedding: nil component")

	// ErrMissingField aliases graphdata.ErrMissingField (EdgeVec not computed).
	ErrMissingField = graphdata.ErrMissingField

	// ErrShapeMismatch aliases graphdata.ErrShapeMismatch.
	ErrShapeMismatch = graphdata.ErrShapeMismatch
)
