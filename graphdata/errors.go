// SPDX-License-Identifier: MIT

package graphdata

import "errors"

var (
	// ErrShapeMismatch indicates tensor ranks or sizes inconsistent with the
	// graph (e.g., Pos not N×3, Cell not reshape-able to 3×3 blocks).
	ErrShapeMismatch = errors.New("graphdata: shape mismatch")

	// ErrIndexOutOfRange indicates an EdgeIndex or Batch entry referencing a
	// nonexistent atom or graph, or an edge whose endpoints sit in different graphs.
	ErrIndexOutOfRange = errors.New("graphdata: index out of range")

	// ErrMissingField indicates a required input field is nil.
	ErrMissingField = errors.New("graphdata: missing required field")

	// ErrUnknownFormat is returned by Decode for an unsupported document format.
	ErrUnknownFormat = errors.New("graphdata: unknown document format")
)
