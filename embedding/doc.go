// SPDX-License-Identifier: MIT

// Package embedding assembles per-edge features from edge vectors:
//
//	edge_length[e]    = ‖edge_vec[e]‖
//	edge_embedding[e] = RadialBasis(edge_length[e]) · Envelope(edge_length[e])
//	edge_attr[e]      = AngularEncoder(edge_vec[e])
//
// The three components are injected; the Assembler holds no state of its own
// and Forward is a pure function of the edge vectors and the component
// parameters. Backward propagates gradients of the embedding and attribute
// tensors back to the edge vectors, which is the input expected by
// geometry.Pullback.Backward.
package embedding
