// SPDX-License-Identifier: MIT

// Package geometry turns atom positions, lattice cells and periodic cell
// shifts into per-edge displacement vectors and lengths, optionally through a
// differentiable strain used to obtain stress.
//
// For every directed edge e = (src → dst) owned by graph b = batch[src]:
//
//	edge_vec[e]    = pos'[dst] − pos'[src] + shift[e] · cell'[b]
//	edge_length[e] = ‖edge_vec[e]‖
//
// With stress disabled pos' = pos and cell' = cell. With stress enabled a
// fresh zero strain ε (one 3×3 block per graph) is attached to the graph as
// a differentiable leaf, S = ½(ε + εᵀ), and
//
//	pos'_i  = pos_i  + pos_i · S[batch[i]]
//	cell'_b = cell_b + cell_b · S[b]
//
// Both are new tensors; inputs are never modified.
//
// Two variants implement Preprocessor: SingleGraph (one graph, one 3×3 cell,
// no batch vector required) and BatchedGraph (graphs concatenated along the
// atom axis with a batch vector of graph ids). Stress mode is fixed at
// construction through WithStress.
//
// Preprocess returns a Pullback holding what the backward pass needs.
// Pullback.Backward maps dL/d(edge_vec) to dL/d(pos) and accumulates
// dL/dε into the strain leaf; Stress converts that gradient into a Cauchy
// stress −(∂E/∂ε)/V per graph, V = |det(cell)|.
package geometry
