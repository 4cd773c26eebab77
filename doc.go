// SPDX-License-Identifier: MIT

// Package equigeom turns an atom graph into the edge features consumed by
// E(3)-equivariant interatomic potentials, and back-propagates gradients of
// those features to positions and strain.
//
// 🚀 What is equigeom?
//
//	A small library with one job per package:
//		• graphdata   – the typed atom graph and its structure-file decoder
//		• geometry    – edge vectors and lengths under periodic images, with
//		                an optional symmetric strain for stress
//		• radial      – Bessel radial basis, fixed or trainable frequencies
//		• cutoff      – polynomial and XPLOR envelopes vanishing at rc
//		• spherical   – real spherical harmonics up to lmax in three
//		                normalizations, with irreps labels
//		• embedding   – the assembler writing edge_embedding and edge_attr
//		• featurizer  – forward and backward of the whole pipeline
//		• config      – viper-backed model configuration and component wiring
//		• logging     – a zap-backed logger
//		• matrix      – the row-major Dense container underneath it all
//
// ✨ Data flow
//
//	pos, cell, pbc_shift, edge_index ──► geometry ──► edge_vec, edge_length
//	                                                     │
//	                    radial × cutoff ◄────────────────┤
//	                          │                          ▼
//	                  edge_embedding (E×n)        spherical ──► edge_attr (E×(lmax+1)²)
//
// Every forward step has an explicit backward step. Feeding dL/d(edge_embedding)
// and dL/d(edge_attr) to featurizer.Backward yields dL/d(pos) (the negative
// force) and, in stress mode, dL/d(strain), from which geometry.Stress
// derives the Cauchy stress σ = −(1/V)·dL/dε.
//
// Quick start:
//
//	cfg := config.Default()
//	cfg.IsStress = true
//	parts, _ := config.Build(cfg)
//	f, _ := featurizer.New(parts.Preprocessor, parts.Assembler, nil)
//	pass, _ := f.Forward(g)
//	dPos, _ := f.Backward(pass, dEmbedding, dAttr)
//	voigt, _ := f.Stress(pass)
//
// The edgefeat command (cmd/edgefeat) exposes the same pipeline for YAML or
// JSON structure files.
//
//	go install github.com/katalvlaran/equigeom/cmd/edgefeat@latest
package equigeom
