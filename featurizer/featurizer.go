// SPDX-License-Identifier: MIT

// Package featurizer runs geometry preprocessing and edge embedding as one
// forward pass and chains their backward passes, which is what a force and
// stress head calls after the network has produced dE/d(edge features).
package featurizer

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/equigeom/embedding"
	"github.com/katalvlaran/equigeom/geometry"
	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/logging"
	"github.com/katalvlaran/equigeom/matrix"
)

// ErrNoForward is returned by Backward when Forward has not run on the graph.
var ErrNoForward = errors.New("featurizer: backward before forward")

// Featurizer composes a Preprocessor and an Assembler.
type Featurizer struct {
	pre    geometry.Preprocessor
	asm    *embedding.Assembler
	logger logging.Logger
}

// Pass is the state of one forward evaluation.
type Pass struct {
	graph    *graphdata.AtomGraph
	pullback *geometry.Pullback
}

// Graph returns the graph the pass wrote into.
func (p *Pass) Graph() *graphdata.AtomGraph { return p.graph }

// New returns a Featurizer. A nil logger is replaced by logging.NewNop.
func New(pre geometry.Preprocessor, asm *embedding.Assembler, logger logging.Logger) (*Featurizer, error) {
	if pre == nil || asm == nil {
		return nil, fmt.Errorf("featurizer: %w", embedding.ErrNilComponent)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Featurizer{pre: pre, asm: asm, logger: logger.Named("featurizer")}, nil
}

// Forward preprocesses g and assembles its edge features.
func (f *Featurizer) Forward(g *graphdata.AtomGraph) (*Pass, error) {
	pb, err := f.pre.Preprocess(g)
	if err != nil {
		f.logger.Error("preprocess failed", logging.Err(err))
		return nil, err
	}
	if err = f.asm.Forward(g); err != nil {
		f.logger.Error("embedding failed", logging.Err(err))
		return nil, err
	}
	f.logger.Debug("forward",
		logging.Int("atoms", g.NumAtoms()),
		logging.Int("edges", g.NumEdges()),
		logging.Bool("batched", f.pre.Batched()),
		logging.Bool("stress", f.pre.Stress()),
		logging.Shape(string(graphdata.KeyEdgeEmbedding), g.EdgeEmbedding.Rows(), g.EdgeEmbedding.Cols()),
		logging.Shape(string(graphdata.KeyEdgeAttr), g.EdgeAttr.Rows(), g.EdgeAttr.Cols()),
	)

	return &Pass{graph: g, pullback: pb}, nil
}

// Backward propagates dL/d(edge_embedding) and dL/d(edge_attr) (either may be
// nil) to dL/d(pos). In stress mode the strain gradient accumulates into
// the graph's Strain leaf.
func (f *Featurizer) Backward(p *Pass, dEmbedding, dAttr *matrix.Dense) (*matrix.Dense, error) {
	if p == nil || p.pullback == nil {
		return nil, ErrNoForward
	}
	dVec, err := f.asm.Backward(p.graph, dEmbedding, dAttr)
	if err != nil {
		return nil, err
	}
	dPos, err := p.pullback.Backward(dVec)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("backward", logging.Bool("strain", p.pullback.Strain() != nil))

	return dPos, nil
}

// Stress returns the per-graph Cauchy stress in Voigt order (G×6) from the
// strain gradient accumulated by Backward.
func (f *Featurizer) Stress(p *Pass) (*matrix.Dense, error) {
	if p == nil {
		return nil, ErrNoForward
	}
	sigma, err := geometry.GraphStress(p.graph)
	if err != nil {
		f.logger.Warn("stress unavailable", logging.Err(err))
		return nil, err
	}

	return geometry.Voigt(sigma)
}
