// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/katalvlaran/equigeom/cutoff"
	"github.com/katalvlaran/equigeom/embedding"
	"github.com/katalvlaran/equigeom/geometry"
	"github.com/katalvlaran/equigeom/radial"
	"github.com/katalvlaran/equigeom/spherical"
)

// Components are the wired parts described by a Config.
type Components struct {
	Preprocessor geometry.Preprocessor
	Basis        *radial.Bessel
	Envelope     cutoff.Envelope
	Angular      *spherical.Encoder
	Assembler    *embedding.Assembler
}

// Build validates cfg and constructs every component.
func Build(cfg *Config) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	basis, err := radial.NewBessel(cfg.RadialBasis.NumBasis, cfg.Cutoff,
		radial.WithTrainable(cfg.RadialBasis.TrainableCoeff))
	if err != nil {
		return nil, fmt.Errorf("config: radial basis: %w", err)
	}

	var envelope cutoff.Envelope
	switch cfg.CutoffFunction.Name {
	case CutoffXPLOR:
		envelope, err = cutoff.NewXPLOR(cfg.CutoffFunction.CutoffOn, cfg.Cutoff)
	default:
		envelope, err = cutoff.NewPolynomial(cfg.CutoffFunction.PolyCutP, cfg.Cutoff)
	}
	if err != nil {
		return nil, fmt.Errorf("config: cutoff function: %w", err)
	}

	norm, err := spherical.ParseNormalization(cfg.Normalization)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	angular, err := spherical.NewEncoder(cfg.Lmax,
		spherical.WithParity(spherical.Parity(cfg.Parity)),
		spherical.WithNormalization(norm))
	if err != nil {
		return nil, fmt.Errorf("config: angular encoder: %w", err)
	}

	asm, err := embedding.NewAssembler(basis, envelope, angular)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Components{
		Preprocessor: geometry.New(cfg.IsBatchData, geometry.WithStress(cfg.IsStress)),
		Basis:        basis,
		Envelope:     envelope,
		Angular:      angular,
		Assembler:    asm,
	}, nil
}
