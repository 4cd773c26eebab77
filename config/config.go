// SPDX-License-Identifier: MIT

// Package config defines the construction-time configuration of the edge
// featurizer, its defaults and validation. Loading from YAML files and
// EQUIGEOM_* environment variables lives in loader.go; turning a validated
// Config into components lives in build.go.
package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/equigeom/logging"
	"github.com/katalvlaran/equigeom/spherical"
)

// ErrInvalidConfig reports a configuration value outside its domain.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Cutoff function names.
const (
	CutoffPolynomial = "poly_cut"
	CutoffXPLOR      = "XPLOR"
)

// RadialBasisConfig configures the Bessel basis.
type RadialBasisConfig struct {
	NumBasis       int  `mapstructure:"num_basis" yaml:"num_basis" json:"num_basis"`
	TrainableCoeff bool `mapstructure:"trainable_coeff" yaml:"trainable_coeff" json:"trainable_coeff"`
}

// CutoffFunctionConfig selects and parameterizes the envelope.
type CutoffFunctionConfig struct {
	Name     string  `mapstructure:"name" yaml:"name" json:"name"` // poly_cut | XPLOR
	PolyCutP int     `mapstructure:"poly_cut_p_value" yaml:"poly_cut_p_value" json:"poly_cut_p_value"`
	CutoffOn float64 `mapstructure:"cutoff_on" yaml:"cutoff_on" json:"cutoff_on"`
}

// Config is the full featurizer configuration, fixed at construction.
type Config struct {
	IsStress       bool                 `mapstructure:"is_stress" yaml:"is_stress" json:"is_stress"`
	IsBatchData    bool                 `mapstructure:"is_batch_data" yaml:"is_batch_data" json:"is_batch_data"`
	Cutoff         float64              `mapstructure:"cutoff" yaml:"cutoff" json:"cutoff"`
	RadialBasis    RadialBasisConfig    `mapstructure:"radial_basis" yaml:"radial_basis" json:"radial_basis"`
	CutoffFunction CutoffFunctionConfig `mapstructure:"cutoff_function" yaml:"cutoff_function" json:"cutoff_function"`
	Lmax           int                  `mapstructure:"lmax" yaml:"lmax" json:"lmax"`
	Parity         int                  `mapstructure:"parity" yaml:"parity" json:"parity"`
	Normalization  string               `mapstructure:"normalization" yaml:"normalization" json:"normalization"`
	Log            logging.LogConfig    `mapstructure:"log" yaml:"log" json:"log"`
}

// Validate checks every field and returns the first violation wrapped
// around ErrInvalidConfig.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config: %w", ErrInvalidConfig)
	}
	if !(c.Cutoff > 0) || math.IsInf(c.Cutoff, 0) {
		return fmt.Errorf("cutoff %g must be a positive finite length: %w", c.Cutoff, ErrInvalidConfig)
	}
	if c.RadialBasis.NumBasis <= 0 {
		return fmt.Errorf("radial_basis.num_basis %d must be >= 1: %w", c.RadialBasis.NumBasis, ErrInvalidConfig)
	}

	switch c.CutoffFunction.Name {
	case CutoffPolynomial:
		if c.CutoffFunction.PolyCutP < 1 {
			return fmt.Errorf("cutoff_function.poly_cut_p_value %d must be >= 1: %w", c.CutoffFunction.PolyCutP, ErrInvalidConfig)
		}
	case CutoffXPLOR:
		if c.CutoffFunction.CutoffOn < 0 || c.CutoffFunction.CutoffOn >= c.Cutoff {
			return fmt.Errorf("cutoff_function.cutoff_on %g must lie in [0, %g): %w", c.CutoffFunction.CutoffOn, c.Cutoff, ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("cutoff_function.name %q, expected %s|%s: %w", c.CutoffFunction.Name, CutoffPolynomial, CutoffXPLOR, ErrInvalidConfig)
	}

	if c.Lmax < 0 {
		return fmt.Errorf("lmax %d must be >= 0: %w", c.Lmax, ErrInvalidConfig)
	}
	if !spherical.Parity(c.Parity).Valid() {
		return fmt.Errorf("parity %d must be -1 or 1: %w", c.Parity, ErrInvalidConfig)
	}
	if _, err := spherical.ParseNormalization(c.Normalization); err != nil {
		return fmt.Errorf("normalization %q: %w", c.Normalization, ErrInvalidConfig)
	}

	return nil
}
