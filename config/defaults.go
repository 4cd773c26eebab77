// SPDX-License-Identifier: MIT

package config

import "github.com/katalvlaran/equigeom/logging"

// Default values.
const (
	DefaultCutoff         = 5.0
	DefaultNumBasis       = 8
	DefaultTrainableCoeff = true
	DefaultCutoffFunction = CutoffPolynomial
	DefaultPolyCutP       = 6
	DefaultLmax           = 2
	DefaultParity         = -1
	DefaultNormalization  = "component"
	DefaultLogLevel       = logging.LevelInfo
	DefaultLogFormat      = logging.FormatConsole
)

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		Cutoff:         DefaultCutoff,
		RadialBasis:    RadialBasisConfig{NumBasis: DefaultNumBasis, TrainableCoeff: DefaultTrainableCoeff},
		CutoffFunction: CutoffFunctionConfig{Name: DefaultCutoffFunction, PolyCutP: DefaultPolyCutP},
		Lmax:           DefaultLmax,
		Parity:         DefaultParity,
		Normalization:  DefaultNormalization,
		Log:            logging.LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// ApplyDefaults fills zero-value fields of cfg whose zero value is never
// valid. Lmax, the booleans and cutoff_on are left alone since zero is a
// legitimate setting for them.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Cutoff == 0 {
		cfg.Cutoff = DefaultCutoff
	}
	if cfg.RadialBasis.NumBasis == 0 {
		cfg.RadialBasis.NumBasis = DefaultNumBasis
	}
	if cfg.CutoffFunction.Name == "" {
		cfg.CutoffFunction.Name = DefaultCutoffFunction
	}
	if cfg.CutoffFunction.PolyCutP == 0 {
		cfg.CutoffFunction.PolyCutP = DefaultPolyCutP
	}
	if cfg.Parity == 0 {
		cfg.Parity = DefaultParity
	}
	if cfg.Normalization == "" {
		cfg.Normalization = DefaultNormalization
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
