// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the environment variable prefix: cutoff_function.name is read
// from EQUIGEOM_CUTOFF_FUNCTION_NAME.
const EnvPrefix = "EQUIGEOM"

// newViper returns a viper instance with YAML config type, EQUIGEOM_ env
// binding and every key registered with its default. Registration is what
// lets AutomaticEnv reach keys that are absent from the file.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("is_stress", d.IsStress)
	v.SetDefault("is_batch_data", d.IsBatchData)
	v.SetDefault("cutoff", d.Cutoff)
	v.SetDefault("radial_basis.num_basis", d.RadialBasis.NumBasis)
	v.SetDefault("radial_basis.trainable_coeff", d.RadialBasis.TrainableCoeff)
	v.SetDefault("cutoff_function.name", d.CutoffFunction.Name)
	v.SetDefault("cutoff_function.poly_cut_p_value", d.CutoffFunction.PolyCutP)
	v.SetDefault("cutoff_function.cutoff_on", d.CutoffFunction.CutoffOn)
	v.SetDefault("lmax", d.Lmax)
	v.SetDefault("parity", d.Parity)
	v.SetDefault("normalization", d.Normalization)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	return v
}

// Load reads the YAML file at path, applies EQUIGEOM_* overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}

	return finalize(v)
}

// LoadFromEnv builds a Config from defaults and EQUIGEOM_* variables only.
func LoadFromEnv() (*Config, error) {
	return finalize(newViper())
}

func finalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}
