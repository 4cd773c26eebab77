// SPDX-License-Identifier: MIT

// Package cli implements the edgefeat command tree.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/equigeom/config"
	"github.com/katalvlaran/equigeom/logging"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// RootOptions holds the persistent flags.
type RootOptions struct {
	ConfigPath string
	Format     string
	Verbose    bool
}

// NewRootCommand builds the edgefeat root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "edgefeat",
		Short: "Equivariant edge features for atomistic graphs",
		Long: "edgefeat computes edge vectors, Bessel radial embeddings with a smooth cutoff " +
			"and real spherical harmonic attributes for a structure file, optionally with " +
			"strain gradients for stress.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != FormatText && opts.Format != FormatJSON {
				return WrapExitError(ExitCommandError, "invalid flag",
					fmt.Errorf("format %q: must be %s or %s", opts.Format, FormatText, FormatJSON))
			}

			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "model configuration YAML (default: EQUIGEOM_* environment)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewEmbedCommand(opts))
	cmd.AddCommand(NewIrrepsCommand(opts))

	return cmd
}

// loadConfig reads the configuration selected by the root flags.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading configuration", err)
	}

	return cfg, nil
}

// newLogger builds the stderr logger; --verbose forces debug level.
func newLogger(opts *RootOptions, cfg *config.Config, w io.Writer) logging.Logger {
	lc := cfg.Log
	if opts.Verbose {
		lc.Level = logging.LevelDebug
	}

	return logging.NewLogger(lc, w).Named("edgefeat")
}

func formatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}
