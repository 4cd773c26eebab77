// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/equigeom/config"
	"github.com/katalvlaran/equigeom/featurizer"
	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/logging"
	"github.com/katalvlaran/equigeom/matrix"
)

// EmbedOptions holds the embed flags.
type EmbedOptions struct {
	StructurePath string
	Stress        bool
}

// EmbedResult is the output of embed. The gradient fields are filled only
// in stress mode and are taken for L = Σ edge_embedding.
type EmbedResult struct {
	NumAtoms      int         `json:"num_atoms"`
	NumEdges      int         `json:"num_edges"`
	AttrIrreps    string      `json:"edge_attr_irreps"`
	EdgeLength    []float64   `json:"edge_length"`
	EdgeEmbedding [][]float64 `json:"edge_embedding"`
	EdgeAttr      [][]float64 `json:"edge_attr"`
	PosGrad       [][]float64 `json:"pos_grad,omitempty"`
	StrainGrad    [][]float64 `json:"strain_grad,omitempty"`
	Stress        [][]float64 `json:"stress_voigt,omitempty"`
}

// WriteText implements textWriter.
func (r *EmbedResult) WriteText(w io.Writer) error {
	var err error
	printf := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("atoms: %d  edges: %d  edge_attr: %s\n", r.NumAtoms, r.NumEdges, r.AttrIrreps)
	for e := range r.EdgeLength {
		printf("edge %d  r=%.6f\n  embedding %s\n  attr      %s\n",
			e, r.EdgeLength[e], formatRow(r.EdgeEmbedding[e]), formatRow(r.EdgeAttr[e]))
	}
	if r.StrainGrad != nil {
		printf("strain_grad (d Σemb / dε)\n")
		for _, row := range r.StrainGrad {
			printf("  %s\n", formatRow(row))
		}
	}
	if r.Stress != nil {
		printf("stress_voigt (xx yy zz xy yz zx)\n")
		for g, row := range r.Stress {
			printf("  graph %d  %s\n", g, formatRow(row))
		}
	}

	return err
}

// NewEmbedCommand evaluates edge features for a structure file.
func NewEmbedCommand(root *RootOptions) *cobra.Command {
	opts := &EmbedOptions{}

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compute edge embeddings and attributes for a structure",
		Long: "embed reads a YAML or JSON structure (pos, edge_index, pbc_shift, " +
			"cell_lattice_vectors, batch), runs the featurizer and prints edge lengths, " +
			"radial embeddings and spherical harmonic attributes. With --stress it also " +
			"back-propagates the summed embedding to positions and strain.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("stress") {
				cfg.IsStress = opts.Stress
			}
			logger := newLogger(root, cfg, cmd.ErrOrStderr())
			defer func() { _ = logger.Sync() }()

			result, err := runEmbed(cfg, opts.StructurePath, logger)
			if err != nil {
				return err
			}

			return formatter(cmd, root).Success(result)
		},
	}

	cmd.Flags().StringVarP(&opts.StructurePath, "structure", "s", "", "structure file (.yaml, .yml or .json)")
	cmd.Flags().BoolVar(&opts.Stress, "stress", false, "compute strain gradient and stress (overrides is_stress)")
	_ = cmd.MarkFlagRequired("structure")

	return cmd
}

func runEmbed(cfg *config.Config, path string, logger logging.Logger) (*EmbedResult, error) {
	comps, err := config.Build(cfg)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "building components", err)
	}
	feat, err := featurizer.New(comps.Preprocessor, comps.Assembler, logger)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "creating featurizer", err)
	}

	g, err := readStructure(path)
	if err != nil {
		return nil, err
	}
	logger.Info("structure loaded",
		logging.String("path", path),
		logging.Int("atoms", g.NumAtoms()),
		logging.Int("edges", g.NumEdges()))

	pass, err := feat.Forward(g)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "forward pass", err)
	}

	res := &EmbedResult{
		NumAtoms:      g.NumAtoms(),
		NumEdges:      g.NumEdges(),
		AttrIrreps:    comps.Angular.Irreps().String(),
		EdgeLength:    g.EdgeLength,
		EdgeEmbedding: rows(g.EdgeEmbedding),
		EdgeAttr:      rows(g.EdgeAttr),
	}
	if !cfg.IsStress {
		return res, nil
	}

	ones := make([]float64, g.EdgeEmbedding.Len())
	for i := range ones {
		ones[i] = 1
	}
	dEmb, err := matrix.NewDenseFrom(g.EdgeEmbedding.Rows(), g.EdgeEmbedding.Cols(), ones)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "seeding gradient", err)
	}
	dPos, err := feat.Backward(pass, dEmb, nil)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "backward pass", err)
	}
	res.PosGrad = rows(dPos)
	res.StrainGrad = rows(g.Strain.Grad)

	voigt, err := feat.Stress(pass)
	if err != nil {
		// non-periodic input: gradients are still meaningful, stress is not
		logger.Warn("skipping stress", logging.Err(err))
		return res, nil
	}
	res.Stress = rows(voigt)

	return res, nil
}

// readStructure decodes the file at path. Validation is left to the
// preprocessor, which knows the configured batching mode.
func readStructure(path string) (*graphdata.AtomGraph, error) {
	format, err := graphdata.FormatFromPath(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "structure file", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "structure file", err)
	}
	defer f.Close()

	g, err := graphdata.Decode(f, format)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "structure file", err)
	}

	return g, nil
}

// rows copies m into a slice of rows; nil for a nil matrix.
func rows(m *matrix.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, m.Rows())
	for i := range out {
		out[i] = append([]float64(nil), m.RowView(i)...)
	}

	return out
}

func formatRow(row []float64) string {
	s := "["
	for i, v := range row {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("% .6f", v)
	}

	return s + "]"
}
