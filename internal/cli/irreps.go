// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/equigeom/config"
)

// IrrepsResult describes the edge feature layout of a configuration.
type IrrepsResult struct {
	EdgeAttrIrreps string `json:"edge_attr_irreps"`
	EdgeAttrDim    int    `json:"edge_attr_dim"`
	EmbeddingDim   int    `json:"edge_embedding_dim"`
	Normalization  string `json:"normalization"`
}

// WriteText implements textWriter.
func (r IrrepsResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "edge_attr:      %s (dim %d, %s)\nedge_embedding: %dx0e\n",
		r.EdgeAttrIrreps, r.EdgeAttrDim, r.Normalization, r.EmbeddingDim)

	return err
}

// NewIrrepsCommand prints the irreps of the configured edge features.
func NewIrrepsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "irreps",
		Short: "Print the irreps of edge attributes and embeddings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			c, err := config.Build(cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "building components", err)
			}

			return formatter(cmd, root).Success(IrrepsResult{
				EdgeAttrIrreps: c.Angular.Irreps().String(),
				EdgeAttrDim:    c.Angular.Dim(),
				EmbeddingDim:   c.Basis.NumBasis(),
				Normalization:  c.Angular.Normalization().String(),
			})
		},
	}
}
