// SPDX-License-Identifier: MIT

// Command edgefeat computes equivariant edge features for a structure file.
//
// Usage:
//
//	edgefeat embed --config model.yaml --structure water.yaml [--stress] [--format json]
//	edgefeat irreps --config model.yaml
//
// Without --config the model is read from EQUIGEOM_* environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/equigeom/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "edgefeat:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
