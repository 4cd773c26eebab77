package embedding_test

import (
	"fmt"

	"github.com/katalvlaran/equigeom/cutoff"
	"github.com/katalvlaran/equigeom/embedding"
	"github.com/katalvlaran/equigeom/graphdata"
	"github.com/katalvlaran/equigeom/matrix"
	"github.com/katalvlaran/equigeom/radial"
	"github.com/katalvlaran/equigeom/spherical"
)

func ExampleAssembler_Forward() {
	basis, _ := radial.NewBessel(4, 5.0)
	envelope, _ := cutoff.NewPolynomial(6, 5.0)
	angular, _ := spherical.NewEncoder(1)
	asm, err := embedding.NewAssembler(basis, envelope, angular)
	if err != nil {
		panic(err)
	}

	vec, _ := matrix.NewDenseFrom(1, 3, []float64{0, 3, 4})
	g := &graphdata.AtomGraph{EdgeVec: vec}
	if err = asm.Forward(g); err != nil {
		panic(err)
	}
	fmt.Println(g.EdgeLength, g.EdgeEmbedding.Cols(), g.EdgeAttr.Cols())
	// Output: [5] 4 4
}
