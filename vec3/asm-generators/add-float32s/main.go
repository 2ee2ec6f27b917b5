package main

import (
	"github.com/ahmedtd/vec3bench/vec3/asm-generators/genlib"
	. "github.com/mmcloughlin/avo/build"
)

// One block covers four interleaved Vector3 values (12 floats).
var unroll = 3

func main() {
	ConstraintExpr("amd64 && !purego")

	TEXT("addFloat32sSSE", NOSPLIT, "func(r []float32, a []float32, b []float32)")
	Doc("addFloat32sSSE stores a[i]+b[i] into r[i] for every i < len(r)&^3.")

	rPtr := Load(Param("r").Base(), GP64())
	n := Load(Param("r").Len(), GP64())
	aPtr := Load(Param("a").Base(), GP64())
	bPtr := Load(Param("b").Base(), GP64())

	genlib.GenSIMDAdd(n, rPtr, aPtr, bPtr, unroll)

	RET()

	Generate()
}
