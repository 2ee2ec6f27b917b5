//go:build amd64 && !purego

package vec3

import "github.com/cwbudde/algo-vecmath/cpu"

//go:generate go run ./asm-generators/add-float32s -out add_amd64.s -stubs add_stub_amd64.go -pkg vec3

func init() {
	Global.Register(Kernel{
		Name:       "sse",
		SIMDLevel:  cpu.SIMDSSE2,
		Priority:   10,
		GroupWidth: 4,
		Add:        addSSE,
	})
}

func addSSE(r, a, b []float32) {
	a = a[:len(r)]
	b = b[:len(r)]
	addFloat32sSSE(r, a, b)

	// The assembly stops at the last whole group of four.
	done := len(r) &^ 3
	addScalar(r[done:], a[done:], b[done:])
}
