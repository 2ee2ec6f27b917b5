package vec3

import "github.com/cwbudde/algo-vecmath/cpu"

func init() {
	Global.Register(Kernel{
		Name:       "scalar",
		SIMDLevel:  cpu.SIMDNone,
		Priority:   0,
		GroupWidth: 1,
		Add:        addScalar,
	})
	Global.Register(Kernel{
		Name:       "unrolled",
		SIMDLevel:  cpu.SIMDNone,
		Priority:   5,
		GroupWidth: 4,
		Add:        addUnrolled,
	})
}

func addScalar(r, a, b []float32) {
	// Hints for bounds-check elimination.
	a = a[:len(r)]
	b = b[:len(r)]
	for i := range r {
		r[i] = a[i] + b[i]
	}
}

// addUnrolled is the portable group-of-four strategy for targets without a
// vector kernel.
func addUnrolled(r, a, b []float32) {
	a = a[:len(r)]
	b = b[:len(r)]
	for len(r) >= 4 && len(a) >= 4 && len(b) >= 4 {
		r[0] = a[0] + b[0]
		r[1] = a[1] + b[1]
		r[2] = a[2] + b[2]
		r[3] = a[3] + b[3]
		r, a, b = r[4:], a[4:], b[4:]
	}
	addScalar(r, a, b)
}
