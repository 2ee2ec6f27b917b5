package vec3

import "github.com/cwbudde/algo-vecmath/cpu"

// AddFunc stores a[i]+b[i] into r[i] for every i < len(r).  Callers guarantee
// len(a) and len(b) are at least len(r).
type AddFunc func(r, a, b []float32)

// Kernel is one registered implementation of the element-wise add.
type Kernel struct {
	Name string

	// SIMDLevel is the instruction set the CPU needs to run Add.
	SIMDLevel cpu.SIMDLevel

	// Priority orders kernels during automatic selection; higher wins.
	Priority int

	// GroupWidth is the number of floats processed together by the main
	// loop.  Lengths that are not a multiple of it are finished by a scalar
	// tail.
	GroupWidth int

	Add AddFunc
}

// AddFloat32s computes r[i] = a[i] + b[i] over equal-length slices.
func (k *Kernel) AddFloat32s(r, a, b []float32) {
	if len(a) != len(r) || len(b) != len(r) {
		panic("AddFloat32s: mismatched lengths")
	}
	k.Add(r, a, b)
}

// AddAoS computes r[i] = a[i] + b[i] over interleaved buffers.
//
// The per-group gather of x, y and z lanes and the scatter back to
// interleaved storage are the same permutation, so for an element-wise add
// they cancel and the interleaved floats are added directly.
func (k *Kernel) AddAoS(r, a, b []Vector3) {
	if len(a) != len(r) || len(b) != len(r) {
		panic("AddAoS: mismatched lengths")
	}
	k.Add(Floats(r), Floats(a), Floats(b))
}

// AddSoA computes r[i] = a[i] + b[i] component array by component array.
func (k *Kernel) AddSoA(r, a, b *SoA) {
	n := r.Len()
	if len(r.Y) != n || len(r.Z) != n ||
		len(a.X) != n || len(a.Y) != n || len(a.Z) != n ||
		len(b.X) != n || len(b.Y) != n || len(b.Z) != n {
		panic("AddSoA: mismatched lengths")
	}
	k.Add(r.X, a.X, b.X)
	k.Add(r.Y, a.Y, b.Y)
	k.Add(r.Z, a.Z, b.Z)
}

// AddNaive is the one-vector-at-a-time reference.
func AddNaive(r, a, b []Vector3) {
	if len(a) != len(r) || len(b) != len(r) {
		panic("AddNaive: mismatched lengths")
	}
	for i := range r {
		r[i] = a[i].Add(b[i])
	}
}
