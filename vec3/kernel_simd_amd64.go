//go:build goexperiment.simd && amd64

package vec3

import (
	"simd"

	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	Global.Register(Kernel{
		Name:       "simd4",
		SIMDLevel:  cpu.SIMDAVX2,
		Priority:   20,
		GroupWidth: 4,
		Add:        addSIMD4,
	})
	Global.Register(Kernel{
		Name:       "simd8",
		SIMDLevel:  cpu.SIMDAVX2,
		Priority:   30,
		GroupWidth: 8,
		Add:        addSIMD8,
	})
}

// addSIMD4 mirrors the reference 128-bit kernel: one four-lane register per
// component group.
func addSIMD4(r, a, b []float32) {
	a = a[:len(r)]
	b = b[:len(r)]
	for len(r) >= 4 && len(a) >= 4 && len(b) >= 4 {
		simd.LoadFloat32x4Slice(a).Add(simd.LoadFloat32x4Slice(b)).StoreSlice(r)
		r, a, b = r[4:], a[4:], b[4:]
	}
	addScalar(r, a, b)
}

func addSIMD8(r, a, b []float32) {
	a = a[:len(r)]
	b = b[:len(r)]

	// Writing anything slice indexing related in constant keeps the bounds
	// checks out of the loop body.
	for len(r) >= 32 && len(a) >= 32 && len(b) >= 32 {
		a3 := simd.LoadFloat32x8Slice(a[24:])
		a2 := simd.LoadFloat32x8Slice(a[16:])
		a1 := simd.LoadFloat32x8Slice(a[8:])
		a0 := simd.LoadFloat32x8Slice(a[:])
		b3 := simd.LoadFloat32x8Slice(b[24:])
		b2 := simd.LoadFloat32x8Slice(b[16:])
		b1 := simd.LoadFloat32x8Slice(b[8:])
		b0 := simd.LoadFloat32x8Slice(b[:])

		a3.Add(b3).StoreSlice(r[24:])
		a2.Add(b2).StoreSlice(r[16:])
		a1.Add(b1).StoreSlice(r[8:])
		a0.Add(b0).StoreSlice(r[:])

		r, a, b = r[32:], a[32:], b[32:]
	}

	// Handle tail of less than 32 but more than 8 elements.
	for len(r) >= 8 && len(a) >= 8 && len(b) >= 8 {
		simd.LoadFloat32x8Slice(a).Add(simd.LoadFloat32x8Slice(b)).StoreSlice(r)
		r, a, b = r[8:], a[8:], b[8:]
	}

	// Handle final tail of less than 8 elements
	if len(r) > 0 {
		simd.LoadFloat32x8SlicePart(a).Add(simd.LoadFloat32x8SlicePart(b)).StoreSlicePart(r)
	}
}
