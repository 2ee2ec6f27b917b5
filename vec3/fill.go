package vec3

import "github.com/chewxy/math32"

// InputA is the deterministic value of the first operand at index i.
func InputA(i int) Vector3 {
	f := float32(i)
	return Vector3{f * 0.1, f * 0.2, f * 0.3}
}

// InputB is the deterministic value of the second operand at index i.
func InputB(i int) Vector3 {
	f := float32(i)
	return Vector3{f * 0.4, f * 0.5, f * 0.6}
}

func FillAoS(a, b []Vector3) {
	if len(a) != len(b) {
		panic("FillAoS: len(a) != len(b)")
	}
	for i := range a {
		a[i] = InputA(i)
		b[i] = InputB(i)
	}
}

func FillSoA(a, b *SoA) {
	if a.Len() != b.Len() {
		panic("FillSoA: a.Len() != b.Len()")
	}
	for i := 0; i < a.Len(); i++ {
		a.Set(i, InputA(i))
		b.Set(i, InputB(i))
	}
}

// MaxAbs returns the largest component magnitude in v, or NaN if any
// component is NaN.
func MaxAbs(v []Vector3) float32 {
	var m float32
	for _, f := range Floats(v) {
		if math32.IsNaN(f) {
			return math32.NaN()
		}
		m = math32.Max(m, math32.Abs(f))
	}
	return m
}
