package vec3

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/google/go-cmp/cmp"
)

var testSizes = []int{1, 2, 3, 4, 5, 7, 8, 12, 13, 16, 31, 32, 33, 100, 1000, 4096}

// runnableKernels returns every registered kernel this machine can execute.
func runnableKernels(t testing.TB) []Kernel {
	t.Helper()
	features := cpu.DetectFeatures()
	var out []Kernel
	for _, k := range Global.Entries() {
		if cpu.Supports(features, k.SIMDLevel) {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		t.Fatalf("no runnable kernels registered")
	}
	return out
}

func mustAoS(t testing.TB, n int) []Vector3 {
	t.Helper()
	v, err := MakeAoS(n)
	if err != nil {
		t.Fatalf("MakeAoS(%d): %v", n, err)
	}
	return v
}

func mustSoA(t testing.TB, n int) *SoA {
	t.Helper()
	s, err := MakeSoA(n)
	if err != nil {
		t.Fatalf("MakeSoA(%d): %v", n, err)
	}
	return s
}

func TestAddAoSMatchesNaive(t *testing.T) {
	for _, k := range runnableKernels(t) {
		for _, n := range testSizes {
			t.Run("impl="+k.Name+"/size="+strconv.Itoa(n), func(t *testing.T) {
				a, b := mustAoS(t, n), mustAoS(t, n)
				FillAoS(a, b)

				got := mustAoS(t, n)
				k.AddAoS(got, a, b)

				want := mustAoS(t, n)
				AddNaive(want, a, b)

				if diff := cmp.Diff(got, want); diff != "" {
					t.Fatalf("Wrong output; diff (-got +want)\n%s", diff)
				}
			})
		}
	}
}

func TestAddSoAMatchesAoS(t *testing.T) {
	for _, k := range runnableKernels(t) {
		for _, n := range testSizes {
			t.Run("impl="+k.Name+"/size="+strconv.Itoa(n), func(t *testing.T) {
				a, b, r := mustSoA(t, n), mustSoA(t, n), mustSoA(t, n)
				FillSoA(a, b)
				k.AddSoA(r, a, b)

				got, err := r.Interleave()
				if err != nil {
					t.Fatalf("Interleave: %v", err)
				}

				aa, ab, want := mustAoS(t, n), mustAoS(t, n), mustAoS(t, n)
				FillAoS(aa, ab)
				AddNaive(want, aa, ab)

				if diff := cmp.Diff(got, want); diff != "" {
					t.Fatalf("Wrong output; diff (-got +want)\n%s", diff)
				}
			})
		}
	}
}

func TestAddOneGroup(t *testing.T) {
	for _, k := range runnableKernels(t) {
		t.Run("impl="+k.Name, func(t *testing.T) {
			a, b, r := mustAoS(t, 4), mustAoS(t, 4), mustAoS(t, 4)
			for i := range b {
				b[i] = Vector3{1, 2, 3}
			}

			k.AddAoS(r, a, b)

			want := []Vector3{{1, 2, 3}, {1, 2, 3}, {1, 2, 3}, {1, 2, 3}}
			if diff := cmp.Diff(r, want); diff != "" {
				t.Fatalf("Wrong output; diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestAddTwoGroups(t *testing.T) {
	for _, k := range runnableKernels(t) {
		t.Run("impl="+k.Name, func(t *testing.T) {
			a, b, r := mustAoS(t, 8), mustAoS(t, 8), mustAoS(t, 8)
			want := make([]Vector3, 8)
			for i := range a {
				f := float32(i)
				a[i] = Vector3{f, f, f}
				b[i] = Vector3{1, 1, 1}
				want[i] = Vector3{f + 1, f + 1, f + 1}
			}

			k.AddAoS(r, a, b)

			if diff := cmp.Diff(r, want); diff != "" {
				t.Fatalf("Wrong output; diff (-got +want)\n%s", diff)
			}
		})
	}
}

func TestAddIsIdempotent(t *testing.T) {
	for _, k := range runnableKernels(t) {
		t.Run("impl="+k.Name, func(t *testing.T) {
			n := 1003
			a, b := mustAoS(t, n), mustAoS(t, n)
			FillAoS(a, b)

			first, second := mustAoS(t, n), mustAoS(t, n)
			k.AddAoS(first, a, b)
			k.AddAoS(second, a, b)
			// Running again into a dirty buffer must overwrite, not accumulate.
			k.AddAoS(first, a, b)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Fatalf("Outputs differ between runs; diff (-first +second)\n%s", diff)
			}
		})
	}
}

func TestAddStaysInBounds(t *testing.T) {
	const guard = 16
	sentinel := float32(-12345)

	for _, k := range runnableKernels(t) {
		for _, n := range []int{1, 3, 4, 5, 12, 13, 33} {
			t.Run("impl="+k.Name+"/size="+strconv.Itoa(n), func(t *testing.T) {
				buf := make([]float32, guard+n+guard)
				for i := range buf {
					buf[i] = sentinel
				}
				a := make([]float32, guard+n+guard)
				b := make([]float32, guard+n+guard)
				for i := range a {
					a[i] = float32(i)
					b[i] = 1
				}

				k.AddFloat32s(buf[guard:guard+n], a[guard:guard+n], b[guard:guard+n])

				for i := 0; i < guard; i++ {
					if buf[i] != sentinel || buf[guard+n+i] != sentinel {
						t.Fatalf("kernel wrote outside [0, %d)", n)
					}
				}
				for i := guard; i < guard+n; i++ {
					if want := float32(i) + 1; buf[i] != want {
						t.Fatalf("r[%d] = %v, want %v", i-guard, buf[i], want)
					}
				}
			})
		}
	}
}

func TestAddMismatchedLengthsPanics(t *testing.T) {
	k := Global.ByName("scalar")
	if k == nil {
		t.Fatalf("scalar kernel not registered")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("AddFloat32s should panic on mismatched lengths")
		}
	}()
	k.AddFloat32s(make([]float32, 4), make([]float32, 4), make([]float32, 5))
}

func BenchmarkAdd(b *testing.B) {
	for _, layout := range []Layout{LayoutAoS, LayoutSoA} {
		b.Run("layout="+layout.String(), func(b *testing.B) {
			for _, k := range runnableKernels(b) {
				b.Run("impl="+k.Name, func(b *testing.B) {
					for i := 8; i < 16; i += 2 {
						n := 2 << i
						b.Run("size="+strconv.Itoa(n), func(b *testing.B) {
							b.SetBytes(int64(n) * 3 * 4 * 3)
							switch layout {
							case LayoutSoA:
								x, y, z := mustSoA(b, n), mustSoA(b, n), mustSoA(b, n)
								FillSoA(x, y)
								for b.Loop() {
									k.AddSoA(z, x, y)
								}
							default:
								x, y, z := mustAoS(b, n), mustAoS(b, n), mustAoS(b, n)
								FillAoS(x, y)
								for b.Loop() {
									k.AddAoS(z, x, y)
								}
							}
						})
					}
				})
			}
		})
	}
}
