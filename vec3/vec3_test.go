package vec3

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuffersAreAligned(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 250000} {
		a := mustAoS(t, n)
		if !IsAligned(a) {
			t.Errorf("MakeAoS(%d) not %d-byte aligned", n, Alignment)
		}
		if len(a) != n || len(Floats(a)) != 3*n {
			t.Errorf("MakeAoS(%d): len %d, floats %d", n, len(a), len(Floats(a)))
		}

		s := mustSoA(t, n)
		for _, c := range [][]float32{s.X, s.Y, s.Z} {
			if !IsAligned(c) {
				t.Errorf("MakeSoA(%d) component not %d-byte aligned", n, Alignment)
			}
			if len(c) != n || cap(c) != n {
				t.Errorf("MakeSoA(%d): component len %d cap %d", n, len(c), cap(c))
			}
		}
	}
}

func TestMakeRejectsImpossibleSizes(t *testing.T) {
	for _, n := range []int{0, -1, math.MaxInt / 2, math.MaxInt} {
		if _, err := MakeAoS(n); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("MakeAoS(%d) err = %v, want ErrInvalidSize", n, err)
		}
	}
	for _, n := range []int{0, -7, math.MaxInt} {
		if _, err := MakeSoA(n); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("MakeSoA(%d) err = %v, want ErrInvalidSize", n, err)
		}
	}
}

func TestFloatsSharesStorage(t *testing.T) {
	v := mustAoS(t, 2)
	f := Floats(v)
	f[4] = 7

	if diff := cmp.Diff(v, []Vector3{{0, 0, 0}, {0, 7, 0}}); diff != "" {
		t.Fatalf("Wrong output; diff (-got +want)\n%s", diff)
	}
	if Floats(nil) != nil {
		t.Errorf("Floats(nil) should be nil")
	}
}

func TestParseLayout(t *testing.T) {
	for in, want := range map[string]Layout{"aos": LayoutAoS, "AoS": LayoutAoS, "interleaved": LayoutAoS, "soa": LayoutSoA, "separate": LayoutSoA} {
		got, err := ParseLayout(in)
		if err != nil || got != want {
			t.Errorf("ParseLayout(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLayout("zigzag"); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("ParseLayout(zigzag) err = %v, want ErrUnknownLayout", err)
	}
	if LayoutSoA.String() != "soa" || LayoutAoS.String() != "aos" {
		t.Errorf("unexpected layout names %s %s", LayoutAoS, LayoutSoA)
	}
}

func TestInterleave(t *testing.T) {
	s := mustSoA(t, 3)
	for i := 0; i < 3; i++ {
		s.Set(i, Vector3{float32(i), float32(10 * i), float32(100 * i)})
	}

	got, err := s.Interleave()
	if err != nil {
		t.Fatalf("Interleave: %v", err)
	}
	want := []Vector3{{0, 0, 0}, {1, 10, 100}, {2, 20, 200}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Wrong output; diff (-got +want)\n%s", diff)
	}
}

func TestFillIsDeterministic(t *testing.T) {
	n := 10007
	a1, b1 := mustAoS(t, n), mustAoS(t, n)
	a2, b2 := mustAoS(t, n), mustAoS(t, n)
	FillAoS(a1, b1)
	FillAoS(a2, b2)

	if diff := cmp.Diff(a1, a2); diff != "" {
		t.Fatalf("a differs between fills; diff (-first +second)\n%s", diff)
	}
	if diff := cmp.Diff(b1, b2); diff != "" {
		t.Fatalf("b differs between fills; diff (-first +second)\n%s", diff)
	}

	sa, sb := mustSoA(t, n), mustSoA(t, n)
	FillSoA(sa, sb)
	for _, i := range []int{0, 1, 17, n - 1} {
		if sa.At(i) != a1[i] || sb.At(i) != b1[i] {
			t.Fatalf("SoA fill differs from AoS fill at %d", i)
		}
	}
}

func TestFillFormula(t *testing.T) {
	a, b := mustAoS(t, 11), mustAoS(t, 11)
	FillAoS(a, b)

	f := float32(10)
	if want := (Vector3{f * 0.1, f * 0.2, f * 0.3}); a[10] != want {
		t.Errorf("a[10] = %v, want %v", a[10], want)
	}
	if want := (Vector3{f * 0.4, f * 0.5, f * 0.6}); b[10] != want {
		t.Errorf("b[10] = %v, want %v", b[10], want)
	}
	if a[0] != (Vector3{}) || b[0] != (Vector3{}) {
		t.Errorf("index 0 should be the zero vector, got %v %v", a[0], b[0])
	}
}

func TestMaxAbs(t *testing.T) {
	v := []Vector3{{1, -5, 2}, {0, 3, -4.5}}
	if got := MaxAbs(v); got != 5 {
		t.Errorf("MaxAbs = %v, want 5", got)
	}
}
