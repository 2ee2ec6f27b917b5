// Package vec3 holds the Vector3 buffers and the element-wise addition kernels
// measured by the benchmark harness.
package vec3

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// Alignment is the byte boundary every buffer handed out by this package
// starts on.  It must be at least the widest vector register the registered
// kernels load from (16 bytes for SSE and NEON).
const Alignment = 16

var (
	ErrInvalidSize       = errors.New("invalid buffer size")
	ErrUnknownLayout     = errors.New("unknown layout")
	ErrUnknownKernel     = errors.New("unknown kernel")
	ErrUnsupportedKernel = errors.New("kernel not supported by this CPU")
)

type Vector3 struct {
	X, Y, Z float32
}

func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Layout selects how the three components of a vector are stored.
type Layout int

const (
	// LayoutAoS stores vectors interleaved: x0 y0 z0 x1 y1 z1 ...
	LayoutAoS Layout = iota
	// LayoutSoA stores each component in its own array.
	LayoutSoA
)

func (l Layout) String() string {
	switch l {
	case LayoutAoS:
		return "aos"
	case LayoutSoA:
		return "soa"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "aos", "interleaved":
		return LayoutAoS, nil
	case "soa", "separate":
		return LayoutSoA, nil
	default:
		return 0, fmt.Errorf("%w %q (want aos or soa)", ErrUnknownLayout, s)
	}
}

// SoA is the non-interleaved layout.  All three slices have the same length.
type SoA struct {
	X, Y, Z []float32
}

func (s *SoA) Len() int {
	return len(s.X)
}

func (s *SoA) At(i int) Vector3 {
	return Vector3{s.X[i], s.Y[i], s.Z[i]}
}

func (s *SoA) Set(i int, v Vector3) {
	s.X[i] = v.X
	s.Y[i] = v.Y
	s.Z[i] = v.Z
}

// Interleave copies s into a freshly allocated AoS buffer.
func (s *SoA) Interleave() ([]Vector3, error) {
	out, err := MakeAoS(s.Len())
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = s.At(i)
	}
	return out, nil
}

// MakeAoS allocates n zeroed vectors whose first component starts on an
// Alignment boundary.
func MakeAoS(n int) ([]Vector3, error) {
	if n <= 0 || n > math.MaxInt/3 {
		return nil, fmt.Errorf("%w: %d vectors", ErrInvalidSize, n)
	}
	flat, err := alignedFloat32s(3 * n)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*Vector3)(unsafe.Pointer(unsafe.SliceData(flat))), n), nil
}

// MakeSoA allocates three aligned component arrays of n elements each.
func MakeSoA(n int) (*SoA, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d vectors", ErrInvalidSize, n)
	}
	s := &SoA{}
	for _, dst := range []*[]float32{&s.X, &s.Y, &s.Z} {
		c, err := alignedFloat32s(n)
		if err != nil {
			return nil, err
		}
		*dst = c
	}
	return s, nil
}

// Floats views v as its 3*len(v) interleaved components.  No data is copied.
func Floats(v []Vector3) []float32 {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(unsafe.SliceData(v))), 3*len(v))
}

// IsAligned reports whether the first element of s sits on an Alignment
// boundary.  Empty slices are trivially aligned.
func IsAligned[T any](s []T) bool {
	if len(s) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))%Alignment == 0
}

func alignedFloat32s(n int) (s []float32, err error) {
	const pad = Alignment/4 - 1

	if n <= 0 || n > math.MaxInt-pad {
		return nil, fmt.Errorf("%w: %d floats", ErrInvalidSize, n)
	}

	// make panics rather than returning an error when the length is beyond
	// what the runtime will ever hand out.  Surface that as an error so the
	// caller can report it.
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: allocating %d floats: %v", ErrInvalidSize, n, r)
		}
	}()

	raw := make([]float32, n+pad)
	off := 0
	if rem := uintptr(unsafe.Pointer(&raw[0])) % Alignment; rem != 0 {
		off = int((Alignment - rem) / 4)
	}
	return raw[off : off+n : off+n], nil
}
