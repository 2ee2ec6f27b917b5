package vec3

import (
	"fmt"

	"github.com/sbinet/npyio/npz"
)

// WriteNPZ saves each named buffer as a flat float32 array of 3*n
// interleaved components.
func WriteNPZ(path string, arrays map[string][]Vector3) error {
	w, err := npz.Create(path)
	if err != nil {
		return fmt.Errorf("while creating npz file: %w", err)
	}

	for name, v := range arrays {
		if err := w.Write(name+".npy", Floats(v)); err != nil {
			w.Close()
			return fmt.Errorf("while writing %s.npy: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("while closing npz file: %w", err)
	}
	return nil
}

// ReadNPZ loads the named buffers written by WriteNPZ.
func ReadNPZ(path string, names ...string) (map[string][]Vector3, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening npz file: %w", err)
	}
	defer r.Close()

	out := map[string][]Vector3{}
	for _, name := range names {
		var raw []float32
		if err := r.Read(name+".npy", &raw); err != nil {
			return nil, fmt.Errorf("while reading %s.npy: %w", name, err)
		}
		if len(raw)%3 != 0 {
			return nil, fmt.Errorf("%s.npy holds %d values, not a multiple of 3", name, len(raw))
		}

		v, err := MakeAoS(len(raw) / 3)
		if err != nil {
			return nil, fmt.Errorf("while allocating %s: %w", name, err)
		}
		copy(Floats(v), raw)
		out[name] = v
	}
	return out, nil
}
