package vec3

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Registry stores the kernels available in this build.
type Registry struct {
	mu      sync.RWMutex
	entries []Kernel
	sorted  bool
}

// Global is the registry every kernel in this package registers with.
var Global = &Registry{}

func (r *Registry) Register(k Kernel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, k)
	r.sorted = false
}

func (r *Registry) sort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sorted {
		slices.SortStableFunc(r.entries, func(x, y Kernel) int {
			return cmp.Compare(y.Priority, x.Priority)
		})
		r.sorted = true
	}
}

// Lookup returns the highest-priority kernel the given features can run, or
// nil if none is registered.
func (r *Registry) Lookup(features cpu.Features) *Kernel {
	r.sort()

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.entries {
		if cpu.Supports(features, k.SIMDLevel) {
			return &k
		}
	}
	return nil
}

func (r *Registry) ByName(name string) *Kernel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.entries {
		if k.Name == name {
			return &k
		}
	}
	return nil
}

// Entries returns the registered kernels, highest priority first.
func (r *Registry) Entries() []Kernel {
	r.sort()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.entries)
}

// Select resolves a kernel name.  The empty string and "auto" pick the best
// kernel for features; any other name must be registered and runnable.
func (r *Registry) Select(name string, features cpu.Features) (*Kernel, error) {
	if name == "" || name == "auto" {
		k := r.Lookup(features)
		if k == nil {
			return nil, fmt.Errorf("%w: nothing registered for %s", ErrUnknownKernel, features.Architecture)
		}
		return k, nil
	}

	k := r.ByName(name)
	if k == nil {
		return nil, fmt.Errorf("%w %q", ErrUnknownKernel, name)
	}
	if !cpu.Supports(features, k.SIMDLevel) {
		return nil, fmt.Errorf("%w: %s needs %v", ErrUnsupportedKernel, name, k.SIMDLevel)
	}
	return k, nil
}

// Select resolves name against Global using the detected CPU features.
func Select(name string) (*Kernel, error) {
	return Global.Select(name, cpu.DetectFeatures())
}
