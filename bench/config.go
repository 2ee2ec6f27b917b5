// Package bench times repeated runs of a vec3 addition kernel and derives
// throughput figures from them.
package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/ahmedtd/vec3bench/vec3"
)

// Defaults reproduce the reference measurement.
const (
	DefaultSize = 250000
	DefaultRuns = 10
)

var ErrInvalidConfig = errors.New("invalid benchmark configuration")

type Config struct {
	// Size is the number of vectors in each of the three buffers.
	Size int

	// Runs is the number of back-to-back kernel calls in one timed loop.
	Runs int

	Layout vec3.Layout

	// Kernel names a registered kernel; "auto" or "" picks the best one the
	// CPU supports.
	Kernel string

	// Duration, when positive, repeats whole timed loops until it has
	// elapsed.  Zero runs exactly one loop.
	Duration time.Duration
}

func DefaultConfig() Config {
	return Config{
		Size:   DefaultSize,
		Runs:   DefaultRuns,
		Layout: vec3.LayoutAoS,
		Kernel: "auto",
	}
}

func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("%w: runs must be positive, got %d", ErrInvalidConfig, c.Runs)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative, got %v", ErrInvalidConfig, c.Duration)
	}
	switch c.Layout {
	case vec3.LayoutAoS, vec3.LayoutSoA:
	default:
		return fmt.Errorf("%w: %w %v", ErrInvalidConfig, vec3.ErrUnknownLayout, c.Layout)
	}
	return nil
}
