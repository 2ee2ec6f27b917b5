//go:build !linux

package bench

import "time"

const ClockName = "go runtime monotonic"

var epoch = time.Now()

// Now returns seconds elapsed on the runtime's monotonic clock since the
// package was initialized.
func Now() float64 {
	return time.Since(epoch).Seconds()
}
