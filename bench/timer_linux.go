//go:build linux

package bench

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ClockName identifies the clock Now reads.
const ClockName = "CLOCK_MONOTONIC_RAW"

// Now returns the current reading of the raw monotonic clock in seconds.  It
// is unaffected by NTP slewing and clock adjustments.
func Now() float64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts); err != nil {
		panic(fmt.Sprintf("clock_gettime(%s): %v", ClockName, err))
	}
	return float64(ts.Sec) + float64(ts.Nsec)*1e-9
}
