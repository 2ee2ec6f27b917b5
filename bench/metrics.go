package bench

import "math"

// FLOPsPerVector is the number of scalar additions in one Vector3 add.
const FLOPsPerVector = 3

// TotalFLOPs counts the scalar additions performed by runs kernel calls over
// size vectors.
func TotalFLOPs(size, runs int) float64 {
	return FLOPsPerVector * float64(size) * float64(runs)
}

// MFLOPS converts an operation count and elapsed seconds into millions of
// operations per second.  A zero, negative or non-finite elapsed time yields
// 0 so a timer that failed to advance never produces Inf or NaN.
func MFLOPS(flops, seconds float64) float64 {
	if seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0
	}
	return flops / seconds / 1e6
}
