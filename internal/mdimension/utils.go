package mdimension

import (
	"fmt"
	"math"
)

func isFinite(x float64) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func checkDimension(n int) error {
	if n < MinDimension || n > MaxDimension {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrDimension, n, MinDimension, MaxDimension)
	}
	return nil
}
