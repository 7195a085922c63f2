package mathutil

import "math"

// IntMin returns the smaller of two ints.
func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IntMax returns the larger of two ints.
func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Clamp limits v to the closed range [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		return hi
	}
	if v >= lo {
		return v
	}
	return lo
}

// NormalizeAngle wraps an angle in radians into (-Pi, Pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// Frac returns the fractional part of v in [0, 1), also for negative values.
func Frac(v float64) float64 {
	f := v - math.Floor(v)
	if f >= 1 {
		// v was a tiny negative number and the subtraction rounded up
		return 0
	}
	return f
}

// FloorInt floors v to an int.
func FloorInt(v float64) int {
	return int(math.Floor(v))
}
