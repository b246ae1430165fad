package math

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates from a to b by t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
