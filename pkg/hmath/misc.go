package hmath

// Some functions that only operate on basic types, that are useful

func Clamp(f, lo, hi float64) float64 {
	if f < lo { return lo }
	if f > hi { return hi }
	return f
}
