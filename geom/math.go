package geom

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Mod4 maps any integer onto 0..3.
func Mod4(v int) int {
	return ((v % 4) + 4) % 4
}
