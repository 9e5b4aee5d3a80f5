package geom

import "math"

// LogSpaced returns n nodes logarithmically spaced on [min, max].
// min and max must be positive and n at least 2.
func LogSpaced(n int, min, max float64) []float64 {
	xs := make([]float64, n)
	lmin, lmax := math.Log(min), math.Log(max)
	for i := range xs {
		xs[i] = math.Exp(lmin + (lmax-lmin)*float64(i)/float64(n-1))
	}
	xs[0], xs[n-1] = min, max
	return xs
}

// Linspace returns n nodes uniformly spaced on [min, max].
func Linspace(n int, min, max float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = min + (max-min)*float64(i)/float64(n-1)
	}
	return xs
}

// SinhSpaced returns n nodes on [0, max] clustered towards zero, with a
// roughly uniform spacing of scale near the origin growing exponentially
// outwards. Used for the vertical grid of disk-like components, which need
// resolution near the midplane.
func SinhSpaced(n int, max, scale float64) []float64 {
	umax := math.Asinh(max / scale)
	xs := make([]float64, n)
	for i := range xs {
		u := umax * float64(i) / float64(n-1)
		xs[i] = scale * math.Sinh(u)
	}
	xs[n-1] = max
	return xs
}
