package profile

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/galsim/internal/geom"
)

// ShellAverage returns the density averaged over a sphere of radius r.
func ShellAverage(f Field, r float64) float64 {
	// Even in z by construction of all fields here, so integrate mu over [0,1].
	return quad.Fixed(func(mu float64) float64 {
		s := math.Sqrt(1 - mu*mu)
		return f.Density(r*s, r*mu)
	}, 0, 1, 16, nil, 0)
}

// EnclosedMass tabulates the cumulative mass m(<r) of f on the given radii
// by trapezoidal integration of the shell-averaged density.
func EnclosedMass(f Field, radii []float64) []float64 {
	m := make([]float64, len(radii))
	prev := 0.0
	prevIntegrand := 0.0
	for i, r := range radii {
		integrand := 4 * math.Pi * r * r * ShellAverage(f, r)
		if i > 0 {
			prev += 0.5 * (integrand + prevIntegrand) * (r - radii[i-1])
		}
		m[i] = prev
		prevIntegrand = integrand
	}
	return m
}

// SamplePositions draws n positions distributed according to f, restricted to
// radii in [rmin, rmax]. Radii come from inverse-CDF sampling of the enclosed
// mass; the polar angle is drawn by rejection against the density run over mu
// at the sampled radius; azimuth is uniform.
func SamplePositions(f Field, rmin, rmax float64, n int, rng *rand.Rand) []geom.Vec3 {
	radii := geom.LogSpaced(256, rmin, rmax)
	cmf := EnclosedMass(f, radii)
	mtot := cmf[len(cmf)-1]

	out := make([]geom.Vec3, n)
	for i := range out {
		target := rng.Float64() * mtot
		k := sort.SearchFloat64s(cmf, target)
		if k == 0 {
			k = 1
		}
		if k >= len(radii) {
			k = len(radii) - 1
		}
		// Linear interpolation within the bracketing shell.
		frac := (target - cmf[k-1]) / math.Max(cmf[k]-cmf[k-1], 1e-300)
		r := radii[k-1] + frac*(radii[k]-radii[k-1])

		// Rejection in mu against the angular density run at r.
		rhoMax := 0.0
		for _, mu := range []float64{0, 0.25, 0.5, 0.75, 1} {
			if d := f.Density(r*math.Sqrt(1-mu*mu), r*mu); d > rhoMax {
				rhoMax = d
			}
		}
		mu := 0.0
		for try := 0; try < 10000; try++ {
			mu = 2*rng.Float64() - 1
			am := math.Abs(mu)
			d := f.Density(r*math.Sqrt(1-am*am), r*mu)
			if d >= rng.Float64()*rhoMax*1.05 {
				break
			}
		}
		phi := 2 * math.Pi * rng.Float64()
		s := r * math.Sqrt(1-mu*mu)
		out[i] = geom.Vec3{s * math.Cos(phi), s * math.Sin(phi), r * mu}
	}
	return out
}
