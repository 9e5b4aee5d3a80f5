package geom

import "math"

// Vec3 is a Cartesian position or velocity.
type Vec3 [3]float64

func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// CylR returns the cylindrical radius sqrt(x^2+y^2).
func (v Vec3) CylR() float64 {
	return math.Hypot(v[0], v[1])
}

// FromSpherical builds a Cartesian point in the x-z plane from spherical
// radius r and mu = cos(theta).
func FromSpherical(r, mu float64) Vec3 {
	s := math.Sqrt(1 - mu*mu)
	return Vec3{r * s, 0, r * mu}
}
