// Package potential evaluates gravitational potentials (G = 1). The Multipole
// type solves the Poisson equation for an arbitrary axisymmetric density field
// via a spherical-harmonic expansion on a log-radial grid; this is the global
// re-solve performed on every self-consistent iteration.
package potential

import "math"

// Potential is an axisymmetric gravitational potential.
type Potential interface {
	// Value returns Phi at cylindrical (R, z). Phi -> 0 at infinity.
	Value(R, z float64) float64
	// Force returns (FR, Fz) = -grad Phi at cylindrical (R, z).
	Force(R, z float64) (FR, Fz float64)
}

// Vcirc returns the circular velocity at radius R in the midplane.
func Vcirc(p Potential, R float64) float64 {
	fr, _ := p.Force(R, 0)
	v2 := -fr * R
	if v2 <= 0 {
		return 0
	}
	return math.Sqrt(v2)
}

// d2PhidR2 estimates the second radial derivative of Phi in the midplane by
// central differencing of the force.
func d2PhidR2(p Potential, R float64) float64 {
	h := 1e-4 * R
	frPlus, _ := p.Force(R+h, 0)
	frMinus, _ := p.Force(R-h, 0)
	return -(frPlus - frMinus) / (2 * h)
}

// Epicycle returns the squared epicyclic, vertical, and circular frequencies
// (kappa^2, nu^2, Omega^2) at midplane radius R.
func Epicycle(p Potential, R float64) (kappa2, nu2, omega2 float64) {
	fr, _ := p.Force(R, 0)
	omega2 = -fr / R
	kappa2 = d2PhidR2(p, R) + 3*omega2
	h := 1e-4 * R
	_, fzPlus := p.Force(R, h)
	nu2 = -fzPlus / h
	return kappa2, nu2, omega2
}

// PlummerPot is the analytic potential of the Plummer sphere,
// Phi = -M / sqrt(r^2 + b^2).
type PlummerPot struct {
	Mass  float64
	Scale float64
}

func (p *PlummerPot) Value(R, z float64) float64 {
	return -p.Mass / math.Sqrt(R*R+z*z+p.Scale*p.Scale)
}

func (p *PlummerPot) Force(R, z float64) (float64, float64) {
	d2 := R*R + z*z + p.Scale*p.Scale
	f := p.Mass / (d2 * math.Sqrt(d2))
	return -f * R, -f * z
}

// HernquistPot is the analytic potential Phi = -M / (r + a).
type HernquistPot struct {
	Mass  float64
	Scale float64
}

func (h *HernquistPot) Value(R, z float64) float64 {
	r := math.Sqrt(R*R + z*z)
	return -h.Mass / (r + h.Scale)
}

func (h *HernquistPot) Force(R, z float64) (float64, float64) {
	r := math.Sqrt(R*R + z*z)
	if r == 0 {
		return 0, 0
	}
	f := h.Mass / ((r + h.Scale) * (r + h.Scale) * r)
	return -f * R, -f * z
}
