package profile

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// Plummer is the cored spherical profile
// rho(r) = 3M / (4 pi b^3) * (1 + r^2/b^2)^(-5/2).
type Plummer struct {
	Mass  float64
	Scale float64
}

func (p *Plummer) Density(R, z float64) float64 {
	x2 := (R*R + z*z) / (p.Scale * p.Scale)
	return 3 * p.Mass / (4 * math.Pi * p.Scale * p.Scale * p.Scale) * math.Pow(1+x2, -2.5)
}

func (p *Plummer) TotalMass() float64 { return p.Mass }

// Hernquist is the cuspy spheroid rho(r) = M a / (2 pi r (r+a)^3).
// The density diverges as 1/r at the origin; callers evaluate at r > 0.
type Hernquist struct {
	Mass  float64
	Scale float64
}

func (h *Hernquist) Density(R, z float64) float64 {
	r := math.Sqrt(R*R + z*z)
	if r == 0 {
		return math.Inf(1)
	}
	return h.Mass * h.Scale / (2 * math.Pi * r * (r + h.Scale) * (r + h.Scale) * (r + h.Scale))
}

func (h *Hernquist) TotalMass() float64 { return h.Mass }

// NFW is the cosmological halo profile with an exponential outer taper:
// rho(r) = rho0 / ((r/rs)(1+r/rs)^2) * exp(-(r/rcut)^2).
// The taper makes the total mass finite; rho0 is solved so the total mass
// equals the requested one.
type NFW struct {
	ScaleRadius float64
	CutoffR     float64
	rho0        float64
	mass        float64
}

func NewNFW(mass, rs, rcut float64) *NFW {
	n := &NFW{ScaleRadius: rs, CutoffR: rcut, rho0: 1, mass: mass}
	// Unit-rho0 mass integral, then rescale. The integrand is smooth after
	// the substitution r = rs*exp(u).
	unit := 4 * math.Pi * quad.Fixed(func(u float64) float64 {
		r := rs * math.Exp(u)
		return n.shape(r) * r * r * r
	}, math.Log(1e-6), math.Log(20*rcut/rs), 256, nil, 0)
	n.rho0 = mass / unit
	return n
}

func (n *NFW) shape(r float64) float64 {
	x := r / n.ScaleRadius
	t := r / n.CutoffR
	return math.Exp(-t*t) / (x * (1 + x) * (1 + x))
}

func (n *NFW) Density(R, z float64) float64 {
	r := math.Sqrt(R*R + z*z)
	if r == 0 {
		return math.Inf(1)
	}
	return n.rho0 * n.shape(r)
}

func (n *NFW) TotalMass() float64 { return n.mass }
