package potential

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/galsim/internal/geom"
)

// SphericalOpts controls the angular averaging grid of NewSpherical.
type SphericalOpts struct {
	NR         int
	RMin, RMax float64
}

func (o *SphericalOpts) setDefaults() {
	if o.NR == 0 {
		o.NR = 100
	}
	if o.RMin == 0 {
		o.RMin = 1e-3
	}
	if o.RMax == 0 {
		o.RMax = 1e3
	}
}

// Spherical is the monopole (angle-averaged) part of another potential.
// It is the spherically-symmetric approximation used to bootstrap isotropic
// distribution functions via Eddington inversion.
type Spherical struct {
	rmin, rmax float64
	phiMin     float64 // value at rmin
	gMin       float64 // radial derivative at rmin
	phiMax     float64
	mtot       float64 // effective mass for the -M/r continuation
	phi        *interp.AkimaSpline
	dphi       *interp.AkimaSpline
}

// NewSpherical averages p over angles on a log-radial grid.
func NewSpherical(p Potential, opt SphericalOpts) *Spherical {
	opt.setDefaults()
	radii := geom.LogSpaced(opt.NR, opt.RMin, opt.RMax)
	lnr := make([]float64, opt.NR)
	phis := make([]float64, opt.NR)
	dphis := make([]float64, opt.NR)
	for i, r := range radii {
		lnr[i] = math.Log(r)
		phis[i] = quad.Fixed(func(mu float64) float64 {
			s := math.Sqrt(1 - mu*mu)
			return p.Value(r*s, r*mu)
		}, 0, 1, 16, nil, 0)
		dphis[i] = quad.Fixed(func(mu float64) float64 {
			s := math.Sqrt(1 - mu*mu)
			fr, fz := p.Force(r*s, r*mu)
			return -(fr*s + fz*mu) // radial derivative of Phi
		}, 0, 1, 16, nil, 0)
	}
	s := &Spherical{
		rmin:   opt.RMin,
		rmax:   opt.RMax,
		phiMin: phis[0],
		gMin:   dphis[0],
		phiMax: phis[opt.NR-1],
		mtot:   dphis[opt.NR-1] * opt.RMax * opt.RMax,
		phi:    &interp.AkimaSpline{},
		dphi:   &interp.AkimaSpline{},
	}
	if err := s.phi.Fit(lnr, phis); err != nil {
		panic("potential: spherical spline fit: " + err.Error())
	}
	if err := s.dphi.Fit(lnr, dphis); err != nil {
		panic("potential: spherical spline fit: " + err.Error())
	}
	return s
}

// ValueR returns the averaged potential at spherical radius r.
func (s *Spherical) ValueR(r float64) float64 {
	switch {
	case r >= s.rmax:
		if s.mtot > 0 {
			return -s.mtot / r
		}
		return s.phiMax * s.rmax / r
	case r <= s.rmin:
		// Homogeneous-core continuation, consistent with Multipole.
		return s.phiMin - s.gMin*(s.rmin*s.rmin-r*r)/(2*s.rmin)
	default:
		return s.phi.Predict(math.Log(r))
	}
}

// DerivR returns dPhi/dr at spherical radius r.
func (s *Spherical) DerivR(r float64) float64 {
	switch {
	case r >= s.rmax:
		if s.mtot > 0 {
			return s.mtot / (r * r)
		}
		return -s.phiMax * s.rmax / (r * r)
	case r <= s.rmin:
		return s.gMin * r / s.rmin
	default:
		return s.dphi.Predict(math.Log(r))
	}
}

func (s *Spherical) Value(R, z float64) float64 {
	return s.ValueR(math.Sqrt(R*R + z*z))
}

func (s *Spherical) Force(R, z float64) (float64, float64) {
	r := math.Sqrt(R*R + z*z)
	if r == 0 {
		return 0, 0
	}
	g := s.DerivR(r)
	return -g * R / r, -g * z / r
}
