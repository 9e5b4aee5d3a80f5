// Package galaxy bundles a potential, a distribution function, and an action
// finder to answer density, moment, and sampling queries. It is the velocity-
// space integration engine behind DF-based model components.
package galaxy

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/df"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
	"github.com/san-kum/galsim/internal/snapshot"
)

// ErrNoConvergence indicates the velocity-space integral at a point did not
// reach the requested relative tolerance when the quadrature was refined.
var ErrNoConvergence = errors.New("galaxy: velocity integration did not converge")

// Options tunes the velocity-space quadrature.
type Options struct {
	TolRel     float64 // relative tolerance per point (default 1e-3)
	NodesSpeed int     // base node count for the ergodic speed integral
	NodesVR    int     // base node counts for the triple action-space quadrature
	NodesVz    int
	NodesVphi  int
	ZMax       float64 // vertical extent for projected moments
}

func (o *Options) setDefaults() {
	if o.TolRel == 0 {
		o.TolRel = 1e-3
	}
	if o.NodesSpeed == 0 {
		o.NodesSpeed = 40
	}
	if o.NodesVR == 0 {
		o.NodesVR = 10
	}
	if o.NodesVz == 0 {
		o.NodesVz = 8
	}
	if o.NodesVphi == 0 {
		o.NodesVphi = 20
	}
	if o.ZMax == 0 {
		o.ZMax = 5
	}
}

// Model answers DF-weighted queries in a fixed potential.
type Model struct {
	Pot potential.Potential
	DF  df.DistributionFunction
	AF  *actions.Finder
	Opt Options
}

func New(pot potential.Potential, d df.DistributionFunction, af *actions.Finder, opt Options) *Model {
	opt.setDefaults()
	return &Model{Pot: pot, DF: d, AF: af, Opt: opt}
}

// Density integrates the DF over velocity space at cylindrical (R, z). The
// quadrature is evaluated at two resolutions; disagreement beyond the
// relative tolerance reports ErrNoConvergence alongside the finer estimate.
func (m *Model) Density(R, z float64) (float64, error) {
	psi := -m.Pot.Value(R, z)
	if psi <= 0 {
		return 0, nil
	}
	if e, ok := m.DF.(df.EnergyDF); ok {
		return m.densityErgodic(e, psi)
	}
	coarse := m.densityAction(R, z, psi, 1)
	fine := m.densityAction(R, z, psi, 3.0/2)
	if relDiff(coarse, fine) > m.Opt.TolRel {
		return fine, ErrNoConvergence
	}
	return fine, nil
}

func (m *Model) densityErgodic(e df.EnergyDF, psi float64) (float64, error) {
	vmax := math.Sqrt(2 * psi)
	integ := func(n int) float64 {
		return 4 * math.Pi * quad.Fixed(func(v float64) float64 {
			return e.ValueE(v*v/2-psi) * v * v
		}, 0, vmax, n, nil, 0)
	}
	coarse := integ(m.Opt.NodesSpeed)
	fine := integ(m.Opt.NodesSpeed * 3 / 2)
	if relDiff(coarse, fine) > m.Opt.TolRel {
		return fine, ErrNoConvergence
	}
	return fine, nil
}

// densityAction performs the triple quadrature over (vR, vz, vphi) for an
// action-based DF, at the base node counts scaled by refine.
func (m *Model) densityAction(R, z, psi float64, refine float64) float64 {
	vmax := math.Sqrt(2 * psi)
	nR := int(float64(m.Opt.NodesVR) * refine)
	nZ := int(float64(m.Opt.NodesVz) * refine)
	nP := int(float64(m.Opt.NodesVphi) * refine)
	// The DF is even in vR and vz (only vR^2, vz^2 enter the actions),
	// hence the factor 4 and half-range integrals.
	return 4 * quad.Fixed(func(vR float64) float64 {
		return quad.Fixed(func(vz float64) float64 {
			return quad.Fixed(func(vphi float64) float64 {
				if vR*vR+vz*vz+vphi*vphi >= 2*psi {
					return 0 // unbound
				}
				return m.DF.Value(m.AF.FromPosVel(R, z, vR, vz, vphi))
			}, -vmax, vmax, nP, nil, 0)
		}, 0, vmax, nZ, nil, 0)
	}, 0, vmax, nR, nil, 0)
}

// Moments are the DF-weighted velocity moments at a point.
type Moments struct {
	Rho       float64
	MeanVphi  float64
	SigmaR2   float64
	SigmaZ2   float64
	SigmaPhi2 float64 // dispersion about the mean rotation
}

// Moments integrates density, mean azimuthal streaming, and the diagonal
// velocity dispersion tensor at cylindrical (R, z).
func (m *Model) Moments(R, z float64) (Moments, error) {
	psi := -m.Pot.Value(R, z)
	if psi <= 0 {
		return Moments{}, nil
	}
	if e, ok := m.DF.(df.EnergyDF); ok {
		rho, err := m.densityErgodic(e, psi)
		if rho <= 0 {
			return Moments{}, err
		}
		vmax := math.Sqrt(2 * psi)
		v4 := 4 * math.Pi * quad.Fixed(func(v float64) float64 {
			return e.ValueE(v*v/2-psi) * v * v * v * v
		}, 0, vmax, m.Opt.NodesSpeed*3/2, nil, 0)
		s2 := v4 / (3 * rho)
		return Moments{Rho: rho, SigmaR2: s2, SigmaZ2: s2, SigmaPhi2: s2}, err
	}

	vmax := math.Sqrt(2 * psi)
	var rho, mvphi, mvphi2, mvR2, mvz2 float64
	weight := func(w func(vR, vz, vphi float64) float64) float64 {
		return 4 * quad.Fixed(func(vR float64) float64 {
			return quad.Fixed(func(vz float64) float64 {
				return quad.Fixed(func(vphi float64) float64 {
					if vR*vR+vz*vz+vphi*vphi >= 2*psi {
						return 0
					}
					return w(vR, vz, vphi) * m.DF.Value(m.AF.FromPosVel(R, z, vR, vz, vphi))
				}, -vmax, vmax, m.Opt.NodesVphi*3/2, nil, 0)
			}, 0, vmax, m.Opt.NodesVz*3/2, nil, 0)
		}, 0, vmax, m.Opt.NodesVR*3/2, nil, 0)
	}
	rho = weight(func(vR, vz, vphi float64) float64 { return 1 })
	if rho <= 0 {
		return Moments{}, nil
	}
	mvphi = weight(func(vR, vz, vphi float64) float64 { return vphi }) / rho
	mvphi2 = weight(func(vR, vz, vphi float64) float64 { return vphi * vphi }) / rho
	mvR2 = weight(func(vR, vz, vphi float64) float64 { return vR * vR }) / rho
	mvz2 = weight(func(vR, vz, vphi float64) float64 { return vz * vz }) / rho

	coarse, _ := m.Density(R, z)
	var err error
	if relDiff(coarse, rho) > m.Opt.TolRel {
		err = ErrNoConvergence
	}
	return Moments{
		Rho:       rho,
		MeanVphi:  mvphi,
		SigmaR2:   mvR2,
		SigmaZ2:   mvz2,
		SigmaPhi2: math.Max(mvphi2-mvphi*mvphi, 0),
	}, err
}

// ProjectedMoments integrates density and the vertical dispersion along z,
// returning the surface density and line-of-sight dispersion at radius R.
func (m *Model) ProjectedMoments(R float64) (sigma, sigmaLOS float64, err error) {
	var wSigma2 float64
	n := 24
	dz := m.Opt.ZMax / float64(n)
	for i := 0; i <= n; i++ {
		z := float64(i) * dz
		mom, merr := m.Moments(R, z)
		if merr != nil {
			err = merr
		}
		w := dz
		if i == 0 || i == n {
			w /= 2
		}
		// Factor 2 for the z < 0 half by symmetry.
		sigma += 2 * w * mom.Rho
		wSigma2 += 2 * w * mom.Rho * mom.SigmaZ2
	}
	if sigma > 0 {
		sigmaLOS = math.Sqrt(wSigma2 / sigma)
	}
	return sigma, sigmaLOS, err
}

// densityAdapter exposes the DF-derived density as a profile.Field for the
// generic position sampler.
type densityAdapter struct{ m *Model }

func (a densityAdapter) Density(R, z float64) float64 {
	rho, _ := a.m.Density(R, z)
	return rho
}

func (a densityAdapter) TotalMass() float64 { return a.m.DF.TotalMass() }

// Sample draws n phase-space points distributed according to the DF in the
// model potential: positions by inverse-CDF sampling of the DF-derived
// density, velocities by rejection sampling of the DF at each position.
func (m *Model) Sample(n int, rmin, rmax float64, rng *rand.Rand) []snapshot.Particle {
	pos := profile.SamplePositions(densityAdapter{m}, rmin, rmax, n, rng)
	mass := m.DF.TotalMass() / float64(n)
	out := make([]snapshot.Particle, n)
	for i, x := range pos {
		R := x.CylR()
		z := x[2]
		vR, vz, vphi := m.sampleVelocity(R, z, rng)
		// Rotate cylindrical velocity components to Cartesian at the
		// particle's azimuth.
		cphi, sphi := 1.0, 0.0
		if R > 0 {
			cphi, sphi = x[0]/R, x[1]/R
		}
		out[i] = snapshot.Particle{
			X: x[0], Y: x[1], Z: z,
			VX:   vR*cphi - vphi*sphi,
			VY:   vR*sphi + vphi*cphi,
			VZ:   vz,
			Mass: mass,
		}
	}
	return out
}

func (m *Model) sampleVelocity(R, z float64, rng *rand.Rand) (vR, vz, vphi float64) {
	psi := -m.Pot.Value(R, z)
	if psi <= 0 {
		return 0, 0, 0
	}
	vmax := math.Sqrt(2 * psi)
	// Envelope: scan a coarse velocity grid for the DF maximum, with a
	// safety margin for structure between grid nodes.
	fmax := 0.0
	for i := 0; i <= 6; i++ {
		for j := 0; j <= 6; j++ {
			for k := -6; k <= 6; k++ {
				v := m.dfAt(R, z, vmax*float64(i)/6, vmax*float64(j)/6, vmax*float64(k)/6)
				if v > fmax {
					fmax = v
				}
			}
		}
	}
	if fmax <= 0 {
		return 0, 0, 0
	}
	fmax *= 1.5
	for try := 0; try < 10000; try++ {
		a := rng.Float64()*2 - 1
		b := rng.Float64()*2 - 1
		c := rng.Float64()*2 - 1
		if a*a+b*b+c*c >= 1 {
			continue
		}
		vR, vz, vphi = math.Abs(a)*vmax, b*vmax, c*vmax
		if rng.Float64()*fmax < m.dfAt(R, z, vR, vz, vphi) {
			if rng.Float64() < 0.5 {
				vR = -vR
			}
			return vR, vz, vphi
		}
	}
	return 0, 0, 0
}

func (m *Model) dfAt(R, z, vR, vz, vphi float64) float64 {
	if e, ok := m.DF.(df.EnergyDF); ok {
		return e.ValueE(m.Pot.Value(R, z) + (vR*vR+vz*vz+vphi*vphi)/2)
	}
	return m.DF.Value(m.AF.FromPosVel(R, z, vR, vz, vphi))
}

func relDiff(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
