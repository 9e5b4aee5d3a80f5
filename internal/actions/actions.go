// Package actions maps phase-space coordinates to action coordinates in the
// epicyclic approximation. The finder caches circular-orbit tables for one
// potential; it must be rebuilt whenever the model potential is replaced.
package actions

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/galsim/internal/geom"
	"github.com/san-kum/galsim/internal/potential"
)

// Actions are the canonical orbit labels: radial, vertical, and azimuthal.
type Actions struct {
	Jr   float64
	Jz   float64
	Jphi float64
}

// FinderOpts controls the circular-orbit table grid.
type FinderOpts struct {
	NR         int
	RMin, RMax float64
}

func (o *FinderOpts) setDefaults() {
	if o.NR == 0 {
		o.NR = 80
	}
	if o.RMin == 0 {
		o.RMin = 1e-3
	}
	if o.RMax == 0 {
		o.RMax = 1e3
	}
}

// Finder computes epicyclic actions in a fixed potential.
type Finder struct {
	pot        potential.Potential
	rmin, rmax float64
	lmin, lmax float64
	rcirc      *interp.FritschButland // ln L -> ln Rc, monotone
	kappa      *interp.AkimaSpline    // ln R -> kappa
	nu         *interp.AkimaSpline    // ln R -> nu
	omega      *interp.AkimaSpline    // ln R -> Omega
}

// NewFinder tabulates circular-orbit frequencies and angular momenta of pot
// on a log-radial grid.
func NewFinder(pot potential.Potential, opt FinderOpts) *Finder {
	opt.setDefaults()
	radii := geom.LogSpaced(opt.NR, opt.RMin, opt.RMax)
	lnR := make([]float64, opt.NR)
	lnL := make([]float64, opt.NR)
	kap := make([]float64, opt.NR)
	nu := make([]float64, opt.NR)
	om := make([]float64, opt.NR)
	for i, r := range radii {
		lnR[i] = math.Log(r)
		k2, n2, o2 := potential.Epicycle(pot, r)
		om[i] = math.Sqrt(math.Max(o2, 1e-300))
		kap[i] = math.Sqrt(math.Max(k2, 1e-300))
		// Flattened or noisy density runs can give nu^2 <= 0 at large
		// radii; fall back to the orbital frequency there.
		if n2 > 0 {
			nu[i] = math.Sqrt(n2)
		} else {
			nu[i] = om[i]
		}
		lnL[i] = math.Log(r * r * om[i])
	}
	f := &Finder{
		pot:   pot,
		rmin:  opt.RMin,
		rmax:  opt.RMax,
		lmin:  math.Exp(lnL[0]),
		lmax:  math.Exp(lnL[opt.NR-1]),
		rcirc: &interp.FritschButland{},
		kappa: &interp.AkimaSpline{},
		nu:    &interp.AkimaSpline{},
		omega: &interp.AkimaSpline{},
	}
	// L(Rc) is monotone for any potential with an outward-decreasing mean
	// density, so the inverse is well-defined.
	if err := f.rcirc.Fit(lnL, lnR); err != nil {
		panic("actions: circular-orbit table fit: " + err.Error())
	}
	must(f.kappa.Fit(lnR, kap))
	must(f.nu.Fit(lnR, nu))
	must(f.omega.Fit(lnR, om))
	return f
}

func must(err error) {
	if err != nil {
		panic("actions: spline fit: " + err.Error())
	}
}

// Potential returns the potential the finder was built for.
func (f *Finder) Potential() potential.Potential { return f.pot }

// RCirc returns the radius of the circular orbit with angular momentum l.
func (f *Finder) RCirc(l float64) float64 {
	l = math.Abs(l)
	if l <= f.lmin {
		return f.rmin
	}
	if l >= f.lmax {
		return f.rmax
	}
	return math.Exp(f.rcirc.Predict(math.Log(l)))
}

// Frequencies returns (kappa, nu, Omega) at midplane radius r, clamped to the
// table range.
func (f *Finder) Frequencies(r float64) (kappa, nu, omega float64) {
	x := math.Log(math.Min(math.Max(r, f.rmin), f.rmax))
	return f.kappa.Predict(x), f.nu.Predict(x), f.omega.Predict(x)
}

// FromPosVel maps cylindrical phase-space coordinates to epicyclic actions.
func (f *Finder) FromPosVel(R, z, vR, vz, vphi float64) Actions {
	l := R * vphi
	rc := f.RCirc(l)
	kappa, nu, _ := f.Frequencies(rc)

	labs := math.Abs(l)
	phiEff := func(x float64) float64 {
		return f.pot.Value(x, 0) + labs*labs/(2*x*x)
	}
	er := vR*vR/2 + phiEff(R) - phiEff(rc)
	ez := vz*vz/2 + f.pot.Value(R, z) - f.pot.Value(R, 0)

	// Small negative radial/vertical energies are round-off at the orbit
	// bottom; clamp rather than propagate.
	return Actions{
		Jr:   math.Max(er, 0) / kappa,
		Jz:   math.Max(ez, 0) / nu,
		Jphi: l,
	}
}

// EnergyFromActions returns the approximate orbit energy for the given
// actions, treating the potential as spherical: the total angular momentum is
// |Jphi| + Jz and the radial action enters through the epicyclic frequency at
// the circular radius.
func (f *Finder) EnergyFromActions(a Actions) float64 {
	l := math.Abs(a.Jphi) + a.Jz
	rc := f.RCirc(l)
	kappa, _, _ := f.Frequencies(rc)
	return f.pot.Value(rc, 0) + l*l/(2*rc*rc) + kappa*a.Jr
}
