package df

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/geom"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
)

// IsotropicOpts controls the Eddington inversion grid.
type IsotropicOpts struct {
	NR         int
	RMin, RMax float64
}

func (o *IsotropicOpts) setDefaults() {
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

// Isotropic is a pseudo-isotropic DF f(E) obtained by Eddington inversion of
// a target density profile in a spherically-averaged potential. Integrating
// it over velocity space in that potential reproduces the target density; in
// the full non-spherical potential the reproduced profile differs slightly,
// which the self-consistent iteration then corrects.
type Isotropic struct {
	finder         *actions.Finder
	sph            *potential.Spherical
	psiMin, psiMax float64
	g              *interp.FritschButland // Abel integral g(eps); f = g'/(sqrt8 pi^2)
	mass           float64
}

const eddingtonNorm = 1 / (2 * math.Sqrt2 * math.Pi * math.Pi) // 1/(sqrt(8) pi^2)

// NewIsotropic inverts the target density dens against the spherical
// potential sph. The finder is used only to project actions to energy when
// the DF is evaluated in action coordinates.
func NewIsotropic(dens profile.Field, sph *potential.Spherical, finder *actions.Finder, opt IsotropicOpts) (*Isotropic, error) {
	opt.setDefaults()
	radii := geom.LogSpaced(opt.NR, opt.RMin, opt.RMax)

	// Tabulate rho and the relative potential psi = -Phi from the outside
	// in, so that psi is the ascending independent variable.
	n := opt.NR
	psi := make([]float64, n)
	rho := make([]float64, n)
	for i := 0; i < n; i++ {
		r := radii[n-1-i]
		psi[i] = -sph.ValueR(r)
		rho[i] = profile.ShellAverage(dens, r)
	}
	for i := 1; i < n; i++ {
		if psi[i] <= psi[i-1] {
			return nil, fmt.Errorf("%w: psi(r) not monotonic at psi=%g", ErrInversion, psi[i])
		}
	}

	// drho/dpsi from a monotone fit of rho(psi). A genuinely decreasing
	// stretch means the inversion integrand goes negative.
	drho := &interp.FritschButland{}
	if err := drho.Fit(psi, rho); err != nil {
		return nil, fmt.Errorf("df: eddington fit: %w", err)
	}
	rhoMax := rho[n-1]
	for i := 1; i < n; i++ {
		if rho[i] < rho[i-1]-1e-10*rhoMax {
			return nil, fmt.Errorf("%w: rho decreasing at psi=%g", ErrInversion, psi[i])
		}
	}

	d := &Isotropic{
		finder: finder,
		sph:    sph,
		psiMin: psi[0],
		psiMax: psi[n-1],
	}

	// Abel integral with the substitution psi = eps*sin^2(theta), which
	// removes the inverse-square-root endpoint singularity:
	//   g(eps) = int_0^eps drho/dpsi / sqrt(eps - psi) dpsi
	//          = 2 sqrt(eps) int_0^(pi/2) drho/dpsi(eps sin^2 t) sin t dt.
	gv := make([]float64, n)
	for j, eps := range psi {
		gv[j] = 2 * math.Sqrt(eps) * quad.Fixed(func(t float64) float64 {
			s := math.Sin(t)
			p := eps * s * s
			if p < d.psiMin {
				p = d.psiMin
			}
			return math.Max(drho.PredictDerivative(p), 0) * s
		}, 0, math.Pi/2, 64, nil, 0)
	}
	// g must be non-decreasing for f = g' to be non-negative; tolerate
	// quadrature-level wiggles by clamping, reject anything larger.
	gMax := gv[n-1]
	for j := 1; j < n; j++ {
		if gv[j] < gv[j-1] {
			if gv[j-1]-gv[j] > 1e-8*gMax {
				return nil, fmt.Errorf("%w: d/dE integral decreasing at E=%g", ErrInversion, -psi[j])
			}
			gv[j] = gv[j-1]
		}
	}
	d.g = &interp.FritschButland{}
	if err := d.g.Fit(psi, gv); err != nil {
		return nil, fmt.Errorf("df: eddington fit: %w", err)
	}

	// Total mass of the reconstructed density, trapezoidal over the grid.
	mass := 0.0
	prev := 0.0
	for i, r := range radii {
		cur := 4 * math.Pi * r * r * d.DensityR(r)
		if i > 0 {
			mass += 0.5 * (cur + prev) * (r - radii[i-1])
		}
		prev = cur
	}
	d.mass = mass
	return d, nil
}

// ValueE returns f at energy E. The DF vanishes for unbound orbits and is
// clamped at the deepest tabulated potential.
func (d *Isotropic) ValueE(E float64) float64 {
	eps := -E
	if eps <= 0 {
		return 0
	}
	if eps > d.psiMax {
		eps = d.psiMax
	}
	if eps < d.psiMin {
		eps = d.psiMin
	}
	f := eddingtonNorm * d.g.PredictDerivative(eps)
	if f < 0 {
		return 0
	}
	return f
}

// Value evaluates the DF in action coordinates through the spherical energy
// approximation of the action finder.
func (d *Isotropic) Value(a actions.Actions) float64 {
	return d.ValueE(d.finder.EnergyFromActions(a))
}

func (d *Isotropic) TotalMass() float64 { return d.mass }

// DensityR integrates the DF over velocity space at spherical radius r in
// the inversion potential. Used by the round-trip diagnostics.
func (d *Isotropic) DensityR(r float64) float64 {
	psi := -d.sph.ValueR(r)
	if psi <= 0 {
		return 0
	}
	vmax := math.Sqrt(2 * psi)
	return 4 * math.Pi * quad.Fixed(func(v float64) float64 {
		return d.ValueE(v*v/2-psi) * v * v
	}, 0, vmax, 64, nil, 0)
}
