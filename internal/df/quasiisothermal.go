package df

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/galsim/internal/actions"
)

// QuasiIsothermalParams parameterizes the disk DF. Radial scales are
// exponential: Sigma(Rc) = Sigma0 exp(-Rc/Rdisk), sigma_R(Rc) =
// SigmaR0 exp(-Rc/RsigmaR), and likewise for the vertical dispersion.
type QuasiIsothermalParams struct {
	Sigma0  float64 `yaml:"sigma0"`
	Rdisk   float64 `yaml:"rdisk"`
	SigmaR0 float64 `yaml:"sigmar0"`
	RsigmaR float64 `yaml:"rsigmar"`
	SigmaZ0 float64 `yaml:"sigmaz0"`
	RsigmaZ float64 `yaml:"rsigmaz"`
	// SigmaMin floors both dispersions so the DF stays integrable in the
	// outer disk where the exponentials underflow.
	SigmaMin float64 `yaml:"sigmamin"`
	// L0 is the angular-momentum scale over which retrograde orbits are
	// suppressed.
	L0 float64 `yaml:"l0"`
}

// QuasiIsothermal is the standard quasi-isothermal disk DF of the radial,
// vertical, and azimuthal actions, with near-Gaussian velocity distributions
// of radially declining width.
type QuasiIsothermal struct {
	p      QuasiIsothermalParams
	finder *actions.Finder
	mass   float64
}

// NewQuasiIsothermal validates the parameters and computes the DF mass by
// integrating over action space in the finder's potential.
func NewQuasiIsothermal(p QuasiIsothermalParams, finder *actions.Finder) (*QuasiIsothermal, error) {
	if p.Sigma0 <= 0 || p.Rdisk <= 0 || p.SigmaR0 <= 0 {
		return nil, fmt.Errorf("%w: sigma0=%g rdisk=%g sigmar0=%g",
			ErrParameterBounds, p.Sigma0, p.Rdisk, p.SigmaR0)
	}
	if p.RsigmaR <= 0 {
		p.RsigmaR = 2 * p.Rdisk
	}
	if p.SigmaZ0 <= 0 {
		p.SigmaZ0 = 0.5 * p.SigmaR0
	}
	if p.RsigmaZ <= 0 {
		p.RsigmaZ = p.RsigmaR
	}
	if p.SigmaMin <= 0 {
		p.SigmaMin = 1e-3 * p.SigmaR0
	}
	if p.L0 <= 0 {
		_, _, om := finder.Frequencies(p.Rdisk)
		p.L0 = 0.01 * p.Rdisk * p.Rdisk * om
	}
	d := &QuasiIsothermal{p: p, finder: finder}

	// M = (2pi)^3 int f d^3J. The Jr and Jz integrals are exponentials
	// with known normalization, leaving a 1-D integral over Jphi:
	//   M = 4 int_0^inf Omega(Rc) Sigma(Rc) / kappa(Rc)^2 dL
	// (up to the retrograde suppression factor, integrated numerically).
	_, _, omMax := finder.Frequencies(20 * p.Rdisk)
	lTop := 20 * p.Rdisk * 20 * p.Rdisk * omMax
	d.mass = quad.Fixed(func(l float64) float64 {
		rc := finder.RCirc(l)
		kappa, _, om := finder.Frequencies(rc)
		sigma := p.Sigma0 * math.Exp(-rc/p.Rdisk)
		return 4 * om * sigma / (kappa * kappa) * d.rotation(l)
	}, 0, lTop, 200, nil, 0)
	return d, nil
}

// rotation suppresses retrograde orbits on the scale L0.
func (d *QuasiIsothermal) rotation(l float64) float64 {
	return 0.5 * (1 + math.Tanh(l/d.p.L0))
}

func (d *QuasiIsothermal) Value(a actions.Actions) float64 {
	rc := d.finder.RCirc(a.Jphi)
	kappa, nu, om := d.finder.Frequencies(rc)

	sigma := d.p.Sigma0 * math.Exp(-rc/d.p.Rdisk)
	sigR := math.Max(d.p.SigmaR0*math.Exp(-rc/d.p.RsigmaR), d.p.SigmaMin)
	sigZ := math.Max(d.p.SigmaZ0*math.Exp(-rc/d.p.RsigmaZ), d.p.SigmaMin)

	fr := om * sigma / (math.Pi * math.Pi * kappa * sigR * sigR) *
		math.Exp(-kappa*a.Jr/(sigR*sigR))
	fz := nu / (2 * math.Pi * sigZ * sigZ) * math.Exp(-nu*a.Jz/(sigZ*sigZ))
	return fr * fz * d.rotation(a.Jphi)
}

func (d *QuasiIsothermal) TotalMass() float64 { return d.mass }
