package potential

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/galsim/internal/geom"
	"github.com/san-kum/galsim/internal/profile"
)

// ErrBadDensity indicates a source density the solver cannot expand
// (negative, NaN or infinite values, or vanishing total mass).
var ErrBadDensity = errors.New("potential: invalid source density")

// MultipoleOpts controls the spherical-harmonic expansion grid.
type MultipoleOpts struct {
	Lmax   int     // highest even harmonic retained (0 keeps the monopole only)
	NR     int     // radial grid nodes
	RMin   float64 // innermost grid radius
	RMax   float64 // outermost grid radius
	NTheta int     // Gauss-Legendre nodes in cos(theta) for the projection
}

func (o *MultipoleOpts) setDefaults() {
	if o.NR == 0 {
		o.NR = 60
	}
	if o.RMin == 0 {
		o.RMin = 1e-3
	}
	if o.RMax == 0 {
		o.RMax = 1e3
	}
	if o.NTheta == 0 {
		o.NTheta = 20
	}
}

// Multipole is an axisymmetric potential solved from a density field by
// spherical-harmonic expansion. Only even harmonics are kept: all densities
// in this model are symmetric about the midplane.
type Multipole struct {
	lmax       int
	rmin, rmax float64
	radii      []float64
	coefs      [][]float64 // coefs[k][i]: Phi_l at radii[i], l = 2k
	derivs     [][]float64 // radial derivative of Phi_l at the nodes
	phi        []*interp.AkimaSpline
	dphi       []*interp.AkimaSpline
	mtot       float64
}

// NewMultipole solves the Poisson equation for src on a log-radial grid.
func NewMultipole(src profile.Field, opt MultipoleOpts) (*Multipole, error) {
	opt.setDefaults()
	if opt.Lmax < 0 || opt.Lmax%2 != 0 {
		return nil, fmt.Errorf("potential: lmax must be even and non-negative, got %d", opt.Lmax)
	}
	nl := opt.Lmax/2 + 1
	radii := geom.LogSpaced(opt.NR, opt.RMin, opt.RMax)

	// Angular projection: rho_l(r) = (2l+1) * int_0^1 rho(r,mu) P_l(mu) dmu
	// for even l and a z-symmetric density.
	mus := make([]float64, opt.NTheta)
	wts := make([]float64, opt.NTheta)
	quad.Legendre{}.FixedLocations(mus, wts, 0, 1)

	rhol := make([][]float64, nl)
	for k := range rhol {
		rhol[k] = make([]float64, opt.NR)
	}
	pl := make([]float64, opt.Lmax+1)
	for i, r := range radii {
		for j, mu := range mus {
			s := math.Sqrt(1 - mu*mu)
			d := src.Density(r*s, r*mu)
			if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return nil, fmt.Errorf("%w: rho(%g,%g)=%g", ErrBadDensity, r*s, r*mu, d)
			}
			legendre(opt.Lmax, mu, pl)
			for k := 0; k < nl; k++ {
				l := 2 * k
				rhol[k][i] += float64(2*l+1) * wts[j] * d * pl[l]
			}
		}
	}

	// Outer density slope from the last monopole nodes, for the tail
	// corrections beyond rmax.
	slope := -4.0
	n := opt.NR
	if rhol[0][n-1] > 0 && rhol[0][n-2] > 0 {
		slope = math.Log(rhol[0][n-1]/rhol[0][n-2]) / math.Log(radii[n-1]/radii[n-2])
	}

	m := &Multipole{
		lmax:   opt.Lmax,
		rmin:   opt.RMin,
		rmax:   opt.RMax,
		radii:  radii,
		coefs:  make([][]float64, nl),
		derivs: make([][]float64, nl),
		phi:    make([]*interp.AkimaSpline, nl),
		dphi:   make([]*interp.AkimaSpline, nl),
	}

	lnr := make([]float64, n)
	for i, r := range radii {
		lnr[i] = math.Log(r)
	}

	for k := 0; k < nl; k++ {
		l := 2 * k
		// Cumulative moment integrals on the node grid:
		//   P(r) = int_0^r rho_l s^(l+2) ds,  Q(r) = int_r^inf rho_l s^(1-l) ds.
		pint := make([]float64, n)
		qint := make([]float64, n)
		// Power-law continuation of the monopole below rmin; higher
		// harmonics contribute O(rmin^(l+3)) there and are dropped.
		if k == 0 {
			gamma := 0.0
			if rhol[0][0] > 0 && rhol[0][1] > 0 {
				gamma = math.Log(rhol[0][1]/rhol[0][0]) / math.Log(radii[1]/radii[0])
			}
			if gamma+3 > 0.1 {
				pint[0] = rhol[0][0] * math.Pow(radii[0], 3) / (gamma + 3)
			}
		}
		for i := 1; i < n; i++ {
			dr := radii[i] - radii[i-1]
			fa := rhol[k][i-1] * math.Pow(radii[i-1], float64(l+2))
			fb := rhol[k][i] * math.Pow(radii[i], float64(l+2))
			pint[i] = pint[i-1] + 0.5*(fa+fb)*dr
		}
		if t := slope + 2 - float64(l); t < -0.1 {
			qint[n-1] = -rhol[k][n-1] * math.Pow(radii[n-1], 2-float64(l)) / t
		}
		for i := n - 2; i >= 0; i-- {
			dr := radii[i+1] - radii[i]
			fa := rhol[k][i] * math.Pow(radii[i], float64(1-l))
			fb := rhol[k][i+1] * math.Pow(radii[i+1], float64(1-l))
			qint[i] = qint[i+1] + 0.5*(fa+fb)*dr
		}

		coef := make([]float64, n)
		deriv := make([]float64, n)
		pref := -4 * math.Pi / float64(2*l+1)
		for i, r := range radii {
			coef[i] = pref * (pint[i]/math.Pow(r, float64(l+1)) + math.Pow(r, float64(l))*qint[i])
			deriv[i] = pref * (-float64(l+1)*pint[i]/math.Pow(r, float64(l+2)) +
				float64(l)*math.Pow(r, float64(l-1))*qint[i])
		}
		m.coefs[k] = coef
		m.derivs[k] = deriv

		m.phi[k] = &interp.AkimaSpline{}
		if err := m.phi[k].Fit(lnr, coef); err != nil {
			return nil, fmt.Errorf("potential: spline fit l=%d: %w", l, err)
		}
		m.dphi[k] = &interp.AkimaSpline{}
		if err := m.dphi[k].Fit(lnr, deriv); err != nil {
			return nil, fmt.Errorf("potential: spline fit l=%d: %w", l, err)
		}
	}

	m.mtot = 4 * math.Pi * m.lastPint()
	if t := slope + 3; t < -0.1 {
		m.mtot += -4 * math.Pi * rhol[0][n-1] * math.Pow(radii[n-1], 3) / t
	}
	if m.mtot <= 0 || math.IsNaN(m.mtot) || math.IsInf(m.mtot, 0) {
		return nil, fmt.Errorf("%w: total mass %g", ErrBadDensity, m.mtot)
	}
	return m, nil
}

// lastPint recomputes the monopole moment at rmax from the stored
// coefficient, Phi_0(rmax) ~ -(P/r + Q) with Q the tail term.
func (m *Multipole) lastPint() float64 {
	n := len(m.radii)
	r := m.radii[n-1]
	// Phi_0 = -4pi (P/r + Q); dPhi_0/dr = -4pi (-P/r^2).
	return m.derivs[0][n-1] * r * r / (4 * math.Pi)
}

// TotalMass returns the mass enclosed by the expansion (including the
// power-law tail correction beyond the grid).
func (m *Multipole) TotalMass() float64 { return m.mtot }

// Lmax returns the highest retained harmonic.
func (m *Multipole) Lmax() int { return m.lmax }

func (m *Multipole) Value(R, z float64) float64 {
	r := math.Sqrt(R*R + z*z)
	mu := 0.0
	if r > 0 {
		mu = z / r
	}
	nl := m.lmax/2 + 1
	pl := make([]float64, m.lmax+1)
	legendre(m.lmax, mu, pl)

	sum := 0.0
	switch {
	case r >= m.rmax:
		sum = -m.mtot / r
		for k := 1; k < nl; k++ {
			l := 2 * k
			sum += m.coefs[k][len(m.radii)-1] * math.Pow(m.rmax/r, float64(l+1)) * pl[l]
		}
	case r <= m.rmin:
		// Homogeneous-core continuation of the monopole; regular r^l
		// scaling for the higher harmonics.
		g := m.derivs[0][0]
		sum = m.coefs[0][0] - g*(m.rmin*m.rmin-r*r)/(2*m.rmin)
		for k := 1; k < nl; k++ {
			l := 2 * k
			sum += m.coefs[k][0] * math.Pow(r/m.rmin, float64(l)) * pl[l]
		}
	default:
		x := math.Log(r)
		for k := 0; k < nl; k++ {
			sum += m.phi[k].Predict(x) * pl[2*k]
		}
	}
	return sum
}

func (m *Multipole) Force(R, z float64) (float64, float64) {
	r := math.Sqrt(R*R + z*z)
	if r == 0 {
		return 0, 0
	}
	mu := z / r
	nl := m.lmax/2 + 1
	pl := make([]float64, m.lmax+1)
	dpl := make([]float64, m.lmax+1)
	legendre(m.lmax, mu, pl)
	legendreDeriv(m.lmax, mu, pl, dpl)

	var dPhidr, dPhidmu float64
	switch {
	case r >= m.rmax:
		dPhidr = m.mtot / (r * r)
		for k := 1; k < nl; k++ {
			l := 2 * k
			c := m.coefs[k][len(m.radii)-1] * math.Pow(m.rmax/r, float64(l+1))
			dPhidr += -float64(l+1) / r * c * pl[l]
			dPhidmu += c * dpl[l]
		}
	case r <= m.rmin:
		dPhidr = m.derivs[0][0] * r / m.rmin
		for k := 1; k < nl; k++ {
			l := 2 * k
			c := m.coefs[k][0] * math.Pow(r/m.rmin, float64(l))
			dPhidr += float64(l) / r * c * pl[l]
			dPhidmu += c * dpl[l]
		}
	default:
		x := math.Log(r)
		for k := 0; k < nl; k++ {
			l := 2 * k
			dPhidr += m.dphi[k].Predict(x) * pl[l]
			dPhidmu += m.phi[k].Predict(x) * dpl[l]
		}
	}

	// Chain rule from (r, mu) to cylindrical (R, z), mu = z/r.
	dmudR := -mu * R / (r * r)
	dmudz := (1 - mu*mu) / r
	fR := -(dPhidr*R/r + dPhidmu*dmudR)
	fz := -(dPhidr*mu + dPhidmu*dmudz)
	return fR, fz
}
