package galaxy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/df"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
)

func plummerModel(t *testing.T) *Model {
	t.Helper()
	pot := &potential.PlummerPot{Mass: 1, Scale: 1}
	sph := potential.NewSpherical(pot, potential.SphericalOpts{NR: 120})
	finder := actions.NewFinder(pot, actions.FinderOpts{NR: 80})
	d, err := df.NewIsotropic(&profile.Plummer{Mass: 1, Scale: 1}, sph, finder,
		df.IsotropicOpts{NR: 150})
	if err != nil {
		t.Fatal(err)
	}
	return New(pot, d, finder, Options{})
}

// For an isotropic DF in its own potential, the velocity-space integral must
// give back the input density at any position, on or off the midplane.
func TestDensityReproducesProfile(t *testing.T) {
	m := plummerModel(t)
	ref := &profile.Plummer{Mass: 1, Scale: 1}
	for _, pt := range [][2]float64{{0.1, 0}, {1, 0}, {0.7, 0.7}, {0, 3}, {10, 0}} {
		got, err := m.Density(pt[0], pt[1])
		if err != nil {
			t.Fatalf("Density(%g,%g): %v", pt[0], pt[1], err)
		}
		want := ref.Density(pt[0], pt[1])
		if math.Abs(got/want-1) > 0.02 {
			t.Errorf("rho(%g,%g): got %g want %g", pt[0], pt[1], got, want)
		}
	}
}

// An ergodic DF has an isotropic dispersion tensor and no net rotation.
func TestMomentsIsotropic(t *testing.T) {
	m := plummerModel(t)
	mom, err := m.Moments(1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if mom.MeanVphi != 0 {
		t.Errorf("ergodic DF with net rotation: %g", mom.MeanVphi)
	}
	if mom.SigmaR2 != mom.SigmaZ2 || mom.SigmaR2 != mom.SigmaPhi2 {
		t.Errorf("anisotropic dispersions: %g %g %g", mom.SigmaR2, mom.SigmaZ2, mom.SigmaPhi2)
	}
	if mom.SigmaR2 <= 0 {
		t.Errorf("dispersion: %g", mom.SigmaR2)
	}
	// Central dispersion of the Plummer sphere: sigma^2 = M / (6 sqrt(b^2)).
	cen, err := m.Moments(1e-3, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cen.SigmaR2/(1.0/6)-1) > 0.03 {
		t.Errorf("central sigma^2: got %g want %g", cen.SigmaR2, 1.0/6)
	}
}

func TestDensityNegligibleFarOut(t *testing.T) {
	m := plummerModel(t)
	mom, err := m.Moments(1e7, 0)
	if err != nil {
		t.Fatal(err)
	}
	if mom.Rho > 1e-15 {
		t.Errorf("density at 1e7 scale radii: %g", mom.Rho)
	}
}

// A rotating disk DF must show net prograde streaming near the circular speed
// and dispersions close to the DF's input scales.
func TestMomentsRotatingDisk(t *testing.T) {
	pot := &potential.HernquistPot{Mass: 10, Scale: 5}
	finder := actions.NewFinder(pot, actions.FinderOpts{NR: 80})
	qi, err := df.NewQuasiIsothermal(df.QuasiIsothermalParams{
		Sigma0:  0.1,
		Rdisk:   3,
		SigmaR0: 0.15,
	}, finder)
	if err != nil {
		t.Fatal(err)
	}
	m := New(pot, qi, finder, Options{})
	mom, err := m.Moments(3, 0)
	if err != nil {
		t.Fatal(err)
	}
	vc := potential.Vcirc(pot, 3)
	if mom.MeanVphi < 0.5*vc || mom.MeanVphi > 1.1*vc {
		t.Errorf("mean streaming %g vs circular speed %g", mom.MeanVphi, vc)
	}
	sigR := 0.15 * math.Exp(-3.0/6)
	if math.Abs(math.Sqrt(mom.SigmaR2)/sigR-1) > 0.3 {
		t.Errorf("sigma_R: got %g want about %g", math.Sqrt(mom.SigmaR2), sigR)
	}
	if mom.SigmaZ2 >= mom.SigmaR2 {
		t.Errorf("disk DF with sigma_z >= sigma_R: %g vs %g", mom.SigmaZ2, mom.SigmaR2)
	}
}

func TestProjectedMoments(t *testing.T) {
	m := plummerModel(t)
	sigma, sigmaLOS, err := m.ProjectedMoments(1)
	if err != nil {
		t.Fatal(err)
	}
	if sigma <= 0 || sigmaLOS <= 0 {
		t.Errorf("projected moments: %g %g", sigma, sigmaLOS)
	}
	// Surface density must fall with radius.
	sigmaOut, _, err := m.ProjectedMoments(4)
	if err != nil {
		t.Fatal(err)
	}
	if sigmaOut >= sigma {
		t.Errorf("surface density not declining: %g >= %g", sigmaOut, sigma)
	}
}

func TestSampleConservesMassAndStaysBound(t *testing.T) {
	m := plummerModel(t)
	rng := rand.New(rand.NewSource(42))
	parts := m.Sample(500, 1e-3, 1e3, rng)
	if len(parts) != 500 {
		t.Fatalf("got %d particles", len(parts))
	}
	total := 0.0
	for _, p := range parts {
		total += p.Mass
		r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		v2 := p.VX*p.VX + p.VY*p.VY + p.VZ*p.VZ
		if e := m.Pot.Value(math.Hypot(p.X, p.Y), p.Z) + v2/2; e >= 0 {
			t.Errorf("unbound particle at r=%g: E=%g", r, e)
		}
	}
	if math.Abs(total/m.DF.TotalMass()-1) > 1e-12 {
		t.Errorf("sampled mass %g vs DF mass %g", total, m.DF.TotalMass())
	}
}
