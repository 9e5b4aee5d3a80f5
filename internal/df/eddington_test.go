package df

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
)

func plummerInversion(t *testing.T) (*Isotropic, *potential.Spherical) {
	t.Helper()
	pot := &potential.PlummerPot{Mass: 1, Scale: 1}
	sph := potential.NewSpherical(pot, potential.SphericalOpts{NR: 120})
	finder := actions.NewFinder(pot, actions.FinderOpts{NR: 80})
	dens := &profile.Plummer{Mass: 1, Scale: 1}
	d, err := NewIsotropic(dens, sph, finder, IsotropicOpts{NR: 150})
	if err != nil {
		t.Fatal(err)
	}
	return d, sph
}

// The Plummer sphere has the closed-form isotropic DF
// f(eps) = 24 sqrt(2) / (7 pi^3) * eps^(7/2) for M = b = 1.
func TestEddingtonPlummerAnalytic(t *testing.T) {
	d, _ := plummerInversion(t)
	norm := 24 * math.Sqrt2 / (7 * math.Pi * math.Pi * math.Pi)
	for _, eps := range []float64{0.05, 0.1, 0.3, 0.5, 0.8} {
		got := d.ValueE(-eps)
		want := norm * math.Pow(eps, 3.5)
		if math.Abs(got/want-1) > 0.03 {
			t.Errorf("f(eps=%g): got %g want %g (%.2f%%)", eps, got, want, 100*(got/want-1))
		}
	}
}

func TestEddingtonUnboundOrbitsVanish(t *testing.T) {
	d, _ := plummerInversion(t)
	if f := d.ValueE(0); f != 0 {
		t.Errorf("f(E=0) = %g", f)
	}
	if f := d.ValueE(0.5); f != 0 {
		t.Errorf("f(E>0) = %g", f)
	}
}

// Integrating the inverted DF back over velocities must reproduce the target
// density over several decades in radius.
func TestEddingtonRoundTrip(t *testing.T) {
	d, _ := plummerInversion(t)
	dens := &profile.Plummer{Mass: 1, Scale: 1}
	for _, r := range []float64{0.03, 0.1, 0.5, 1, 3, 10, 30} {
		got := d.DensityR(r)
		want := dens.Density(r, 0)
		if math.Abs(got/want-1) > 0.02 {
			t.Errorf("rho(%g): got %g want %g (%.2f%%)", r, got, want, 100*(got/want-1))
		}
	}
	if math.Abs(d.TotalMass()-1) > 0.02 {
		t.Errorf("reconstructed mass: %g", d.TotalMass())
	}
}

func TestEddingtonValueMatchesValueE(t *testing.T) {
	d, _ := plummerInversion(t)
	pot := &potential.PlummerPot{Mass: 1, Scale: 1}
	finder := actions.NewFinder(pot, actions.FinderOpts{NR: 80})
	r := 1.2
	vc := potential.Vcirc(pot, r)
	a := finder.FromPosVel(r, 0, 0, 0, vc)
	got := d.Value(a)
	want := d.ValueE(finder.EnergyFromActions(a))
	if got != want {
		t.Errorf("action evaluation: %g vs %g", got, want)
	}
	if got <= 0 {
		t.Errorf("bound circular orbit has f = %g", got)
	}
}

// A density rising outward cannot come from an isotropic DF; the inversion
// must refuse it rather than return a negative f.
func TestEddingtonRejectsHollowDensity(t *testing.T) {
	pot := &potential.PlummerPot{Mass: 1, Scale: 1}
	sph := potential.NewSpherical(pot, potential.SphericalOpts{NR: 80})
	finder := actions.NewFinder(pot, actions.FinderOpts{NR: 40})
	_, err := NewIsotropic(hollowField{}, sph, finder, IsotropicOpts{NR: 60, RMin: 1e-2, RMax: 10})
	if err == nil {
		t.Fatal("hollow density accepted")
	}
	if !errors.Is(err, ErrInversion) {
		t.Errorf("want ErrInversion, got %v", err)
	}
}

// hollowField peaks off-center, like a shell.
type hollowField struct{}

func (hollowField) Density(R, z float64) float64 {
	r := math.Sqrt(R*R + z*z)
	return math.Exp(-(r - 3) * (r - 3))
}
func (hollowField) TotalMass() float64 { return 1 }
