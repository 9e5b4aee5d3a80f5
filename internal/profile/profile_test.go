package profile

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/galsim/internal/geom"
)

func TestPlummerCentralDensity(t *testing.T) {
	p := &Plummer{Mass: 2, Scale: 0.5}
	want := 3 * 2.0 / (4 * math.Pi * 0.125)
	if got := p.Density(0, 0); math.Abs(got/want-1) > 1e-12 {
		t.Errorf("central density: got %g want %g", got, want)
	}
}

func TestEnclosedMassConvergesToTotal(t *testing.T) {
	cases := []struct {
		name string
		f    Field
	}{
		{"plummer", &Plummer{Mass: 1.5, Scale: 1}},
		{"hernquist", &Hernquist{Mass: 0.7, Scale: 0.5}},
		{"nfw", NewNFW(25, 15, 200)},
		{"disk", &ExpDisk{Mass: 1, ScaleRadius: 3, ScaleHeight: 0.4}},
	}
	for _, tc := range cases {
		radii := geom.LogSpaced(400, 1e-4, 3e3)
		cmf := EnclosedMass(tc.f, radii)
		got := cmf[len(cmf)-1]
		if math.Abs(got/tc.f.TotalMass()-1) > 0.01 {
			t.Errorf("%s: enclosed mass %g vs total %g", tc.name, got, tc.f.TotalMass())
		}
	}
}

func TestFactoryValidation(t *testing.T) {
	if _, err := New(Params{Type: "plummer", Mass: -1, ScaleRadius: 1}); err == nil {
		t.Error("negative mass accepted")
	}
	if _, err := New(Params{Type: "plummer", Mass: 1, ScaleRadius: 0}); err == nil {
		t.Error("zero scale radius accepted")
	}
	if _, err := New(Params{Type: "nosuch", Mass: 1, ScaleRadius: 1}); err == nil {
		t.Error("unknown type accepted")
	}
	f, err := New(Params{Type: "hernquist", Mass: 1, ScaleRadius: 1})
	if err != nil || f == nil {
		t.Fatalf("valid hernquist rejected: %v", err)
	}
}

func TestCompositeSums(t *testing.T) {
	a := &Plummer{Mass: 1, Scale: 1}
	b := &Plummer{Mass: 2, Scale: 2}
	c := NewComposite(a, b)
	if got := c.TotalMass(); got != 3 {
		t.Errorf("total mass: %g", got)
	}
	want := a.Density(1, 0.5) + b.Density(1, 0.5)
	if got := c.Density(1, 0.5); math.Abs(got/want-1) > 1e-14 {
		t.Errorf("density sum: got %g want %g", got, want)
	}
}

func TestSamplePositionsRadialDistribution(t *testing.T) {
	f := &Plummer{Mass: 1, Scale: 1}
	rng := rand.New(rand.NewSource(7))
	pos := SamplePositions(f, 1e-3, 1e3, 20000, rng)

	// Half-mass radius of the Plummer sphere is b/sqrt(2^(2/3)-1) ~ 1.305.
	rHalf := 1.0 / math.Sqrt(math.Pow(2, 2.0/3)-1)
	inside := 0
	for _, x := range pos {
		if x.Norm() < rHalf {
			inside++
		}
	}
	frac := float64(inside) / float64(len(pos))
	if math.Abs(frac-0.5) > 0.02 {
		t.Errorf("fraction inside half-mass radius: %g", frac)
	}
}
