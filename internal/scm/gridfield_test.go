package scm

import (
	"math"
	"testing"

	"github.com/san-kum/galsim/internal/geom"
	"github.com/san-kum/galsim/internal/profile"
)

func TestSpheroidFieldRecoversSampledDensity(t *testing.T) {
	src := &profile.Plummer{Mass: 1, Scale: 1}
	radii := geom.LogSpaced(100, 1e-2, 100)
	mus := geom.Linspace(10, 0, 1)
	lnr := make([]float64, len(radii))
	vals := make([][]float64, len(radii))
	for i, r := range radii {
		lnr[i] = math.Log(r)
		vals[i] = make([]float64, len(mus))
		for j, mu := range mus {
			s := math.Sqrt(1 - mu*mu)
			vals[i][j] = src.Density(r*s, r*mu)
		}
	}
	f := &spheroidField{grid: grid2D{xs: lnr, ys: mus, v: vals}, rmin: 1e-2, rmax: 100}
	f.integrate()

	if math.Abs(f.TotalMass()-1) > 0.01 {
		t.Errorf("integrated mass: %g", f.TotalMass())
	}
	for _, pt := range [][2]float64{{0.5, 0}, {1, 1}, {5, 0.3}} {
		got := f.Density(pt[0], pt[1])
		want := src.Density(pt[0], pt[1])
		if math.Abs(got/want-1) > 0.04 {
			t.Errorf("rho(%g,%g): got %g want %g", pt[0], pt[1], got, want)
		}
	}
	// Symmetric about the midplane, zero beyond the grid.
	if f.Density(1, 0.5) != f.Density(1, -0.5) {
		t.Error("not z-symmetric")
	}
	if f.Density(200, 0) != 0 {
		t.Errorf("nonzero beyond rmax: %g", f.Density(200, 0))
	}
}

func TestDiskFieldRecoversSampledDensity(t *testing.T) {
	src := &profile.ExpDisk{Mass: 1, ScaleRadius: 3, ScaleHeight: 0.4}
	radii := geom.LogSpaced(50, 1e-2, 60)
	zs := geom.SinhSpaced(30, 6, 0.6)
	lnr := make([]float64, len(radii))
	vals := make([][]float64, len(radii))
	for i, r := range radii {
		lnr[i] = math.Log(r)
		vals[i] = make([]float64, len(zs))
		for j, z := range zs {
			vals[i][j] = src.Density(r, z)
		}
	}
	f := &diskField{grid: grid2D{xs: lnr, ys: zs, v: vals}, rmin: 1e-2, rmax: 60, zmax: 6}
	f.integrate()

	if math.Abs(f.TotalMass()-1) > 0.02 {
		t.Errorf("integrated mass: %g", f.TotalMass())
	}
	for _, pt := range [][2]float64{{3, 0}, {6, 0.4}, {1, -0.2}} {
		got := f.Density(pt[0], pt[1])
		want := src.Density(pt[0], pt[1])
		if math.Abs(got/want-1) > 0.03 {
			t.Errorf("rho(%g,%g): got %g want %g", pt[0], pt[1], got, want)
		}
	}
	if f.Density(3, 10) != 0 {
		t.Error("nonzero beyond zmax")
	}
}

func TestParallelForCoversAllIndices(t *testing.T) {
	hits := make([]int, 1000)
	ParallelFor(len(hits), 16, func(start, end int) {
		for i := start; i < end; i++ {
			hits[i]++
		}
	})
	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Component: "disk", Kind: WarnIntegration, FailedPoints: 3, GridPoints: 375}
	if s := w.String(); s == "" || w.Component != "disk" {
		t.Errorf("warning string: %q", s)
	}
	e := Warning{Component: "halo", Kind: WarnEmpty}
	if s := e.String(); s == "" {
		t.Error("empty warning string")
	}
}
