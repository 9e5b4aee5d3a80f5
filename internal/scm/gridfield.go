package scm

import (
	"math"
	"sort"
)

// grid2D is a bilinearly-interpolated table of density samples over a
// rectangular (x, y) node grid. Nodes must be strictly increasing.
type grid2D struct {
	xs, ys []float64
	v      [][]float64 // v[i][j] at (xs[i], ys[j])
}

func (g *grid2D) eval(x, y float64) float64 {
	i := cell(g.xs, x)
	j := cell(g.ys, y)
	x0, x1 := g.xs[i], g.xs[i+1]
	y0, y1 := g.ys[j], g.ys[j+1]
	tx := clamp01((x - x0) / (x1 - x0))
	ty := clamp01((y - y0) / (y1 - y0))
	return g.v[i][j]*(1-tx)*(1-ty) + g.v[i+1][j]*tx*(1-ty) +
		g.v[i][j+1]*(1-tx)*ty + g.v[i+1][j+1]*tx*ty
}

func cell(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(xs)-2 {
		i = len(xs) - 2
	}
	return i
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// spheroidField is a density field integrated from a DF on a spherical grid:
// log-spaced radii crossed with uniform nodes in mu = cos(theta) in [0, 1]
// (densities here are symmetric about the midplane).
type spheroidField struct {
	grid grid2D // x = ln r, y = mu
	rmin float64
	rmax float64
	mass float64
}

func (f *spheroidField) Density(R, z float64) float64 {
	r := math.Sqrt(R*R + z*z)
	if r >= f.rmax {
		return 0
	}
	if r < f.rmin {
		r = f.rmin
	}
	mu := 0.0
	if r > 0 {
		mu = math.Abs(z) / r
	}
	return f.grid.eval(math.Log(r), mu)
}

func (f *spheroidField) TotalMass() float64 { return f.mass }

// integrate computes M = 4 pi int_0^1 dmu int rho r^2 dr by trapezoid over
// the node grid.
func (f *spheroidField) integrate() {
	sum := 0.0
	nr, nm := len(f.grid.xs), len(f.grid.ys)
	for i := 0; i < nr-1; i++ {
		r0, r1 := math.Exp(f.grid.xs[i]), math.Exp(f.grid.xs[i+1])
		for j := 0; j < nm-1; j++ {
			dmu := f.grid.ys[j+1] - f.grid.ys[j]
			avg := (f.grid.v[i][j]*r0*r0 + f.grid.v[i+1][j]*r1*r1 +
				f.grid.v[i][j+1]*r0*r0 + f.grid.v[i+1][j+1]*r1*r1) / 4
			sum += avg * (r1 - r0) * dmu
		}
	}
	f.mass = 4 * math.Pi * sum
}

// diskField is a density field integrated from a DF on a cylindrical grid:
// log-spaced radii crossed with sinh-spaced heights refined at the midplane.
type diskField struct {
	grid grid2D // x = ln R, y = z >= 0
	rmin float64
	rmax float64
	zmax float64
	mass float64
}

func (f *diskField) Density(R, z float64) float64 {
	z = math.Abs(z)
	if R >= f.rmax || z >= f.zmax {
		return 0
	}
	if R < f.rmin {
		R = f.rmin
	}
	return f.grid.eval(math.Log(R), z)
}

func (f *diskField) TotalMass() float64 { return f.mass }

// integrate computes M = 2 * 2 pi int dz int rho R dR (factor 2 for z < 0).
func (f *diskField) integrate() {
	sum := 0.0
	nr, nz := len(f.grid.xs), len(f.grid.ys)
	for i := 0; i < nr-1; i++ {
		r0, r1 := math.Exp(f.grid.xs[i]), math.Exp(f.grid.xs[i+1])
		for j := 0; j < nz-1; j++ {
			dz := f.grid.ys[j+1] - f.grid.ys[j]
			avg := (f.grid.v[i][j]*r0 + f.grid.v[i+1][j]*r1 +
				f.grid.v[i][j+1]*r0 + f.grid.v[i+1][j+1]*r1) / 4
			sum += avg * (r1 - r0) * dz
		}
	}
	f.mass = 4 * math.Pi * sum
}
