package scm

import (
	"fmt"
	"math"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/df"
	"github.com/san-kum/galsim/internal/galaxy"
	"github.com/san-kum/galsim/internal/geom"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
)

// Representation tags the two component variants.
type Representation int

const (
	// StaticDensity: an immutable density field, independent of the
	// potential. Used to bootstrap the model.
	StaticDensity Representation = iota
	// DFBased: a distribution function whose density contribution is
	// re-integrated in the current potential every iteration.
	DFBased
)

// GridParams selects the spatial discretization used when integrating a
// component's density from its DF. Disk-like components use the cylindrical
// (NR x NZ) grid refined near the midplane; spheroidal ones the spherical
// (NR x NMu) grid.
type GridParams struct {
	RMin float64 `yaml:"rmin"`
	RMax float64 `yaml:"rmax"`
	NR   int     `yaml:"nr"`
	NMu  int     `yaml:"nmu"`
	ZMax float64 `yaml:"zmax"`
	NZ   int     `yaml:"nz"`
}

func (g *GridParams) setDefaults(disklike bool) {
	if g.RMin == 0 {
		g.RMin = 1e-2
	}
	if g.RMax == 0 {
		g.RMax = 100
	}
	if g.NR == 0 {
		g.NR = 25
	}
	if g.NMu == 0 {
		g.NMu = 6
	}
	if disklike {
		if g.ZMax == 0 {
			g.ZMax = 0.1 * g.RMax
		}
		if g.NZ == 0 {
			g.NZ = 15
		}
	}
}

// Component is one mass carrier of the model: either a static density field
// or a DF plus morphological hints. Components are mutable slots; the driver
// replaces a static component with a DF-based one holding the same role
// after the bootstrap stage.
type Component struct {
	Name     string
	Disklike bool

	// RefPoints are (R, z) positions whose density is reported every
	// iteration for external diagnostics.
	RefPoints [][2]float64

	repr   Representation
	static profile.Field
	dfunc  df.DistributionFunction
	grid   GridParams

	dens profile.Field // latest computed contribution
}

// NewStatic builds a component backed by a fixed density field.
func NewStatic(name string, dens profile.Field, disklike bool) *Component {
	return &Component{
		Name:     name,
		Disklike: disklike,
		repr:     StaticDensity,
		static:   dens,
		dens:     dens,
	}
}

// NewDFBased builds a component backed by a distribution function.
func NewDFBased(name string, d df.DistributionFunction, disklike bool, grid GridParams) (*Component, error) {
	if d == nil {
		return nil, fmt.Errorf("scm: component %q: nil distribution function", name)
	}
	grid.setDefaults(disklike)
	if grid.RMin <= 0 || grid.RMax <= grid.RMin {
		return nil, fmt.Errorf("scm: component %q: bad radial grid [%g, %g]", name, grid.RMin, grid.RMax)
	}
	return &Component{
		Name:     name,
		Disklike: disklike,
		repr:     DFBased,
		dfunc:    d,
		grid:     grid,
	}, nil
}

// Representation reports which variant the component currently is.
func (c *Component) Representation() Representation { return c.repr }

// DF returns the component's distribution function, nil for static ones.
func (c *Component) DF() df.DistributionFunction { return c.dfunc }

// Density returns the component's latest density contribution. Before the
// first iteration a DF-based component has none and returns nil.
func (c *Component) Density() profile.Field { return c.dens }

// update recomputes the component's density contribution in pot. Static
// components are a lookup; DF-based ones integrate the DF over velocity
// space at every grid node, in parallel, zeroing (and counting) nodes whose
// quadrature fails to converge.
func (c *Component) update(pot potential.Potential, af *actions.Finder, opt galaxy.Options) (failed, total int) {
	if c.repr == StaticDensity {
		c.dens = c.static
		return 0, 0
	}
	gm := galaxy.New(pot, c.dfunc, af, opt)
	if c.Disklike {
		return c.updateDisk(gm)
	}
	return c.updateSpheroid(gm)
}

func (c *Component) updateSpheroid(gm *galaxy.Model) (failed, total int) {
	radii := geom.LogSpaced(c.grid.NR, c.grid.RMin, c.grid.RMax)
	mus := geom.Linspace(c.grid.NMu, 0, 1)
	lnr := make([]float64, len(radii))
	for i, r := range radii {
		lnr[i] = math.Log(r)
	}
	vals := make([][]float64, len(radii))
	for i := range vals {
		vals[i] = make([]float64, len(mus))
	}
	fails := make([]int, len(radii))
	ParallelFor(len(radii), 1, func(start, end int) {
		for i := start; i < end; i++ {
			r := radii[i]
			for j, mu := range mus {
				s := math.Sqrt(1 - mu*mu)
				rho, err := gm.Density(r*s, r*mu)
				if err != nil || rho < 0 || math.IsNaN(rho) {
					rho = 0
					fails[i]++
				}
				vals[i][j] = rho
			}
		}
	})
	for _, n := range fails {
		failed += n
	}
	f := &spheroidField{
		grid: grid2D{xs: lnr, ys: mus, v: vals},
		rmin: c.grid.RMin,
		rmax: c.grid.RMax,
	}
	f.integrate()
	c.dens = f
	return failed, len(radii) * len(mus)
}

func (c *Component) updateDisk(gm *galaxy.Model) (failed, total int) {
	radii := geom.LogSpaced(c.grid.NR, c.grid.RMin, c.grid.RMax)
	// Vertical nodes clustered at the midplane on roughly a tenth of the
	// vertical extent.
	zs := geom.SinhSpaced(c.grid.NZ, c.grid.ZMax, 0.1*c.grid.ZMax)
	lnr := make([]float64, len(radii))
	for i, r := range radii {
		lnr[i] = math.Log(r)
	}
	vals := make([][]float64, len(radii))
	for i := range vals {
		vals[i] = make([]float64, len(zs))
	}
	fails := make([]int, len(radii))
	ParallelFor(len(radii), 1, func(start, end int) {
		for i := start; i < end; i++ {
			for j, z := range zs {
				rho, err := gm.Density(radii[i], z)
				if err != nil || rho < 0 || math.IsNaN(rho) {
					rho = 0
					fails[i]++
				}
				vals[i][j] = rho
			}
		}
	})
	for _, n := range fails {
		failed += n
	}
	f := &diskField{
		grid: grid2D{xs: lnr, ys: zs, v: vals},
		rmin: c.grid.RMin,
		rmax: c.grid.RMax,
		zmax: c.grid.ZMax,
	}
	f.integrate()
	c.dens = f
	return failed, len(radii) * len(zs)
}
