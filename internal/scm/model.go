// Package scm implements the self-consistent model: an ordered set of mass
// components coupled through one shared gravitational potential. Each
// Iterate call re-derives every component's density in the potential of the
// previous iteration and re-solves the potential from the sum: one block
// Gauss-Seidel sweep with a fixed, reproducible component order.
package scm

import (
	"math"

	"github.com/san-kum/galsim/internal/actions"
	"github.com/san-kum/galsim/internal/galaxy"
	"github.com/san-kum/galsim/internal/potential"
	"github.com/san-kum/galsim/internal/profile"
)

// Options configures the potential solve shared by all components.
type Options struct {
	// Lmax is the harmonic order of the composite potential expansion;
	// LmaxDisk is used instead when any disk-like component is present.
	Lmax     int     `yaml:"lmax"`
	LmaxDisk int     `yaml:"lmax_disk"`
	NR       int     `yaml:"grid_size_r"`
	RMin     float64 `yaml:"rmin"`
	RMax     float64 `yaml:"rmax"`
	NTheta   int     `yaml:"ntheta"`

	// Quad tunes the per-point velocity-space quadrature of DF-based
	// components.
	Quad galaxy.Options `yaml:"-"`
}

func (o *Options) setDefaults() {
	if o.LmaxDisk == 0 {
		o.LmaxDisk = o.Lmax + 4
	}
	if o.LmaxDisk%2 != 0 {
		o.LmaxDisk++
	}
}

// RefDensity is a density sample at a fixed reference point.
type RefDensity struct {
	R, Z float64
	Rho  float64
}

// ComponentReport is the per-component slice of an iteration report.
type ComponentReport struct {
	Name         string
	Mass         float64
	RefDensities []RefDensity
	FailedPoints int
	GridPoints   int
}

// Report carries the diagnostics of one completed iteration. The core never
// prints; an external reporter consumes these.
type Report struct {
	Iteration  int
	Components []ComponentReport
	TotalMass  float64
	Phi0       float64 // potential at the origin
	Warnings   []Warning
}

// Model owns the component list and the current shared potential.
type Model struct {
	components []*Component
	pot        potential.Potential
	opt        Options
	iteration  int
}

// New creates an empty model. Components are added (and later replaced) by
// the driver; the model never reorders them.
func New(opt Options) *Model {
	opt.setDefaults()
	return &Model{opt: opt}
}

// AddComponent appends a component. Must not be called while an iteration is
// in progress.
func (m *Model) AddComponent(c *Component) {
	m.components = append(m.components, c)
}

// Replace swaps the component in slot i, preserving the iteration order.
// Replacement must happen strictly between Iterate calls.
func (m *Model) Replace(i int, c *Component) {
	m.components[i] = c
}

// Component returns the component in slot i.
func (m *Model) Component(i int) *Component { return m.components[i] }

// NumComponents returns the number of component slots.
func (m *Model) NumComponents() int { return len(m.components) }

// Potential returns the current potential, nil before the first iteration.
// The returned value is an immutable snapshot: iterations replace it
// wholesale rather than mutating it.
func (m *Model) Potential() potential.Potential { return m.pot }

// Iteration returns the number of completed iterations.
func (m *Model) Iteration() int { return m.iteration }

// Iterate performs one full sweep: every component's density contribution is
// computed in the potential as of the start of the call, the contributions
// are summed, and the potential is re-solved from the sum. On a solve
// failure the previous potential remains the model's current one and the
// error is returned; per-point integration failures are warnings in the
// report, not errors.
func (m *Model) Iterate() (*Report, error) {
	if len(m.components) == 0 {
		return nil, ErrEmptyModel
	}
	startPot := m.pot

	var af *actions.Finder
	anyDisk := false
	for _, c := range m.components {
		if c.Disklike {
			anyDisk = true
		}
		if c.repr == DFBased {
			if startPot == nil {
				return nil, ErrNoPotential
			}
			if af == nil {
				af = actions.NewFinder(startPot, actions.FinderOpts{
					RMin: m.opt.RMin, RMax: m.opt.RMax,
				})
			}
		}
	}

	rep := &Report{Iteration: m.iteration + 1}
	fields := make([]profile.Field, len(m.components))
	for i, c := range m.components {
		failed, total := c.update(startPot, af, m.opt.Quad)
		fields[i] = c.dens
		mass := c.dens.TotalMass()

		cr := ComponentReport{
			Name:         c.Name,
			Mass:         mass,
			FailedPoints: failed,
			GridPoints:   total,
		}
		for _, p := range c.RefPoints {
			cr.RefDensities = append(cr.RefDensities, RefDensity{
				R: p[0], Z: p[1], Rho: c.dens.Density(p[0], p[1]),
			})
		}
		rep.Components = append(rep.Components, cr)

		if failed > 0 {
			rep.Warnings = append(rep.Warnings, Warning{
				Component: c.Name, Kind: WarnIntegration,
				FailedPoints: failed, GridPoints: total,
			})
		}
		if mass == 0 {
			rep.Warnings = append(rep.Warnings, Warning{Component: c.Name, Kind: WarnEmpty})
		}
	}

	composite := profile.NewComposite(fields...)
	lmax := m.opt.Lmax
	if anyDisk {
		lmax = m.opt.LmaxDisk
	}
	newPot, err := potential.NewMultipole(composite, potential.MultipoleOpts{
		Lmax:   lmax,
		NR:     m.opt.NR,
		RMin:   m.opt.RMin,
		RMax:   m.opt.RMax,
		NTheta: m.opt.NTheta,
	})
	if err != nil {
		return rep, &SolveError{Iteration: m.iteration + 1, Wrapped: err}
	}

	m.pot = newPot
	m.iteration++
	rep.TotalMass = composite.TotalMass()
	rep.Phi0 = newPot.Value(0, 0)
	return rep, nil
}

// ConvergeFunc compares two successive potentials; returning true stops a
// Run early. prev may be nil on the first iteration.
type ConvergeFunc func(prev, cur potential.Potential) bool

// Run performs up to iterations sweeps, optionally stopping early when
// converged reports the potential stable. The original fixed-schedule
// behavior is Run(n, nil).
func (m *Model) Run(iterations int, converged ConvergeFunc) ([]*Report, error) {
	var reports []*Report
	for i := 0; i < iterations; i++ {
		prev := m.pot
		rep, err := m.Iterate()
		if rep != nil {
			reports = append(reports, rep)
		}
		if err != nil {
			return reports, err
		}
		if converged != nil && converged(prev, m.pot) {
			break
		}
	}
	return reports, nil
}

// PotentialDelta measures the maximum relative difference between two
// potentials over the given midplane and axis radii. A convenient
// ConvergeFunc building block.
func PotentialDelta(a, b potential.Potential, radii []float64) float64 {
	if a == nil || b == nil {
		return math.Inf(1)
	}
	max := 0.0
	for _, r := range radii {
		for _, pt := range [][2]float64{{r, 0}, {0, r}} {
			va := a.Value(pt[0], pt[1])
			vb := b.Value(pt[0], pt[1])
			scale := math.Max(math.Abs(va), math.Abs(vb))
			if scale == 0 {
				continue
			}
			if d := math.Abs(va-vb) / scale; d > max {
				max = d
			}
		}
	}
	return max
}
