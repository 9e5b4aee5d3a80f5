// Package df provides distribution functions: phase-space mass densities
// expressed in action coordinates. The Isotropic variant is constructed by
// Eddington inversion of a target density profile; QuasiIsothermal is the
// directly-parameterized disk DF.
package df

import (
	"errors"

	"github.com/san-kum/galsim/internal/actions"
)

// DistributionFunction is a non-negative phase-space mass density.
type DistributionFunction interface {
	// Value returns the phase-space density at the given actions.
	Value(a actions.Actions) float64
	// TotalMass returns the mass the DF integrates to.
	TotalMass() float64
}

// EnergyDF is implemented by DFs that depend on orbit energy alone.
// Density integration uses this as a fast path: for an ergodic DF the
// velocity-space integral reduces to a single quadrature over speed.
type EnergyDF interface {
	DistributionFunction
	// ValueE returns the phase-space density at energy E (E < 0 bound).
	ValueE(E float64) float64
}

var (
	// ErrInversion indicates Eddington inversion failed: the density is not
	// a monotonically increasing function of the relative potential beyond
	// numerical tolerance, so the resulting DF would be negative.
	ErrInversion = errors.New("df: eddington inversion produced a negative distribution")

	// ErrParameterBounds indicates a DF parameter outside its valid range.
	ErrParameterBounds = errors.New("df: parameter out of valid bounds")
)
