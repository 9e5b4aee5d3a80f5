// Package profile provides the analytic density fields used as the static
// representation of model components and as inversion targets. All fields are
// axisymmetric and evaluated in cylindrical coordinates; units have G = 1.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

// Field is a mass density distribution.
type Field interface {
	// Density returns the mass density at cylindrical radius R and height z.
	Density(R, z float64) float64
	// TotalMass returns the total mass of the field.
	TotalMass() float64
}

var (
	// ErrParameterBounds indicates a profile parameter outside its valid range.
	ErrParameterBounds = errors.New("profile: parameter out of valid bounds")

	// ErrUnknownType indicates an unrecognized profile type name.
	ErrUnknownType = errors.New("profile: unknown profile type")
)

// Params is the flat parameter group describing one profile, as read from a
// configuration file. Fields irrelevant to the chosen type are ignored.
type Params struct {
	Type              string  `yaml:"type"`
	Mass              float64 `yaml:"mass"`
	ScaleRadius       float64 `yaml:"scale_radius"`
	ScaleHeight       float64 `yaml:"scale_height"`
	OuterCutoffRadius float64 `yaml:"outer_cutoff_radius"`
}

// New constructs a density field from a parameter group. The type key selects
// the profile; required parameters are validated here so that bad values fail
// at construction rather than deep inside quadrature.
func New(p Params) (Field, error) {
	if p.Mass <= 0 {
		return nil, fmt.Errorf("%w: mass=%g", ErrParameterBounds, p.Mass)
	}
	if p.ScaleRadius <= 0 {
		return nil, fmt.Errorf("%w: scale_radius=%g", ErrParameterBounds, p.ScaleRadius)
	}
	switch strings.ToLower(p.Type) {
	case "plummer":
		return &Plummer{Mass: p.Mass, Scale: p.ScaleRadius}, nil
	case "hernquist":
		return &Hernquist{Mass: p.Mass, Scale: p.ScaleRadius}, nil
	case "nfw":
		rcut := p.OuterCutoffRadius
		if rcut <= 0 {
			return nil, fmt.Errorf("%w: outer_cutoff_radius=%g", ErrParameterBounds, rcut)
		}
		return NewNFW(p.Mass, p.ScaleRadius, rcut), nil
	case "exponentialdisk", "disk":
		if p.ScaleHeight <= 0 {
			return nil, fmt.Errorf("%w: scale_height=%g", ErrParameterBounds, p.ScaleHeight)
		}
		return &ExpDisk{Mass: p.Mass, ScaleRadius: p.ScaleRadius, ScaleHeight: p.ScaleHeight}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}
}
