package profile

import "math"

// ExpDisk is a double-exponential disk
// rho(R,z) = M / (4 pi Rd^2 h) * exp(-R/Rd) * exp(-|z|/h),
// which integrates exactly to M.
type ExpDisk struct {
	Mass        float64
	ScaleRadius float64
	ScaleHeight float64
}

func (d *ExpDisk) Density(R, z float64) float64 {
	norm := d.Mass / (4 * math.Pi * d.ScaleRadius * d.ScaleRadius * d.ScaleHeight)
	return norm * math.Exp(-R/d.ScaleRadius) * math.Exp(-math.Abs(z)/d.ScaleHeight)
}

func (d *ExpDisk) TotalMass() float64 { return d.Mass }

// SurfaceDensity returns the face-on surface density at radius R.
func (d *ExpDisk) SurfaceDensity(R float64) float64 {
	return d.Mass / (2 * math.Pi * d.ScaleRadius * d.ScaleRadius) * math.Exp(-R/d.ScaleRadius)
}
