package config

import (
	"github.com/san-kum/galsim/internal/df"
	"github.com/san-kum/galsim/internal/profile"
	"github.com/san-kum/galsim/internal/scm"
)

// DefaultConfig is the three-component disk-bulge-halo galaxy in model units
// (G = 1, disk scale radius and circular velocity of order unity).
func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Lmax:     4,
			LmaxDisk: 8,
			GridSize: 60,
			RMin:     1e-3,
			RMax:     1e3,
			NTheta:   20,
			TolRel:   1e-3,
		},
		BootstrapIterations: 1,
		Iterations:          6,
		Components: []ComponentConfig{
			{
				Name:     "disk",
				Disklike: true,
				Potential: profile.Params{
					Type:        "exponentialdisk",
					Mass:        1.0,
					ScaleRadius: 3.0,
					ScaleHeight: 0.4,
				},
				DF: DFConfig{
					Type: "quasiisothermal",
					QuasiIsothermal: df.QuasiIsothermalParams{
						Sigma0:  0.0177, // = Mdisk / (2 pi Rdisk^2)
						Rdisk:   3.0,
						SigmaR0: 0.6,
						RsigmaR: 6.0,
					},
				},
				Grid:            scm.GridParams{RMin: 0.1, RMax: 30, NR: 25, NZ: 15, ZMax: 3},
				ReferencePoints: [][2]float64{{2, 0}, {2, 0.25}},
				Particles:       160000,
			},
			{
				Name:     "bulge",
				Disklike: false,
				Potential: profile.Params{
					Type:        "hernquist",
					Mass:        0.2,
					ScaleRadius: 0.5,
				},
				DF:              DFConfig{Type: "pseudoisotropic"},
				Grid:            scm.GridParams{RMin: 0.01, RMax: 10, NR: 30, NMu: 6},
				ReferencePoints: [][2]float64{{0.4, 0}},
				Particles:       40000,
			},
			{
				Name:     "halo",
				Disklike: false,
				Potential: profile.Params{
					Type:              "nfw",
					Mass:              25.0,
					ScaleRadius:       15.0,
					OuterCutoffRadius: 200.0,
				},
				DF:              DFConfig{Type: "pseudoisotropic"},
				Grid:            scm.GridParams{RMin: 0.05, RMax: 300, NR: 35, NMu: 6},
				ReferencePoints: [][2]float64{{2, 0}, {0, 2}},
				Particles:       800000,
			},
		},
	}
}
