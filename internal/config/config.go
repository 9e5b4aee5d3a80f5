// Package config reads and validates the model description: one parameter
// group per potential profile, per distribution function, and per solver
// role. Groups are forwarded as-is to the profile/DF constructors; the
// validation here only checks that the keys a chosen type requires are
// present and in their valid domain.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/galsim/internal/df"
	"github.com/san-kum/galsim/internal/profile"
	"github.com/san-kum/galsim/internal/scm"
)

var (
	// ErrMissingKey indicates a parameter required by the chosen type is absent.
	ErrMissingKey = errors.New("config: missing required key")

	// ErrBadValue indicates a parameter outside its valid domain.
	ErrBadValue = errors.New("config: value out of valid domain")
)

// ConfigError reports which group and key failed validation. Fatal to the
// construction call that raised it only.
type ConfigError struct {
	Group string
	Key   string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: [%s] %s", e.Err, e.Group, e.Key)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// SolverConfig is the global parameter group of the potential expansion.
type SolverConfig struct {
	Lmax     int     `yaml:"lmax"`
	LmaxDisk int     `yaml:"lmax_disk"`
	GridSize int     `yaml:"grid_size_r"`
	RMin     float64 `yaml:"rmin"`
	RMax     float64 `yaml:"rmax"`
	NTheta   int     `yaml:"ntheta"`
	TolRel   float64 `yaml:"tolerance"`
}

// DFConfig selects and parameterizes a component's distribution function.
// An empty type leaves the component static for the whole run.
type DFConfig struct {
	Type            string                   `yaml:"type"`
	QuasiIsothermal df.QuasiIsothermalParams `yaml:",inline"`
}

// ComponentConfig is one named solver role: its initial density profile, the
// DF it switches to after the bootstrap stage, and the discretization grid
// used when integrating density from that DF.
type ComponentConfig struct {
	Name            string         `yaml:"name"`
	Disklike        bool           `yaml:"disklike"`
	Potential       profile.Params `yaml:"potential"`
	DF              DFConfig       `yaml:"df"`
	Grid            scm.GridParams `yaml:"grid"`
	ReferencePoints [][2]float64   `yaml:"reference_points"`
	Particles       int            `yaml:"particles"`
}

// Config is the full model description.
type Config struct {
	Solver              SolverConfig      `yaml:"solver"`
	Components          []ComponentConfig `yaml:"components"`
	BootstrapIterations int               `yaml:"bootstrap_iterations"`
	Iterations          int               `yaml:"iterations"`
}

// Load reads a configuration from path, applying defaults for absent keys
// and validating the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Components = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks required keys per chosen profile/DF type.
func (c *Config) Validate() error {
	if len(c.Components) == 0 {
		return &ConfigError{Group: "components", Key: "(none)", Err: ErrMissingKey}
	}
	if c.BootstrapIterations < 1 {
		c.BootstrapIterations = 1
	}
	if c.Iterations < 0 {
		return &ConfigError{Group: "solver", Key: "iterations", Err: ErrBadValue}
	}
	seen := map[string]bool{}
	for i := range c.Components {
		cc := &c.Components[i]
		if cc.Name == "" {
			return &ConfigError{Group: fmt.Sprintf("components[%d]", i), Key: "name", Err: ErrMissingKey}
		}
		if seen[cc.Name] {
			return &ConfigError{Group: cc.Name, Key: "name", Err: ErrBadValue}
		}
		seen[cc.Name] = true
		if cc.Potential.Type == "" {
			return &ConfigError{Group: cc.Name, Key: "potential.type", Err: ErrMissingKey}
		}
		if cc.Potential.Mass <= 0 {
			return &ConfigError{Group: cc.Name, Key: "potential.mass", Err: ErrBadValue}
		}
		if cc.Potential.ScaleRadius <= 0 {
			return &ConfigError{Group: cc.Name, Key: "potential.scale_radius", Err: ErrBadValue}
		}
		switch cc.DF.Type {
		case "", "pseudoisotropic":
		case "quasiisothermal":
			if cc.DF.QuasiIsothermal.Sigma0 <= 0 {
				return &ConfigError{Group: cc.Name, Key: "df.sigma0", Err: ErrBadValue}
			}
			if cc.DF.QuasiIsothermal.Rdisk <= 0 {
				return &ConfigError{Group: cc.Name, Key: "df.rdisk", Err: ErrBadValue}
			}
			if cc.DF.QuasiIsothermal.SigmaR0 <= 0 {
				return &ConfigError{Group: cc.Name, Key: "df.sigmar0", Err: ErrBadValue}
			}
		default:
			return &ConfigError{Group: cc.Name, Key: "df.type", Err: ErrBadValue}
		}
	}
	return nil
}
