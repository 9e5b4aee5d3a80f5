package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Components) != 3 {
		t.Errorf("default components: %d", len(cfg.Components))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	cfg := DefaultConfig()
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Components) != len(cfg.Components) {
		t.Fatalf("components: %d vs %d", len(back.Components), len(cfg.Components))
	}
	for i := range cfg.Components {
		a, b := cfg.Components[i], back.Components[i]
		if a.Name != b.Name || a.Potential.Type != b.Potential.Type ||
			a.Potential.Mass != b.Potential.Mass || a.DF.Type != b.DF.Type {
			t.Errorf("component %d changed: %+v vs %+v", i, a, b)
		}
	}
	if back.Iterations != cfg.Iterations {
		t.Errorf("iterations: %d vs %d", back.Iterations, cfg.Iterations)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no components", func(c *Config) { c.Components = nil }, ErrMissingKey},
		{"unnamed component", func(c *Config) { c.Components[0].Name = "" }, ErrMissingKey},
		{"duplicate name", func(c *Config) { c.Components[1].Name = c.Components[0].Name }, ErrBadValue},
		{"no profile type", func(c *Config) { c.Components[0].Potential.Type = "" }, ErrMissingKey},
		{"bad mass", func(c *Config) { c.Components[0].Potential.Mass = -2 }, ErrBadValue},
		{"bad scale", func(c *Config) { c.Components[2].Potential.ScaleRadius = 0 }, ErrBadValue},
		{"unknown df", func(c *Config) { c.Components[0].DF.Type = "kroupa" }, ErrBadValue},
		{"qi without sigma0", func(c *Config) { c.Components[0].DF.QuasiIsothermal.Sigma0 = 0 }, ErrBadValue},
		{"negative iterations", func(c *Config) { c.Iterations = -1 }, ErrBadValue},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		err := cfg.Validate()
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v", tc.name, err)
			continue
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("%s: not a ConfigError: %v", tc.name, err)
		}
	}
}
