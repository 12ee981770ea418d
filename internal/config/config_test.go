package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/geometry"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if got := cfg.Tuning().EmergenceFraction; got != 0.9 {
		t.Errorf("expected emergence fraction 0.9, got %v", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("boat")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(cfg.Bodies))
	}

	cfg.Bodies[0].Density = 1
	if Presets["boat"].Bodies[0].Density == 1 {
		t.Error("GetPreset must not alias the preset table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		if Descriptions[name] == "" {
			t.Errorf("preset %s has no description", name)
		}
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if err := GetPreset(name).Validate(); err != nil {
				t.Errorf("invalid preset: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	boat := BodyConfig{Kind: "boat", Width: 1, Height: 0.5, Depth: 0.5, Wall: 0.05, Density: 500}

	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, nil},
		{"negative duration", func(c *Config) { c.Duration = -1 }, nil},
		{"inverted pool", func(c *Config) { c.Pool.MaxX = c.Pool.MinX - 1 }, dynamo.ErrInvalidBounds},
		{"negative volume", func(c *Config) { c.Fluid.Volume = -1 }, nil},
		{"unknown kind", func(c *Config) { c.Bodies = []BodyConfig{{Kind: "sphere", Density: 1}} }, nil},
		{"flat box", func(c *Config) {
			c.Bodies = []BodyConfig{{Kind: "box", Width: 1, Depth: 1, Density: 1}}
		}, dynamo.ErrInvalidShape},
		{"outside pool", func(c *Config) {
			c.Bodies = []BodyConfig{{Kind: "box", Width: 0.1, Height: 0.1, Depth: 0.1, Density: 1, X: 9}}
		}, nil},
		{"two boats", func(c *Config) { c.Bodies = []BodyConfig{boat, boat} }, dynamo.ErrMultipleBoats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestBodyShape(t *testing.T) {
	tests := []struct {
		body BodyConfig
		kind geometry.Kind
	}{
		{BodyConfig{Kind: "box", Width: 1, Height: 1, Depth: 1}, geometry.KindBox},
		{BodyConfig{Kind: "scale", Width: 1, Height: 0.1, Depth: 1}, geometry.KindScale},
		{BodyConfig{Kind: "cylinder", Radius: 0.5, Height: 1}, geometry.KindCylinder},
		{BodyConfig{Kind: "cone", Radius: 0.5, Height: 1, Inverted: true}, geometry.KindCone},
		{BodyConfig{Kind: "boat", Width: 1, Height: 0.5, Depth: 1, Wall: 0.1}, geometry.KindBoat},
	}

	for _, tt := range tests {
		t.Run(tt.body.Kind, func(t *testing.T) {
			s, err := tt.body.Shape()
			if err != nil {
				t.Fatalf("Shape: %v", err)
			}
			if s.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", s.Kind(), tt.kind)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("cones")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "cones" || len(loaded.Bodies) != 3 {
		t.Errorf("loaded %s with %d bodies", loaded.Name, len(loaded.Bodies))
	}
	if !loaded.Bodies[1].Inverted {
		t.Error("inverted flag lost")
	}
	if loaded.Fluid.Volume != cfg.Fluid.Volume {
		t.Errorf("volume = %v, want %v", loaded.Fluid.Volume, cfg.Fluid.Volume)
	}
}

func TestBuild(t *testing.T) {
	scene, err := GetPreset("boat").Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(scene.System.Bodies) != 2 {
		t.Errorf("expected 2 bodies, got %d", len(scene.System.Bodies))
	}
	if scene.System.Boat() == nil {
		t.Error("boat preset should create a boat basin")
	}

	bad := DefaultConfig()
	bad.Dt = 0
	if _, err := bad.Build(); err == nil {
		t.Error("expected build to reject an invalid config")
	}
}
