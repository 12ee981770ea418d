package config

import "sort"

func preset(name, description string, volume float64, bodies ...BodyConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Fluid.Volume = volume
	cfg.Bodies = bodies
	Descriptions[name] = description
	return cfg
}

// Descriptions holds a one-line summary per preset, filled in as Presets
// is built.
var Descriptions = map[string]string{}

var Presets = map[string]*Config{
	"floating-block": preset("floating-block", "pine block settling half submerged", 1.0,
		BodyConfig{Name: "pine", Kind: "box", Width: 0.3, Height: 0.3, Depth: 0.3, Density: 500, X: 0, Y: 1.0},
	),
	"sinking-block": preset("sinking-block", "aluminium block dropped to the floor", 1.0,
		BodyConfig{Name: "aluminium", Kind: "box", Width: 0.3, Height: 0.3, Depth: 0.3, Density: 2700, X: 0, Y: 1.0},
	),
	"boat": preset("boat", "empty boat carrying a brick", 1.0,
		BodyConfig{Name: "boat", Kind: "boat", Width: 0.8, Height: 0.3, Depth: 0.6, Wall: 0.03, Density: 700, X: 0, Y: 0.7},
		BodyConfig{Name: "brick", Kind: "box", Width: 0.15, Height: 0.15, Depth: 0.15, Density: 2000, X: 0, Y: 0.66},
	),
	"boat-lift": preset("boat-lift", "partly flooded boat riding low at its waterline", 1.0,
		BodyConfig{Name: "boat", Kind: "boat", Width: 0.8, Height: 0.3, Depth: 0.6, Wall: 0.03, Density: 700, X: 0, Y: 0.55, Fluid: 0.04},
	),
	"scale": preset("scale", "steel block weighed under shallow fluid", 0.2,
		BodyConfig{Name: "scale", Kind: "scale", Width: 0.6, Height: 0.1, Depth: 0.6, Density: 3000, X: 0, Y: 0.05},
		BodyConfig{Name: "steel", Kind: "box", Width: 0.2, Height: 0.2, Depth: 0.2, Density: 7800, X: 0, Y: 0.2},
	),
	"cones": preset("cones", "cones and a cylinder finding their waterlines", 1.2,
		BodyConfig{Name: "cone", Kind: "cone", Radius: 0.15, Height: 0.3, Density: 500, X: -0.5, Y: 1.0},
		BodyConfig{Name: "inverted", Kind: "cone", Radius: 0.15, Height: 0.3, Inverted: true, Density: 500, X: 0.5, Y: 1.0},
		BodyConfig{Name: "cylinder", Kind: "cylinder", Radius: 0.12, Height: 0.3, Density: 800, X: 0, Y: 1.0},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	c.Bodies = append([]BodyConfig(nil), cfg.Bodies...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
