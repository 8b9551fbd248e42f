package config

import (
	"slices"

	"github.com/san-kum/plife/internal/life"
)

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"small": func() *Config {
		c := DefaultConfig()
		c.World = WorldConfig{Width: 800, Height: 800, ParticleSize: 4, Boundary: string(life.BoundaryWrap)}
		c.Density = 150
		c.Physics.MaxDistance = 300
		c.Physics.MinSeparation = 20
		c.Physics.InitialSpeed = 10
		return c
	}(),
	"dense": func() *Config {
		c := DefaultConfig()
		c.Density = 1200
		c.World.ParticleSize = 6
		c.Ticks = 300
		return c
	}(),
	"swarm": func() *Config {
		c := DefaultConfig()
		c.Groups = []GroupConfig{
			{Name: "alpha"}, {Name: "beta"}, {Name: "gamma"},
			{Name: "delta"}, {Name: "epsilon"}, {Name: "zeta"},
		}
		c.World = WorldConfig{Width: 1200, Height: 1200, ParticleSize: 5, Boundary: string(life.BoundaryWrap)}
		c.Density = 200
		c.Physics.MaxDistance = 400
		c.Physics.MinSeparation = 15
		c.Physics.Friction = 0.2
		c.Physics.RoundRobin = 3
		c.Physics.SignMode = string(life.SignStrength)
		return c
	}(),
	"legacy": func() *Config {
		c := DefaultConfig()
		c.World.Boundary = string(life.BoundaryMirror)
		c.Physics.Offsets = string(life.OffsetLegacy)
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
