package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/plife/internal/life"
)

const (
	DefaultSeed          = 1
	DefaultTicks         = 600
	DefaultWidth         = 2000.0
	DefaultHeight        = 2000.0
	DefaultParticleSize  = 10.0
	DefaultDensity       = 600
	DefaultMaxGravity    = 2.0
	DefaultMaxDistance   = 800.0
	DefaultMinSeparation = 50.0
	DefaultFriction      = 0.5
	DefaultRoundRobin    = 2
	DefaultInitialSpeed  = 25.0
	DefaultTickRate      = 30.0
	DefaultSampleEvery   = 10
)

var ErrUnknownParam = errors.New("config: unknown parameter")

type Config struct {
	Seed          int64         `yaml:"seed" json:"seed"`
	Ticks         int           `yaml:"ticks" json:"ticks"`
	World         WorldConfig   `yaml:"world" json:"world"`
	Groups        []GroupConfig `yaml:"groups" json:"groups"`
	Density       int           `yaml:"density" json:"density"`
	Physics       PhysicsConfig `yaml:"physics" json:"physics"`
	Runtime       RuntimeConfig `yaml:"runtime" json:"runtime"`
	RelationsFile string        `yaml:"relations_file,omitempty" json:"relations_file,omitempty"`
}

type WorldConfig struct {
	Width        float64 `yaml:"width" json:"width"`
	Height       float64 `yaml:"height" json:"height"`
	ParticleSize float64 `yaml:"particle_size" json:"particle_size"`
	Boundary     string  `yaml:"boundary" json:"boundary"`
}

type GroupConfig struct {
	Name string `yaml:"name" json:"name"`
	// Color is a #rrggbb hex string; empty picks one from the palette.
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

type PhysicsConfig struct {
	MaxGravity    float64 `yaml:"max_gravity" json:"max_gravity"`
	MaxDistance   float64 `yaml:"max_distance" json:"max_distance"`
	MinSeparation float64 `yaml:"min_separation" json:"min_separation"`
	Friction      float64 `yaml:"friction" json:"friction"`
	RoundRobin    int     `yaml:"round_robin" json:"round_robin"`
	SignMode      string  `yaml:"sign_mode" json:"sign_mode"`
	Offsets       string  `yaml:"offsets" json:"offsets"`
	InitialSpeed  float64 `yaml:"initial_speed" json:"initial_speed"`
}

type RuntimeConfig struct {
	TickRate float64 `yaml:"tick_rate" json:"tick_rate"`
	// Workers of 0 sizes the pool to the machine.
	Workers     int `yaml:"workers" json:"workers"`
	SampleEvery int `yaml:"sample_every" json:"sample_every"`
}

func referenceGroups() []GroupConfig {
	return []GroupConfig{
		{Name: "green", Color: "#00ff00"},
		{Name: "red", Color: "#ff0000"},
		{Name: "cyan", Color: "#00ffff"},
		{Name: "blue", Color: "#0000ff"},
	}
}

func DefaultConfig() *Config {
	return &Config{
		Seed:  DefaultSeed,
		Ticks: DefaultTicks,
		World: WorldConfig{
			Width:        DefaultWidth,
			Height:       DefaultHeight,
			ParticleSize: DefaultParticleSize,
			Boundary:     string(life.BoundaryWrap),
		},
		Groups:  referenceGroups(),
		Density: DefaultDensity,
		Physics: PhysicsConfig{
			MaxGravity:    DefaultMaxGravity,
			MaxDistance:   DefaultMaxDistance,
			MinSeparation: DefaultMinSeparation,
			Friction:      DefaultFriction,
			RoundRobin:    DefaultRoundRobin,
			SignMode:      string(life.SignNone),
			Offsets:       string(life.OffsetAttract),
			InitialSpeed:  DefaultInitialSpeed,
		},
		Runtime: RuntimeConfig{
			TickRate:    DefaultTickRate,
			SampleEvery: DefaultSampleEvery,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	out := *c
	out.Groups = append([]GroupConfig(nil), c.Groups...)
	return &out
}

// Validate checks the run settings and everything LifeConfig would reject.
func (c *Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.Runtime.SampleEvery < 0 {
		return fmt.Errorf("sample_every must be non-negative, got %d", c.Runtime.SampleEvery)
	}
	lc, err := c.LifeConfig()
	if err != nil {
		return err
	}
	return lc.Validate()
}

// LifeConfig converts the file representation into a kernel configuration.
func (c *Config) LifeConfig() (life.Config, error) {
	specs, err := c.GroupSpecs()
	if err != nil {
		return life.Config{}, err
	}

	workers := c.Runtime.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	return life.Config{
		Groups:        specs,
		Density:       c.Density,
		Bounds:        life.Bounds{Width: c.World.Width, Height: c.World.Height},
		ParticleSize:  c.World.ParticleSize,
		Boundary:      life.BoundaryKind(c.World.Boundary),
		MaxGravity:    c.Physics.MaxGravity,
		MaxDistance:   c.Physics.MaxDistance,
		MinSeparation: c.Physics.MinSeparation,
		Friction:      c.Physics.Friction,
		RoundRobin:    c.Physics.RoundRobin,
		SignMode:      life.SignMode(c.Physics.SignMode),
		Offsets:       life.OffsetMode(c.Physics.Offsets),
		InitialSpeed:  c.Physics.InitialSpeed,
		TickRate:      c.Runtime.TickRate,
		Workers:       workers,
		InitialTick:   1,
	}, nil
}

// GroupSpecs resolves group colours. Groups without a colour get an evenly
// spaced hue so that any number of groups stays distinguishable.
func (c *Config) GroupSpecs() ([]life.GroupSpec, error) {
	palette := Palette(len(c.Groups))
	specs := make([]life.GroupSpec, len(c.Groups))
	for i, g := range c.Groups {
		col := palette[i]
		if g.Color != "" {
			parsed, err := colorful.Hex(g.Color)
			if err != nil {
				return nil, &life.ConfigError{
					Field:   fmt.Sprintf("groups[%d].color", i),
					Reason:  err.Error(),
					Wrapped: life.ErrInvalidConfig,
				}
			}
			col = parsed
		}
		name := g.Name
		if name == "" {
			name = fmt.Sprintf("group%d", i)
		}
		r, gr, b := col.RGB255()
		specs[i] = life.GroupSpec{Name: name, Color: color.RGBA{R: r, G: gr, B: b, A: 255}}
	}
	return specs, nil
}

// Palette returns n colours with hues spread evenly around the wheel.
func Palette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = colorful.Hsv(360*float64(i)/float64(max(n, 1)), 0.85, 0.95)
	}
	return out
}

// Params lists the numeric parameters accepted by SetParam.
func Params() []string {
	return []string{"friction", "max_gravity", "max_distance", "min_separation", "round_robin", "density", "initial_speed"}
}

// SetParam assigns a numeric parameter by its yaml name.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "friction":
		c.Physics.Friction = v
	case "max_gravity":
		c.Physics.MaxGravity = v
	case "max_distance":
		c.Physics.MaxDistance = v
	case "min_separation":
		c.Physics.MinSeparation = v
	case "round_robin":
		c.Physics.RoundRobin = int(v)
	case "density":
		c.Density = int(v)
	case "initial_speed":
		c.Physics.InitialSpeed = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// Param reads a numeric parameter by its yaml name.
func (c *Config) Param(name string) (float64, error) {
	switch name {
	case "friction":
		return c.Physics.Friction, nil
	case "max_gravity":
		return c.Physics.MaxGravity, nil
	case "max_distance":
		return c.Physics.MaxDistance, nil
	case "min_separation":
		return c.Physics.MinSeparation, nil
	case "round_robin":
		return float64(c.Physics.RoundRobin), nil
	case "density":
		return float64(c.Density), nil
	case "initial_speed":
		return c.Physics.InitialSpeed, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
}
