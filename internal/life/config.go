package life

import "math"

// Config is fixed for the lifetime of a World.
type Config struct {
	Groups        []GroupSpec
	Density       int
	Bounds        Bounds
	ParticleSize  float64
	Boundary      BoundaryKind
	MaxGravity    float64
	MaxDistance   float64
	MinSeparation float64
	Friction      float64
	RoundRobin    int // 0 or 1 disables skipping
	SignMode      SignMode
	Offsets       OffsetMode
	InitialSpeed  float64
	TickRate      float64
	Workers       int
	InitialTick   uint64
}

func (c Config) GroupCount() int { return len(c.Groups) }

func (c Config) Validate() error {
	if len(c.Groups) == 0 {
		return &ConfigError{Field: "groups", Reason: "is empty", Wrapped: ErrNoGroups}
	}
	if c.Density < 1 {
		return invalid("density", "must be positive, got %d", c.Density)
	}
	if !positive(c.Bounds.Width) || !positive(c.Bounds.Height) {
		return invalid("bounds", "must be positive, got %vx%v", c.Bounds.Width, c.Bounds.Height)
	}
	if !nonNegative(c.ParticleSize) || c.ParticleSize >= c.Bounds.Width || c.ParticleSize >= c.Bounds.Height {
		return invalid("particle_size", "must be in [0, bounds), got %v", c.ParticleSize)
	}
	if !nonNegative(c.MaxGravity) {
		return invalid("max_gravity", "must be non-negative, got %v", c.MaxGravity)
	}
	if !nonNegative(c.MaxDistance) {
		return invalid("max_distance", "must be non-negative, got %v", c.MaxDistance)
	}
	if !nonNegative(c.MinSeparation) {
		return invalid("min_separation", "must be non-negative, got %v", c.MinSeparation)
	}
	if math.IsNaN(c.Friction) || c.Friction < 0 || c.Friction >= 1 {
		return invalid("friction", "must be in [0, 1), got %v", c.Friction)
	}
	if c.RoundRobin < 0 {
		return invalid("round_robin", "must be non-negative, got %d", c.RoundRobin)
	}
	if !nonNegative(c.InitialSpeed) {
		return invalid("initial_speed", "must be non-negative, got %v", c.InitialSpeed)
	}
	if !positive(c.TickRate) {
		return invalid("tick_rate", "must be positive, got %v", c.TickRate)
	}
	if c.Workers < 0 {
		return invalid("workers", "must be non-negative, got %d", c.Workers)
	}
	if _, err := NewBoundary(c.Boundary, c.Bounds, c.ParticleSize); err != nil {
		return err
	}
	if _, err := ParseSignMode(string(c.SignMode)); err != nil {
		return err
	}
	if _, err := ParseOffsetMode(string(c.Offsets)); err != nil {
		return err
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
