package life

import (
	"time"

	"github.com/san-kum/plife/internal/compute"
	"golang.org/x/exp/rand"
)

// World is the simulation state: groups, relation table and tick counter.
type World struct {
	cfg       Config
	store     *Store
	relations Relations
	boundary  Boundary
	backend   compute.Backend
	rng       *rand.Rand
	tick      uint64
}

// New validates cfg, seeds every group and draws an initial relation table.
func New(cfg Config, seed int64) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.SignMode, _ = ParseSignMode(string(cfg.SignMode))
	cfg.Offsets, _ = ParseOffsetMode(string(cfg.Offsets))
	if cfg.Boundary == "" {
		cfg.Boundary = BoundaryWrap
	}

	boundary, err := NewBoundary(cfg.Boundary, cfg.Bounds, cfg.ParticleSize)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(uint64(seed)))
	w := &World{
		cfg:      cfg,
		boundary: boundary,
		backend:  compute.NewCPUBackend(cfg.Workers),
		rng:      rng,
		tick:     cfg.InitialTick,
	}
	w.store = SeedStore(cfg.Groups, cfg.Density, cfg.Bounds, cfg.InitialSpeed, rng)
	w.relations = GenerateRelations(len(cfg.Groups), cfg.MaxGravity, cfg.MaxDistance, rng)
	return w, nil
}

// NewWithRelations is New followed by SetRelations.
func NewWithRelations(cfg Config, seed int64, rel Relations) (*World, error) {
	w, err := New(cfg, seed)
	if err != nil {
		return nil, err
	}
	if err := w.SetRelations(rel); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) Config() Config           { return w.cfg }
func (w *World) Store() *Store            { return w.store }
func (w *World) Tick() uint64             { return w.tick }
func (w *World) Boundary() Boundary       { return w.boundary }
func (w *World) Backend() compute.Backend { return w.backend }
func (w *World) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / w.cfg.TickRate)
}

// SetBackend replaces the execution backend. Results do not depend on it.
func (w *World) SetBackend(b compute.Backend) {
	w.backend = b
}

func (w *World) Relations() Relations {
	return w.relations.Clone()
}

func (w *World) SetRelations(rel Relations) error {
	if err := rel.Validate(w.store.GroupCount()); err != nil {
		return err
	}
	w.relations = rel.Clone()
	return nil
}

func (w *World) forceParams() ForceParams {
	return ForceParams{
		MinSeparation: w.cfg.MinSeparation,
		RoundRobin:    w.cfg.RoundRobin,
		Tick:          w.tick,
		SignMode:      w.cfg.SignMode,
		Offsets:       w.cfg.Offsets,
	}
}

// Step advances the world by one tick: every ordered group pair in row-major
// order contributes to source velocities, then each particle is slowed by
// friction, moved by its velocity and constrained by the boundary.
func (w *World) Step() {
	n := w.store.GroupCount()
	params := w.forceParams()

	// Worker i writes only group i velocities; positions are read-only here.
	w.backend.ForEach(n, func(i int) {
		src := w.store.slice(i)
		for j := 0; j < n; j++ {
			Accumulate(src, w.store.slice(j), w.relations[i*n+j], params)
		}
	})

	keep := 1 - w.cfg.Friction
	w.backend.ForEach(n, func(g int) {
		integrate(w.store.slice(g), keep, w.boundary)
	})

	w.tick++
}

func integrate(ps []Particle, keep float64, b Boundary) {
	for k := range ps {
		p := &ps[k]
		p.Vel.X *= keep
		p.Vel.Y *= keep
		p.Pos.X += p.Vel.X
		p.Pos.Y += p.Vel.Y
		p.Pos = b.Constrain(p.Pos)
	}
}

// Reshuffle redraws every position and the whole relation table. Group
// structure and velocities are left untouched.
func (w *World) Reshuffle() {
	w.store.Scatter(w.cfg.Bounds, w.rng)
	w.relations = GenerateRelations(w.store.GroupCount(), w.cfg.MaxGravity, w.cfg.MaxDistance, w.rng)
}

// Snapshot returns a deep copy of every particle's drawable state.
func (w *World) Snapshot() Snapshot {
	return w.SnapshotInto(Snapshot{})
}

// SnapshotInto reuses dst's sprite buffer when it is large enough.
func (w *World) SnapshotInto(dst Snapshot) Snapshot {
	sprites := dst.Sprites[:0]
	if cap(sprites) < w.store.Len() {
		sprites = make([]Sprite, 0, w.store.Len())
	}
	for g := range w.store.groups {
		grp := &w.store.groups[g]
		for _, p := range grp.Particles {
			sprites = append(sprites, Sprite{Pos: p.Pos, Vel: p.Vel, Color: grp.Color, Group: g, ID: p.ID})
		}
	}
	return Snapshot{
		Tick:    w.tick,
		Bounds:  w.cfg.Bounds,
		Groups:  w.store.Specs(),
		Sprites: sprites,
	}
}
