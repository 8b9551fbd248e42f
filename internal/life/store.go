package life

import (
	"iter"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r2"
)

// Store owns every particle, grouped by category. Group membership is fixed
// for the store's lifetime; only positions and velocities change.
type Store struct {
	groups []Group
	size   int
}

// SeedStore creates density particles per group with positions uniform over
// bounds and velocity components uniform in [-speed, speed).
func SeedStore(specs []GroupSpec, density int, bounds Bounds, speed float64, rng *rand.Rand) *Store {
	s := &Store{groups: make([]Group, len(specs))}
	id := 0
	for g, spec := range specs {
		particles := make([]Particle, density)
		for i := range particles {
			pos := r2.Vec{
				X: rng.Float64() * bounds.Width,
				Y: rng.Float64() * bounds.Height,
			}
			vel := r2.Vec{
				X: (rng.Float64()*2 - 1) * speed,
				Y: (rng.Float64()*2 - 1) * speed,
			}
			particles[i] = Particle{Pos: pos, Vel: vel, Group: g, ID: id}
			id++
		}
		s.groups[g] = Group{Name: spec.Name, Color: spec.Color, Particles: particles}
	}
	s.size = id
	return s
}

func (s *Store) GroupCount() int { return len(s.groups) }

func (s *Store) SizeOf(g int) int { return len(s.groups[g].Particles) }

// Len returns the total number of particles.
func (s *Store) Len() int { return s.size }

func (s *Store) Spec(g int) GroupSpec {
	return GroupSpec{Name: s.groups[g].Name, Color: s.groups[g].Color}
}

func (s *Store) Specs() []GroupSpec {
	specs := make([]GroupSpec, len(s.groups))
	for g := range s.groups {
		specs[g] = s.Spec(g)
	}
	return specs
}

// Particles yields copies of the particles of group g with their index.
func (s *Store) Particles(g int) iter.Seq2[int, Particle] {
	return func(yield func(int, Particle) bool) {
		for i, p := range s.groups[g].Particles {
			if !yield(i, p) {
				return
			}
		}
	}
}

// At returns a mutable reference to particle i of group g.
func (s *Store) At(g, i int) *Particle {
	return &s.groups[g].Particles[i]
}

// Scatter redraws every position uniformly over bounds. Velocities are kept.
func (s *Store) Scatter(bounds Bounds, rng *rand.Rand) {
	for g := range s.groups {
		ps := s.groups[g].Particles
		for i := range ps {
			ps[i].Pos = r2.Vec{
				X: rng.Float64() * bounds.Width,
				Y: rng.Float64() * bounds.Height,
			}
		}
	}
}

func (s *Store) slice(g int) []Particle {
	return s.groups[g].Particles
}
