package life

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

type RelationEntry struct {
	Sign        int8    `yaml:"sign" json:"sign"`
	Gravity     float64 `yaml:"gravity" json:"gravity"`
	MaxDistance float64 `yaml:"max_distance" json:"max_distance"`
}

// Relations is a row-major n×n table; entry (i, j) governs the force exerted
// on group i particles by group j particles.
type Relations []RelationEntry

// GenerateRelations draws every entry independently: a uniform int8 sign, a
// gravity coefficient in [-maxGravity/2, maxGravity/2) and an effect radius
// in [0, maxDistance).
func GenerateRelations(n int, maxGravity, maxDistance float64, rng *rand.Rand) Relations {
	rel := make(Relations, n*n)
	for i := range rel {
		rel[i] = RelationEntry{
			Sign:        int8(rng.Intn(256) - 128),
			Gravity:     (rng.Float64() - 0.5) * maxGravity,
			MaxDistance: rng.Float64() * maxDistance,
		}
	}
	return rel
}

// Uniform builds an n×n table with the same entry everywhere.
func Uniform(n int, e RelationEntry) Relations {
	rel := make(Relations, n*n)
	for i := range rel {
		rel[i] = e
	}
	return rel
}

func (r Relations) At(n, i, j int) RelationEntry {
	return r[i*n+j]
}

func (r Relations) Set(n, i, j int, e RelationEntry) {
	r[i*n+j] = e
}

func (r Relations) Clone() Relations {
	c := make(Relations, len(r))
	copy(c, r)
	return c
}

// GroupCount infers n from a square table, or -1 when len(r) is not a square.
func (r Relations) GroupCount() int {
	n := int(math.Round(math.Sqrt(float64(len(r)))))
	if n*n != len(r) {
		return -1
	}
	return n
}

func (r Relations) Validate(n int) error {
	if len(r) != n*n {
		return &ConfigError{
			Field:   "relations",
			Reason:  fmt.Sprintf("has %d entries, want %d", len(r), n*n),
			Wrapped: ErrRelationSize,
		}
	}
	for i, e := range r {
		if math.IsNaN(e.Gravity) || math.IsInf(e.Gravity, 0) {
			return invalid("relations", "entry %d has non-finite gravity", i)
		}
		if math.IsNaN(e.MaxDistance) || math.IsInf(e.MaxDistance, 0) || e.MaxDistance < 0 {
			return invalid("relations", "entry %d has invalid max distance %v", i, e.MaxDistance)
		}
	}
	return nil
}
