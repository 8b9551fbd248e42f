package life

import (
	"image/color"
	"iter"

	"gonum.org/v1/gonum/spatial/r2"
)

type Particle struct {
	Pos   r2.Vec
	Vel   r2.Vec
	Group int
	// ID is the particle's dense global index, assigned once at seeding.
	ID int
}

type Group struct {
	Name      string
	Color     color.RGBA
	Particles []Particle
}

// GroupSpec describes a group before any particle exists.
type GroupSpec struct {
	Name  string
	Color color.RGBA
}

type Bounds struct {
	Width, Height float64
}

func (b Bounds) Contains(p r2.Vec) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Sprite is the read-only view of one particle handed to presenters.
type Sprite struct {
	Pos   r2.Vec
	Vel   r2.Vec
	Color color.RGBA
	Group int
	ID    int
}

type Snapshot struct {
	Tick    uint64
	Bounds  Bounds
	Groups  []GroupSpec
	Sprites []Sprite
}

// All yields the sprites in group order, then particle order.
func (s Snapshot) All() iter.Seq[Sprite] {
	return func(yield func(Sprite) bool) {
		for _, sp := range s.Sprites {
			if !yield(sp) {
				return
			}
		}
	}
}

// Group yields the sprites of a single group.
func (s Snapshot) Group(g int) iter.Seq[Sprite] {
	return func(yield func(Sprite) bool) {
		for _, sp := range s.Sprites {
			if sp.Group != g {
				continue
			}
			if !yield(sp) {
				return
			}
		}
	}
}

func (s Snapshot) Len() int { return len(s.Sprites) }
