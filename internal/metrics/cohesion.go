package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/plife/internal/life"
)

// Cohesion is the mean distance of a particle to its own group's centroid.
// Centroids are plain averages, so clusters straddling a wrapped edge read
// as spread out.
type Cohesion struct{ mean }

func NewCohesion() *Cohesion {
	return &Cohesion{mean{name: "cohesion"}}
}

func (c *Cohesion) Observe(s *life.Snapshot) float64 {
	n := len(s.Groups)
	if n == 0 || s.Len() == 0 {
		return c.add(0)
	}

	centroids := make([]r2.Vec, n)
	counts := make([]int, n)
	for sp := range s.All() {
		centroids[sp.Group] = r2.Add(centroids[sp.Group], sp.Pos)
		counts[sp.Group]++
	}
	for g := range centroids {
		if counts[g] > 0 {
			centroids[g] = r2.Scale(1/float64(counts[g]), centroids[g])
		}
	}

	var total float64
	for sp := range s.All() {
		total += r2.Norm(r2.Sub(sp.Pos, centroids[sp.Group]))
	}
	return c.add(total / float64(s.Len()))
}

// Containment is the fraction of particles inside the world bounds. Only
// the mirror boundary can let it drop below one.
type Containment struct{ mean }

func NewContainment() *Containment {
	return &Containment{mean{name: "containment"}}
}

func (c *Containment) Observe(s *life.Snapshot) float64 {
	if s.Len() == 0 {
		return c.add(1)
	}
	inside := 0
	for sp := range s.All() {
		if s.Bounds.Contains(sp.Pos) {
			inside++
		}
	}
	return c.add(float64(inside) / float64(s.Len()))
}
