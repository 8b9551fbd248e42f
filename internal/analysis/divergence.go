package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/plife/internal/compute"
	"github.com/san-kum/plife/internal/life"
)

// Divergence runs two identically seeded worlds, nudges one particle of the
// second by eps along x, and returns the RMS particle separation after each
// tick. Separations are measured along the shortest path when the world
// wraps. The twins step side by side.
func Divergence(cfg life.Config, rel life.Relations, seed int64, eps float64, ticks int) ([]float64, error) {
	a, err := life.NewWithRelations(cfg, seed, rel)
	if err != nil {
		return nil, err
	}
	b, err := life.NewWithRelations(cfg, seed, rel)
	if err != nil {
		return nil, err
	}

	p := b.Store().At(0, 0)
	p.Pos = b.Boundary().Constrain(r2.Add(p.Pos, r2.Vec{X: eps}))

	wrap := a.Boundary().Kind() == life.BoundaryWrap
	bounds := cfg.Bounds

	backend := compute.Auto()
	twins := [2]*life.World{a, b}

	out := make([]float64, 0, ticks)
	var sa, sb life.Snapshot
	var sq []float64
	for range ticks {
		backend.ForEach(len(twins), func(i int) { twins[i].Step() })
		sa = a.SnapshotInto(sa)
		sb = b.SnapshotInto(sb)

		if cap(sq) < len(sa.Sprites) {
			sq = make([]float64, len(sa.Sprites))
		}
		sq = sq[:len(sa.Sprites)]
		compute.ParallelFor(len(sq), 256, backend.Workers(), func(start, end int) {
			for i := start; i < end; i++ {
				d := r2.Sub(sa.Sprites[i].Pos, sb.Sprites[i].Pos)
				if wrap {
					d = r2.Vec{X: minImage(d.X, bounds.Width), Y: minImage(d.Y, bounds.Height)}
				}
				sq[i] = r2.Dot(d, d)
			}
		})

		// summed in index order so the result does not depend on the worker count
		var sum float64
		for _, v := range sq {
			sum += v
		}
		out = append(out, math.Sqrt(sum/float64(len(sq))))
	}
	return out, nil
}

func minImage(d, size float64) float64 {
	if d > size/2 {
		return d - size
	}
	if d < -size/2 {
		return d + size
	}
	return d
}

// LyapunovEstimate averages ln(sep(t)/eps)/t over the ticks where the two
// worlds differ. Separation saturates at the world size, so long runs
// underestimate the rate.
func LyapunovEstimate(sep []float64, eps float64) float64 {
	if eps <= 0 {
		return 0
	}
	sumRate := 0.0
	count := 0
	for i, s := range sep {
		if s <= 0 {
			continue
		}
		sumRate += math.Log(s/eps) / float64(i+1)
		count++
	}
	if count == 0 {
		return 0
	}
	return sumRate / float64(count)
}
