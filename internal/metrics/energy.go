package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/plife/internal/life"
)

// KineticEnergy is the mean of ½|v|² over all particles, unit mass.
type KineticEnergy struct{ mean }

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{mean{name: "kinetic"}}
}

func (k *KineticEnergy) Observe(s *life.Snapshot) float64 {
	if s.Len() == 0 {
		return k.add(0)
	}
	var total float64
	for sp := range s.All() {
		total += 0.5 * r2.Dot(sp.Vel, sp.Vel)
	}
	return k.add(total / float64(s.Len()))
}

type MeanSpeed struct{ mean }

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{mean{name: "speed"}}
}

func (m *MeanSpeed) Observe(s *life.Snapshot) float64 {
	if s.Len() == 0 {
		return m.add(0)
	}
	var total float64
	for sp := range s.All() {
		total += r2.Norm(sp.Vel)
	}
	return m.add(total / float64(s.Len()))
}
