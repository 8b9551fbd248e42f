// Package metrics reduces world snapshots to scalar observables.
package metrics

// mean accumulates per-snapshot samples; Value reports their average.
type mean struct {
	name    string
	sum     float64
	samples int
}

func (m *mean) Name() string { return m.name }

func (m *mean) add(v float64) float64 {
	m.sum += v
	m.samples++
	return v
}

func (m *mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mean) Reset() {
	m.sum = 0
	m.samples = 0
}
