package experiment

import (
	"fmt"
	"slices"

	"github.com/san-kum/plife/internal/metrics"
	"github.com/san-kum/plife/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["kinetic"] = func() sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["speed"] = func() sim.Metric { return metrics.NewMeanSpeed() }
	r.metrics["cohesion"] = func() sim.Metric { return metrics.NewCohesion() }
	r.metrics["containment"] = func() sim.Metric { return metrics.NewContainment() }

	return r
}

// Register adds or replaces a metric factory.
func (r *Registry) Register(name string, fn func() sim.Metric) {
	r.metrics[name] = fn
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// GetMetrics builds fresh instances for every name, in order.
func (r *Registry) GetMetrics(names []string) ([]sim.Metric, error) {
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewMeanSpeed(),
		metrics.NewCohesion(),
	}
}
