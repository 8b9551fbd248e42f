// Package optim searches config parameter grids for the best metric value.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/plife/internal/config"
	"github.com/san-kum/plife/internal/experiment"
	"github.com/san-kum/plife/internal/sim"
)

var ErrEmptyGrid = errors.New("optim: empty grid")

// Goal selects whether the metric is minimised or maximised.
type Goal int

const (
	Minimize Goal = iota
	Maximize
)

func (g Goal) better(a, b float64) bool {
	if g == Maximize {
		return a > b
	}
	return a < b
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	goal       Goal
}

// NewGridSearch pairs each parameter name with the values to try.
func NewGridSearch(params []string, ranges [][]float64, goal Goal) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, goal: goal}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Search runs base with every combination of grid values applied through
// config.SetParam and returns the best point plus every trial in grid order.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string) (Trial, []Trial, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, ErrEmptyGrid
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return Trial{}, nil, fmt.Errorf("%w: no values for %s", ErrEmptyGrid, g.paramNames[i])
		}
	}
	if _, err := registry.GetMetric(metricName); err != nil {
		return Trial{}, nil, err
	}

	best := Trial{Value: math.Inf(1)}
	if g.goal == Maximize {
		best.Value = math.Inf(-1)
	}
	var trials []Trial

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		val, err := evaluate(ctx, base, params, registry, metricName)
		if err != nil {
			return err
		}
		t := Trial{Params: maps.Clone(params), Value: val}
		trials = append(trials, t)
		if best.Params == nil || g.goal.better(val, best.Value) {
			best = t
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	delete(current, paramName)
	return nil
}

func evaluate(ctx context.Context, base *config.Config, params map[string]float64, registry *experiment.Registry, metricName string) (float64, error) {
	cfg := base.Clone()
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return 0, err
		}
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return 0, fmt.Errorf("grid point %v: %w", params, err)
	}
	metric, err := registry.GetMetric(metricName)
	if err != nil {
		return 0, err
	}
	exp.Setup([]sim.Metric{metric})

	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	return result.Metrics[metricName], nil
}
