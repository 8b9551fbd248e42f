package sim

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/plife/internal/life"
)

// Ensemble runs independently seeded worlds of one configuration
// concurrently, one world per goroutine.
type Ensemble struct {
	cfg        life.Config
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
	workers    int
	log        *log.Logger
}

func NewEnsemble(cfg life.Config, newMetrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	// parallelism comes from running worlds side by side
	cfg.Workers = 1
	return &Ensemble{
		cfg:        cfg,
		newMetrics: newMetrics,
		numRuns:    numRuns,
		seedStart:  seedStart,
		log:        log.New(io.Discard),
	}
}

// SetWorkers bounds the number of worlds in flight; zero means unbounded.
func (e *Ensemble) SetWorkers(n int)        { e.workers = n }
func (e *Ensemble) SetLogger(l *log.Logger) { e.log = l }

// Run returns one result per seed, ordered by seed. The first failing run
// cancels the others.
func (e *Ensemble) Run(ctx context.Context, rc Config) ([]*Result, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	for i := 0; i < e.numRuns; i++ {
		seed := e.seedStart + int64(i)
		g.Go(func() error {
			w, err := life.New(e.cfg, seed)
			if err != nil {
				return err
			}
			r := New(w)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					r.AddMetric(m)
				}
			}
			res, err := r.Run(ctx, rc)
			if err != nil {
				return err
			}
			results[i] = res
			e.log.Debug("ensemble member done", "seed", seed, "steps", res.StepsTaken)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary is the spread of one metric across an ensemble.
type Summary struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Summarize(results []*Result, name string) Summary {
	vals := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Metrics[name]; ok {
			vals = append(vals, v)
		}
	}
	s := Summary{Name: name}
	if len(vals) == 0 {
		return s
	}
	if len(vals) == 1 {
		s.Mean = vals[0]
	} else {
		s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	}
	s.Min, s.Max = vals[0], vals[0]
	for _, v := range vals[1:] {
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
	}
	return s
}
