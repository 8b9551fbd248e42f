package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/plife/internal/config"
	"github.com/san-kum/plife/internal/life"
	"github.com/san-kum/plife/internal/sim"
	"github.com/san-kum/plife/internal/storage"
)

// Experiment is one configured world plus the runner that drives it.
type Experiment struct {
	cfg    *config.Config
	world  *life.World
	runner *sim.Runner
	log    *log.Logger
}

// New builds the world described by cfg. A relations_file, when set,
// replaces the randomly drawn relation table.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lc, err := cfg.LifeConfig()
	if err != nil {
		return nil, err
	}

	w, err := life.New(lc, cfg.Seed)
	if err != nil {
		return nil, err
	}

	if cfg.RelationsFile != "" {
		rf, err := storage.LoadRelations(cfg.RelationsFile)
		if err != nil {
			return nil, fmt.Errorf("relations file: %w", err)
		}
		rel, err := rf.Table()
		if err != nil {
			return nil, fmt.Errorf("relations file %s: %w", cfg.RelationsFile, err)
		}
		if err := w.SetRelations(rel); err != nil {
			return nil, fmt.Errorf("relations file %s: %w", cfg.RelationsFile, err)
		}
	}

	return &Experiment{
		cfg:    cfg,
		world:  w,
		runner: sim.New(w),
		log:    log.New(io.Discard),
	}, nil
}

func (e *Experiment) Setup(metrics []sim.Metric) {
	for _, m := range metrics {
		e.runner.AddMetric(m)
	}
}

func (e *Experiment) SetLogger(l *log.Logger) {
	e.log = l
	e.runner.SetLogger(l)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	e.log.Debug("experiment", "seed", e.cfg.Seed, "groups", len(e.cfg.Groups),
		"density", e.cfg.Density, "boundary", e.world.Boundary().Kind())

	return e.runner.Run(ctx, sim.Config{
		Ticks:       e.cfg.Ticks,
		SampleEvery: e.cfg.Runtime.SampleEvery,
	})
}

func (e *Experiment) World() *life.World     { return e.world }
func (e *Experiment) Runner() *sim.Runner    { return e.runner }
func (e *Experiment) Config() *config.Config { return e.cfg }
