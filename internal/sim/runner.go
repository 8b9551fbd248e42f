package sim

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/plife/internal/life"
)

// Runner drives a World for a fixed number of ticks.
type Runner struct {
	world     *life.World
	metrics   []Metric
	observers []Observer
	log       *log.Logger
}

func New(w *life.World) *Runner {
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log.New(io.Discard),
	}
}

func (r *Runner) AddMetric(m Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)  { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(l *log.Logger) { r.log = l }
func (r *Runner) World() *life.World      { return r.world }
func (r *Runner) Metrics() []Metric       { return r.metrics }

// Run steps the world cfg.Ticks times. Cancellation is checked between
// ticks; on cancel the partial result is returned alongside ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	samples := 2
	if cfg.SampleEvery > 0 {
		samples = cfg.Ticks/cfg.SampleEvery + 2
	}
	result := &Result{
		Ticks:   make([]uint64, 0, samples),
		Series:  make(map[string][]float64, len(r.metrics)),
		Metrics: make(map[string]float64, len(r.metrics)),
	}
	for _, m := range r.metrics {
		m.Reset()
		result.Series[m.Name()] = make([]float64, 0, samples)
	}

	r.log.Debug("run starting", "ticks", cfg.Ticks, "sample_every", cfg.SampleEvery,
		"particles", r.world.Store().Len(), "backend", r.world.Backend().Name())

	var snap life.Snapshot
	sample := func() {
		snap = r.world.SnapshotInto(snap)
		result.Ticks = append(result.Ticks, snap.Tick)
		for _, m := range r.metrics {
			result.Series[m.Name()] = append(result.Series[m.Name()], m.Observe(&snap))
		}
	}

	start := time.Now()
	sample()

	var err error
	lastSampled := 0
	for i := 1; i <= cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		r.world.Step()
		result.StepsTaken++

		if len(r.observers) > 0 {
			snap = r.world.SnapshotInto(snap)
			for _, obs := range r.observers {
				obs.OnTick(&snap)
			}
		}

		if cfg.SampleEvery > 0 && i%cfg.SampleEvery == 0 {
			sample()
			lastSampled = i
			r.log.Debug("sample", "tick", r.world.Tick())
		}
	}
	if lastSampled != result.StepsTaken {
		sample()
	}

	result.Elapsed = time.Since(start)
	result.Final = r.world.Snapshot()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if err != nil {
		r.log.Warn("run interrupted", "steps", result.StepsTaken, "err", err)
		return result, err
	}
	r.log.Info("run complete", "steps", result.StepsTaken, "elapsed", result.Elapsed,
		"tps", int(result.TicksPerSecond()))
	return result, nil
}
