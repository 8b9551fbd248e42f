package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/plife/internal/life"
)

// Metric reduces snapshots to a scalar. Observe returns the sample for this
// snapshot; Value returns the aggregate over every sample since Reset.
type Metric interface {
	Name() string
	Observe(s *life.Snapshot) float64
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s *life.Snapshot)
}

type ObserverFunc func(s *life.Snapshot)

func (f ObserverFunc) OnTick(s *life.Snapshot) { f(s) }

type Config struct {
	Ticks int
	// SampleEvery is the metric sampling period in ticks. Zero samples only
	// the initial and final state.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{Ticks: 600, SampleEvery: 10}
}

func (c Config) Validate() error {
	if c.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	if c.SampleEvery < 0 {
		return fmt.Errorf("sample_every must be non-negative, got %d", c.SampleEvery)
	}
	return nil
}

type Result struct {
	// Ticks holds the world tick of every sample, aligned with Series.
	Ticks      []uint64
	Series     map[string][]float64
	Metrics    map[string]float64
	StepsTaken int
	Elapsed    time.Duration
	Final      life.Snapshot
}

// TicksPerSecond is the achieved simulation throughput.
func (r *Result) TicksPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.StepsTaken) / r.Elapsed.Seconds()
}
