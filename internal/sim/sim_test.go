package sim

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/san-kum/plife/internal/life"
)

func testWorld(t *testing.T, seed int64) *life.World {
	t.Helper()
	w, err := life.New(life.Config{
		Groups: []life.GroupSpec{
			{Name: "a", Color: color.RGBA{R: 255, A: 255}},
			{Name: "b", Color: color.RGBA{B: 255, A: 255}},
		},
		Density:       20,
		Bounds:        life.Bounds{Width: 200, Height: 200},
		ParticleSize:  2,
		MaxGravity:    2,
		MaxDistance:   100,
		MinSeparation: 5,
		Friction:      0.5,
		RoundRobin:    2,
		InitialSpeed:  5,
		TickRate:      30,
		InitialTick:   1,
	}, seed)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

type countMetric struct {
	count int
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(s *life.Snapshot) float64 {
	c.count++
	return float64(s.Tick)
}
func (c *countMetric) Value() float64 { return float64(c.count) }
func (c *countMetric) Reset()         { c.count = 0 }

func TestRunnerRun(t *testing.T) {
	r := New(testWorld(t, 1))
	metric := &countMetric{}
	r.AddMetric(metric)

	result, err := r.Run(context.Background(), Config{Ticks: 20, SampleEvery: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
	if r.World().Tick() != 21 {
		t.Errorf("expected world tick 21, got %d", r.World().Tick())
	}

	// initial sample plus one every five ticks
	want := []float64{1, 6, 11, 16, 21}
	got := result.Series["count"]
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected tick %v, got %v", i, want[i], got[i])
		}
		if result.Ticks[i] != uint64(want[i]) {
			t.Errorf("tick %d: expected %v, got %d", i, want[i], result.Ticks[i])
		}
	}

	if result.Metrics["count"] != 5 {
		t.Errorf("expected aggregate 5, got %f", result.Metrics["count"])
	}
	if result.Final.Tick != 21 || result.Final.Len() != 40 {
		t.Errorf("unexpected final snapshot tick=%d len=%d", result.Final.Tick, result.Final.Len())
	}
}

func TestRunnerSamplesFinalTick(t *testing.T) {
	r := New(testWorld(t, 1))
	r.AddMetric(&countMetric{})

	result, err := r.Run(context.Background(), Config{Ticks: 7, SampleEvery: 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Ticks) != 2 || result.Ticks[1] != 8 {
		t.Errorf("expected initial and final samples, got %v", result.Ticks)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	r := New(testWorld(t, 1))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero ticks", Config{Ticks: 0}},
		{"negative ticks", Config{Ticks: -3}},
		{"negative sampling", Config{Ticks: 10, SampleEvery: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunnerCancel(t *testing.T) {
	r := New(testWorld(t, 1))
	ctx, cancel := context.WithCancel(context.Background())

	steps := 0
	r.AddObserver(ObserverFunc(func(*life.Snapshot) {
		steps++
		if steps == 3 {
			cancel()
		}
	}))

	result, err := r.Run(ctx, Config{Ticks: 100, SampleEvery: 10})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 3 {
		t.Errorf("expected partial result with 3 steps, got %+v", result)
	}
}

func TestPacerAdvance(t *testing.T) {
	p := NewPacer(10)

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{50 * time.Millisecond, 0},
		{50 * time.Millisecond, 1},
		{250 * time.Millisecond, 2},
		{50 * time.Millisecond, 1},
		{0, 0},
	}

	for i, tt := range tests {
		if got := p.Advance(tt.elapsed); got != tt.want {
			t.Errorf("step %d: Advance(%v) = %d, want %d", i, tt.elapsed, got, tt.want)
		}
	}
	if p.Pending() != 0 {
		t.Errorf("expected empty accumulator, got %v", p.Pending())
	}
}

func TestPacerCatchUpCap(t *testing.T) {
	p := NewPacer(100)
	p.MaxCatchUp = 4

	if got := p.Advance(time.Second); got != 4 {
		t.Errorf("expected capped 4 ticks, got %d", got)
	}
	if got := p.Advance(0); got != 0 {
		t.Errorf("backlog should be dropped, got %d", got)
	}
}

func TestRunRealtime(t *testing.T) {
	w := testWorld(t, 2)
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	frames := 0
	err := RunRealtime(ctx, w, NewPacer(200), func(s *life.Snapshot) {
		frames++
		if s.Len() != 40 {
			t.Errorf("frame has %d sprites", s.Len())
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if frames == 0 || w.Tick() == 1 {
		t.Errorf("expected the world to advance, frames=%d tick=%d", frames, w.Tick())
	}
}

func TestEnsemble(t *testing.T) {
	cfg := testWorld(t, 0).Config()
	e := NewEnsemble(cfg, func() []Metric { return []Metric{&countMetric{}} }, 4, 10)
	e.SetWorkers(2)

	results, err := e.Run(context.Background(), Config{Ticks: 10, SampleEvery: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 10 {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
	}

	// same seed reproduces the same final state
	w := testWorld(t, 11)
	if _, err := New(w).Run(context.Background(), Config{Ticks: 10}); err != nil {
		t.Fatal(err)
	}
	if w.Snapshot().Sprites[0].Pos != results[1].Final.Sprites[0].Pos {
		t.Error("ensemble member diverged from a standalone run with the same seed")
	}

	s := Summarize(results, "count")
	if s.Mean != 3 || s.StdDev != 0 || s.Min != 3 || s.Max != 3 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestEnsembleInvalidWorld(t *testing.T) {
	cfg := testWorld(t, 0).Config()
	cfg.Density = 0
	_, err := NewEnsemble(cfg, nil, 2, 1).Run(context.Background(), Config{Ticks: 1})
	if !errors.Is(err, life.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
