package sim

import (
	"context"
	"time"

	"github.com/san-kum/plife/internal/life"
)

// DefaultMaxCatchUp bounds how many ticks a single Advance may release.
const DefaultMaxCatchUp = 8

// Pacer converts wall-clock time into a whole number of fixed ticks,
// carrying the remainder forward so the tick rate does not depend on the
// frame rate.
type Pacer struct {
	Interval   time.Duration
	MaxCatchUp int
	acc        time.Duration
}

func NewPacer(tickRate float64) *Pacer {
	if tickRate <= 0 {
		tickRate = 30
	}
	return &Pacer{
		Interval:   time.Duration(float64(time.Second) / tickRate),
		MaxCatchUp: DefaultMaxCatchUp,
	}
}

// Advance adds elapsed to the accumulator and returns the ticks now due.
// Backlog beyond MaxCatchUp is dropped.
func (p *Pacer) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		p.acc += elapsed
	}
	n := int(p.acc / p.Interval)
	p.acc -= time.Duration(n) * p.Interval
	if p.MaxCatchUp > 0 && n > p.MaxCatchUp {
		n = p.MaxCatchUp
	}
	return n
}

// Pending is the time carried toward the next tick.
func (p *Pacer) Pending() time.Duration { return p.acc }

func (p *Pacer) Reset() { p.acc = 0 }

// RunRealtime steps w at the pacer's rate until ctx is done, calling frame
// with a fresh snapshot whenever at least one tick ran.
func RunRealtime(ctx context.Context, w *life.World, p *Pacer, frame func(*life.Snapshot)) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var snap life.Snapshot
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			n := p.Advance(now.Sub(last))
			last = now
			for range n {
				w.Step()
			}
			if n > 0 && frame != nil {
				snap = w.SnapshotInto(snap)
				frame(&snap)
			}
		}
	}
}
