package life

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// SignMode selects how RelationEntry.Sign takes part in the force law.
type SignMode string

const (
	// SignNone ignores the sign entirely.
	SignNone SignMode = "none"
	// SignDistance multiplies the effect radius by the raw sign; a negative
	// product disables the pair.
	SignDistance SignMode = "distance"
	// SignStrength scales the gravity coefficient by sign/128.
	SignStrength SignMode = "strength"
)

// OffsetMode selects the direction of the per-pair offset vector.
type OffsetMode string

const (
	// OffsetAttract uses target-source, so positive gravity pulls together.
	OffsetAttract OffsetMode = "attract"
	// OffsetLegacy uses source-target, so positive gravity pushes apart.
	OffsetLegacy OffsetMode = "legacy"
)

func ParseSignMode(s string) (SignMode, error) {
	switch m := SignMode(s); m {
	case SignNone, SignDistance, SignStrength:
		return m, nil
	case "":
		return SignNone, nil
	}
	return "", invalid("sign_mode", "unknown mode %q", s)
}

func ParseOffsetMode(s string) (OffsetMode, error) {
	switch m := OffsetMode(s); m {
	case OffsetAttract, OffsetLegacy:
		return m, nil
	case "":
		return OffsetAttract, nil
	}
	return "", invalid("offsets", "unknown mode %q", s)
}

type ForceParams struct {
	MinSeparation float64
	// RoundRobin is the skip period R. 0 or 1 disables skipping; R=1 does
	// not skip every particle even though k%1 == tick%1 always holds.
	RoundRobin int
	Tick       uint64
	SignMode   SignMode
	Offsets    OffsetMode
}

// Skipped reports whether source particle k sits out this tick.
func (p ForceParams) Skipped(k int) bool {
	if p.RoundRobin < 2 {
		return false
	}
	r := uint64(p.RoundRobin)
	return uint64(k)%r == p.Tick%r
}

func (p ForceParams) String() string {
	return fmt.Sprintf("minsep=%g rr=%d tick=%d sign=%s offsets=%s",
		p.MinSeparation, p.RoundRobin, p.Tick, p.SignMode, p.Offsets)
}

// effective returns the gravity and radius after applying the sign mode.
func (p ForceParams) effective(e RelationEntry) (gravity, maxDistance float64) {
	gravity, maxDistance = e.Gravity, e.MaxDistance
	switch p.SignMode {
	case SignDistance:
		maxDistance *= float64(e.Sign)
	case SignStrength:
		gravity *= float64(e.Sign) / 128
	}
	return gravity, maxDistance
}

// Accumulate adds to every non-skipped src particle the summed pull of tgt
// under entry e. Only src velocities are written; tgt may alias src.
// A pair contributes gravity/d times the offset when MinSeparation < d < radius.
func Accumulate(src, tgt []Particle, e RelationEntry, p ForceParams) {
	gravity, maxDistance := p.effective(e)
	if gravity == 0 || maxDistance <= p.MinSeparation {
		return
	}
	legacy := p.Offsets == OffsetLegacy

	for k := range src {
		if p.Skipped(k) {
			continue
		}
		p1 := src[k].Pos

		var f r2.Vec
		for j := range tgt {
			var off r2.Vec
			if legacy {
				off = r2.Sub(p1, tgt[j].Pos)
			} else {
				off = r2.Sub(tgt[j].Pos, p1)
			}
			d := r2.Norm(off)
			if d <= p.MinSeparation || d >= maxDistance {
				continue
			}
			f = r2.Add(f, r2.Scale(gravity/d, off))
		}

		src[k].Vel = r2.Add(src[k].Vel, f)
	}
}
