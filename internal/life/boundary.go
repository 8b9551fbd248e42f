package life

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

type BoundaryKind string

const (
	// BoundaryWrap maps coordinates onto [0, upper) modulo the world size.
	BoundaryWrap BoundaryKind = "wrap"
	// BoundaryClamp snaps escaped coordinates just inside the edge.
	BoundaryClamp BoundaryKind = "clamp"
	// BoundaryMirror is the legacy reflection: it is not a true wrap and a
	// coordinate far outside the world may stay outside after one pass.
	BoundaryMirror BoundaryKind = "mirror"
)

func BoundaryKinds() []BoundaryKind {
	return []BoundaryKind{BoundaryWrap, BoundaryClamp, BoundaryMirror}
}

// Boundary constrains a freshly integrated position, independently per axis.
type Boundary interface {
	Kind() BoundaryKind
	Constrain(p r2.Vec) r2.Vec
}

func NewBoundary(kind BoundaryKind, bounds Bounds, particleSize float64) (Boundary, error) {
	switch kind {
	case BoundaryWrap, "":
		return Wrap{Bounds: bounds}, nil
	case BoundaryClamp:
		return Clamp{Bounds: bounds}, nil
	case BoundaryMirror:
		return Mirror{Bounds: bounds, Size: particleSize}, nil
	default:
		return nil, invalid("boundary", "unknown kind %q", kind)
	}
}

type Wrap struct {
	Bounds Bounds
}

func (Wrap) Kind() BoundaryKind { return BoundaryWrap }

func (w Wrap) Constrain(p r2.Vec) r2.Vec {
	return r2.Vec{X: wrapAxis(p.X, w.Bounds.Width), Y: wrapAxis(p.Y, w.Bounds.Height)}
}

func wrapAxis(c, upper float64) float64 {
	if c >= 0 && c < upper {
		return c
	}
	c = math.Mod(c, upper)
	if c < 0 {
		c += upper
	}
	// -tiny + upper rounds to upper
	if c >= upper {
		c = 0
	}
	return c
}

type Clamp struct {
	Bounds Bounds
}

func (Clamp) Kind() BoundaryKind { return BoundaryClamp }

func (c Clamp) Constrain(p r2.Vec) r2.Vec {
	return r2.Vec{X: clampAxis(p.X, c.Bounds.Width), Y: clampAxis(p.Y, c.Bounds.Height)}
}

func clampAxis(c, upper float64) float64 {
	if c > upper {
		return max(upper-1, 0)
	}
	if c < 0 {
		return min(1, upper)
	}
	return c
}

type Mirror struct {
	Bounds Bounds
	Size   float64
}

func (Mirror) Kind() BoundaryKind { return BoundaryMirror }

func (m Mirror) Constrain(p r2.Vec) r2.Vec {
	return r2.Vec{X: mirrorAxis(p.X, m.Bounds.Width, m.Size), Y: mirrorAxis(p.Y, m.Bounds.Height, m.Size)}
}

func mirrorAxis(c, upper, size float64) float64 {
	if c > upper {
		return (c - upper) + size
	}
	if c < size {
		return upper - c
	}
	return c
}
