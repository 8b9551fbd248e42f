package export

import (
	"image/color"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/plife/internal/life"
)

func TestSnapshotToSVG(t *testing.T) {
	s := &life.Snapshot{
		Bounds: life.Bounds{Width: 100, Height: 50},
		Groups: []life.GroupSpec{
			{Name: "green", Color: color.RGBA{G: 255, A: 255}},
			{Name: "red", Color: color.RGBA{R: 255, A: 255}},
		},
		Sprites: []life.Sprite{
			{Pos: r2.Vec{X: 10, Y: 10}, Group: 0},
			{Pos: r2.Vec{X: 20, Y: 30}, Group: 1},
			{Pos: r2.Vec{X: 40, Y: 40}, Group: 1},
		},
	}

	svg := SnapshotToSVG(s, 2, 4)

	if !strings.Contains(svg, `width="200" height="100"`) {
		t.Error("image not scaled to the world")
	}
	if !strings.Contains(svg, `fill="#00ff00"`) || !strings.Contains(svg, `fill="#ff0000"`) {
		t.Error("group colours missing")
	}
	if n := strings.Count(svg, `width="8.0"`); n != 3 {
		t.Errorf("expected 3 particle squares, got %d", n)
	}
	// (10,10) scaled by 2 minus half the 8px side
	if !strings.Contains(svg, `<rect x="16.0" y="16.0"`) {
		t.Error("particle not centred on its position")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}
}

func TestSnapshotToSVGNil(t *testing.T) {
	if SnapshotToSVG(nil, 1, 1) != "" {
		t.Error("expected empty output for nil snapshot")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]uint64{1, 11, 21}, []float64{3, 1, 2}, 300, 100, "#39ff14")
	if !strings.Contains(svg, `stroke="#39ff14"`) {
		t.Error("stroke colour missing")
	}
	if strings.Count(svg, " L") != 2 {
		t.Error("expected two line segments")
	}
	if SeriesToSVG([]uint64{1}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
}
