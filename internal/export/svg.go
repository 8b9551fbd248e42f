package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/plife/internal/life"
)

func hex(c color.RGBA) string {
	col, _ := colorful.MakeColor(c)
	return col.Hex()
}

// SnapshotToSVG draws every particle as a particleSize square in its group
// colour, centred on its position, with world coordinates scaled by scale.
func SnapshotToSVG(s *life.Snapshot, scale, particleSize float64) string {
	if s == nil {
		return ""
	}
	if scale <= 0 {
		scale = 1
	}

	width := s.Bounds.Width * scale
	height := s.Bounds.Height * scale
	side := particleSize * scale
	if side < 1 {
		side = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#000000"/>
`, width, height, width, height)

	for g, spec := range s.Groups {
		fmt.Fprintf(&sb, "<g id=%q fill=%q>\n", spec.Name, hex(spec.Color))
		for sp := range s.Group(g) {
			x := sp.Pos.X*scale - side/2
			y := sp.Pos.Y*scale - side/2
			fmt.Fprintf(&sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\"/>\n", x, y, side, side)
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws a metric series as a polyline scaled to fill the image.
func SeriesToSVG(ticks []uint64, values []float64, width, height int, strokeColor string) string {
	n := min(len(ticks), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := float64(ticks[0]), float64(ticks[n-1])
	minY, maxY := values[0], values[0]
	for _, v := range values[:n] {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := 0; i < n; i++ {
		x := (float64(ticks[i]) - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
