package analysis

import (
	"strings"

	"github.com/san-kum/plife/internal/life"
)

var shades = []rune(" .:-=+*#%@")

// DensityASCII renders particle counts per character cell of the world,
// darker for denser. Scaling is relative to the densest cell.
func DensityASCII(s *life.Snapshot, width, height int) string {
	if width <= 0 || height <= 0 || s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		return ""
	}

	counts := make([]int, width*height)
	peak := 0
	for sp := range s.All() {
		col := int(sp.Pos.X / s.Bounds.Width * float64(width))
		row := int(sp.Pos.Y / s.Bounds.Height * float64(height))
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		counts[row*width+col]++
		peak = max(peak, counts[row*width+col])
	}

	var sb strings.Builder
	sb.Grow((width + 1) * height)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := counts[row*width+col]
			idx := 0
			if c > 0 {
				idx = 1 + (c-1)*(len(shades)-2)/max(peak-1, 1)
			}
			sb.WriteRune(shades[idx])
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}
