package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/plife/internal/life"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. A cell lit by several groups takes the
// colour of the last one drawn.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Owner         [][]int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Owner:  make([][]int, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Owner[i] = make([]int, w)
	}
	c.Clear()
	return c
}

// Set lights sub-pixel (x, y) for group g. The canvas size in sub-pixels is
// (Width*2) x (Height*4).
func (c *Canvas) Set(x, y, g int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	c.Owner[row][col] = g
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Owner[i][j] = -1
		}
	}
}

// Plot redraws the canvas with every sprite of s, scaling the world onto
// the full sub-pixel grid.
func (c *Canvas) Plot(s *life.Snapshot) {
	c.Clear()
	if s.Bounds.Width <= 0 || s.Bounds.Height <= 0 {
		return
	}
	sx := float64(c.Width*2) / s.Bounds.Width
	sy := float64(c.Height*4) / s.Bounds.Height
	for sp := range s.All() {
		c.Set(int(sp.Pos.X*sx), int(sp.Pos.Y*sy), sp.Group)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render colours each run of cells owned by the same group with styles[g].
// Empty cells and groups without a style are written plain.
func (c *Canvas) Render(styles []lipgloss.Style) string {
	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Owner[row][col] == c.Owner[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			if g := c.Owner[row][start]; g >= 0 && g < len(styles) {
				run = styles[g].Render(run)
			}
			b.WriteString(run)
			start = col
		}
		b.WriteByte('\n')
	}
	return b.String()
}
