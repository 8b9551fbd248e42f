// Package gui draws a particle world in a raylib window.
package gui

import (
	"fmt"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/plife/internal/life"
	"github.com/san-kum/plife/internal/metrics"
	"github.com/san-kum/plife/internal/sim"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	maxTelemetry = 200
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

type Options struct {
	// MaxWidth and MaxHeight bound the window; the world is scaled to fit.
	MaxWidth, MaxHeight int
	HideHUD             bool
	Title               string
}

func DefaultOptions() Options {
	return Options{MaxWidth: 1000, MaxHeight: 1000, Title: "plife"}
}

type App struct {
	World   *life.World
	Pacer   *sim.Pacer
	Snap    life.Snapshot
	Running bool
	ShowHUD bool

	Scale         float32
	Width, Height int32
	Colors        []rl.Color

	Kinetic    *metrics.KineticEnergy
	Telemetry  []float64
	Reshuffles int
	Font       rl.Font
}

// Layout returns the scale that fits bounds inside maxW x maxH and the
// resulting window size.
func Layout(b life.Bounds, maxW, maxH int) (scale float32, w, h int32) {
	if b.Width <= 0 || b.Height <= 0 {
		return 1, int32(maxW), int32(maxH)
	}
	s := min(float64(maxW)/b.Width, float64(maxH)/b.Height)
	return float32(s), int32(b.Width * s), int32(b.Height * s)
}

func toColor(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

func secondsToDuration(s float32) time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

func initWindow(w, h int32, title string) {
	rl.InitWindow(w, h, title)
	rl.SetTargetFPS(60)
}

// loadFont falls back to raylib's built-in font when the system font is missing.
func loadFont() rl.Font {
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(w *life.World, opts Options) *App {
	scale, width, height := Layout(w.Config().Bounds, opts.MaxWidth, opts.MaxHeight)
	app := &App{
		World:     w,
		Pacer:     sim.NewPacer(w.Config().TickRate),
		Running:   true,
		ShowHUD:   !opts.HideHUD,
		Scale:     scale,
		Width:     width,
		Height:    height,
		Kinetic:   metrics.NewKineticEnergy(),
		Telemetry: make([]float64, 0, maxTelemetry),
	}
	app.refresh()
	for _, g := range app.Snap.Groups {
		app.Colors = append(app.Colors, toColor(g.Color))
	}
	return app
}

// Run opens a window sized to the world and blocks until it is closed.
// Escape closes the window.
func Run(w *life.World, opts Options) {
	app := NewApp(w, opts)
	initWindow(app.Width, app.Height, opts.Title)
	defer rl.CloseWindow()
	app.Font = loadFont()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// Update handles input and advances the world by the ticks due for the
// last frame. Space pauses, any other key reshuffles.
func (a *App) Update() {
	reshuffle := false
	for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
		switch k {
		case rl.KeySpace:
			a.Running = !a.Running
			a.Pacer.Reset()
		case rl.KeyEscape:
		default:
			reshuffle = true
		}
	}
	if reshuffle {
		a.World.Reshuffle()
		a.Reshuffles++
		a.Telemetry = a.Telemetry[:0]
		a.refresh()
	}

	if !a.Running {
		return
	}
	dt := rl.GetFrameTime()
	n := a.Pacer.Advance(secondsToDuration(dt))
	for range n {
		a.World.Step()
	}
	if n > 0 {
		a.refresh()
	}
}

func (a *App) refresh() {
	a.Snap = a.World.SnapshotInto(a.Snap)
	a.Telemetry = append(a.Telemetry, a.Kinetic.Observe(&a.Snap))
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.drawSim()
	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

// drawSim draws one square per particle, centred on its position.
func (a *App) drawSim() {
	size := max(float32(a.World.Config().ParticleSize)*a.Scale, 1)
	half := size / 2
	for sp := range a.Snap.All() {
		col := ColSelect
		if sp.Group < len(a.Colors) {
			col = a.Colors[sp.Group]
		}
		x := float32(sp.Pos.X)*a.Scale - half
		y := float32(sp.Pos.Y)*a.Scale - half
		rl.DrawRectangleV(rl.NewVector2(x, y), rl.NewVector2(size, size), col)
	}
}

func (a *App) DrawHUD() {
	a.drawText("plife", 20, 16, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: tick %d  %d particles", a.Snap.Tick, a.Snap.Len()), 100, 20, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, int(a.Width)-100, 20, 16, col)

	y := 48
	for i, g := range a.Snap.Groups {
		rl.DrawRectangle(20, int32(y+3), 10, 10, a.Colors[i])
		a.drawText(g.Name, 36, y, 14, ColText)
		y += 18
	}

	a.DrawTelemetry()
	a.drawText("[SPACE] PAUSE  [ANY] RESHUFFLE  [ESC] QUIT", 20, int(a.Height)-24, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int(a.Width)-80, int(a.Height)-24, 14, ColTextDim)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 20, int(a.Height)-100
	width, height := 300, 60

	lo, hi := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(maxTelemetry))*float32(width)
		norm := (val - lo) / (hi - lo)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.3g", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
