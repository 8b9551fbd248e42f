package viz

import (
	"bytes"
	"image/color"
	"image/gif"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/plife/internal/life"
)

func testWorld(t *testing.T) *life.World {
	t.Helper()
	w, err := life.New(life.Config{
		Groups: []life.GroupSpec{
			{Name: "a", Color: color.RGBA{R: 255, A: 255}},
			{Name: "b", Color: color.RGBA{B: 255, A: 255}},
		},
		Density:       15,
		Bounds:        life.Bounds{Width: 200, Height: 100},
		ParticleSize:  2,
		MaxGravity:    2,
		MaxDistance:   80,
		MinSeparation: 5,
		Friction:      0.5,
		RoundRobin:    2,
		InitialSpeed:  5,
		TickRate:      30,
		InitialTick:   1,
	}, 7)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0, 1)
	c.Set(3, 7, 0)
	c.Set(-1, 0, 0)
	c.Set(8, 0, 0)

	if c.Grid[0][0] != blank|0x1 || c.Owner[0][0] != 1 {
		t.Errorf("cell (0,0) = %U owner %d", c.Grid[0][0], c.Owner[0][0])
	}
	if c.Grid[1][1] != blank|0x80 || c.Owner[1][1] != 0 {
		t.Errorf("cell (1,1) = %U owner %d", c.Grid[1][1], c.Owner[1][1])
	}
	if c.Owner[0][3] != -1 {
		t.Error("out of range set lit a cell")
	}

	c.Clear()
	if c.Grid[0][0] != blank || c.Owner[0][0] != -1 {
		t.Error("clear left a lit cell")
	}
	if got := strings.Count(c.String(), "\n"); got != 2 {
		t.Errorf("string has %d rows, want 2", got)
	}
}

func TestCanvasPlot(t *testing.T) {
	s := life.Snapshot{
		Bounds: life.Bounds{Width: 100, Height: 100},
		Sprites: []life.Sprite{
			{Pos: r2.Vec{X: 0, Y: 0}, Group: 0},
			{Pos: r2.Vec{X: 99, Y: 99}, Group: 1},
		},
	}
	c := NewCanvas(10, 5)
	c.Plot(&s)
	if c.Owner[0][0] != 0 {
		t.Errorf("top-left owner = %d, want 0", c.Owner[0][0])
	}
	if c.Owner[4][9] != 1 {
		t.Errorf("bottom-right owner = %d, want 1", c.Owner[4][9])
	}

	// Without styles the coloured render matches the plain one.
	if c.Render(nil) != c.String() {
		t.Error("unstyled render differs from String")
	}
}

func TestThemes(t *testing.T) {
	if got := GetTheme("nope"); got.Name != ThemeGroups.Name {
		t.Errorf("unknown theme fell back to %q", got.Name)
	}
	seen := map[string]bool{}
	th := ThemeGroups
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th.Name)
	}
	if len(seen) != len(Themes) || th.Name != ThemeGroups.Name {
		t.Errorf("cycle visited %d themes, ended at %q", len(seen), th.Name)
	}

	groups := []life.GroupSpec{{Color: color.RGBA{R: 255, A: 255}}, {Color: color.RGBA{G: 255, A: 255}}}
	styles := ThemeRetroGreen.GroupStyles(groups)
	if len(styles) != 2 || styles[0].GetForeground() != styles[1].GetForeground() {
		t.Error("mono theme should draw every group alike")
	}
	styles = ThemeGroups.GroupStyles(groups)
	if styles[0].GetForeground() == styles[1].GetForeground() {
		t.Error("group theme should keep group colours")
	}
}

func TestModelPacing(t *testing.T) {
	w := testWorld(t)
	m := NewModel(w)
	start := time.Unix(0, 0)

	next, _ := m.Update(TickMsg(start))
	m = next.(Model)
	if w.Tick() != 1 {
		t.Fatalf("first frame advanced to tick %d", w.Tick())
	}

	next, _ = m.Update(TickMsg(start.Add(100 * time.Millisecond)))
	m = next.(Model)
	if w.Tick() != 4 {
		t.Errorf("100ms at 30/s advanced to tick %d, want 4", w.Tick())
	}
	if m.snap.Tick != w.Tick() {
		t.Errorf("snapshot tick %d, world tick %d", m.snap.Tick, w.Tick())
	}
}

func TestModelKeys(t *testing.T) {
	w := testWorld(t)
	m := NewModel(w)
	key := func(s string) {
		var msg tea.KeyMsg
		if s == " " {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}

	key(" ")
	if m.running {
		t.Fatal("space did not pause")
	}
	start := time.Unix(0, 0)
	next, _ := m.Update(TickMsg(start))
	m = next.(Model)
	next, _ = m.Update(TickMsg(start.Add(time.Second)))
	m = next.(Model)
	if w.Tick() != 1 {
		t.Errorf("paused world advanced to tick %d", w.Tick())
	}

	key("n")
	if w.Tick() != 2 {
		t.Errorf("single step reached tick %d, want 2", w.Tick())
	}

	key("r")
	if m.reshuffles != 1 || w.Tick() != 2 {
		t.Errorf("reshuffle: count %d tick %d", m.reshuffles, w.Tick())
	}

	before := CurrentTheme.Name
	key("t")
	if CurrentTheme.Name == before {
		t.Error("theme did not change")
	}
	CurrentTheme = ThemeGroups

	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view does not show paused status")
	}
}

func TestRecorder(t *testing.T) {
	w := testWorld(t)
	s := w.Snapshot()
	r := NewRecorder(&s, 100)
	if r.Height != 50 {
		t.Errorf("height %d, want 50 for a 2:1 world", r.Height)
	}
	r.MaxFrames = 3
	for range 5 {
		w.Step()
		s = w.SnapshotInto(s)
		r.Capture(&s)
	}
	if r.Len() != 3 || !r.Full() {
		t.Fatalf("captured %d frames, want 3", r.Len())
	}

	var buf bytes.Buffer
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("decoded %d frames", len(anim.Image))
	}
	if len(anim.Image[0].Palette) < 3 {
		t.Errorf("palette has %d entries, want at least background plus 2 groups", len(anim.Image[0].Palette))
	}

	if err := NewRecorder(&s, 10).Encode(&buf); err == nil {
		t.Error("empty recording encoded without error")
	}
}

func TestInteractiveMenu(t *testing.T) {
	app := NewInteractiveApp()
	var m tea.Model = *app
	press := func(msg tea.KeyMsg) {
		m, _ = m.Update(msg)
	}

	press(tea.KeyMsg{Type: tea.KeyEnter})
	cur := m.(model)
	if cur.state != stateConfig || cur.cfg == nil {
		t.Fatalf("enter did not open config, state %d", cur.state)
	}
	seed := cur.cfg.Seed

	press(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if got := m.(model).cfg.Seed; got != seed+1 {
		t.Errorf("seed %d, want %d", got, seed+1)
	}

	press(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(model).state != stateMenu {
		t.Error("esc did not return to menu")
	}
}
