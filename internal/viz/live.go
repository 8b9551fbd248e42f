package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/plife/internal/life"
	"github.com/san-kum/plife/internal/metrics"
	"github.com/san-kum/plife/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 45
	historyCapacity = 600
	frameInterval   = time.Second / 60
	recordWidth     = 480
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(statsWidth)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live view of a world. The world advances by whole ticks as
// the pacer releases them, independent of the frame rate.
type Model struct {
	world  *life.World
	pacer  *sim.Pacer
	snap   life.Snapshot
	canvas *Canvas
	styles []lipgloss.Style

	kinetic  *metrics.KineticEnergy
	cohesion *metrics.Cohesion

	energyHistory   []float64
	cohesionHistory []float64

	width, height int
	last          time.Time
	running       bool
	showHelp      bool
	reshuffles    int
	lastBatch     int

	recorder *Recorder
	GIFPath  string
	status   string
}

func NewModel(w *life.World) Model {
	m := Model{
		world:           w,
		pacer:           sim.NewPacer(w.Config().TickRate),
		canvas:          NewCanvas(defaultWidth, defaultHeight),
		kinetic:         metrics.NewKineticEnergy(),
		cohesion:        metrics.NewCohesion(),
		energyHistory:   make([]float64, 0, historyCapacity),
		cohesionHistory: make([]float64, 0, historyCapacity),
		width:           defaultWidth,
		height:          defaultHeight,
		running:         true,
		GIFPath:         "plife.gif",
	}
	m.refresh()
	m.styles = CurrentTheme.GroupStyles(m.snap.Groups)
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.pacer.Reset()
		case "r":
			m.world.Reshuffle()
			m.reshuffles++
			m.energyHistory = m.energyHistory[:0]
			m.cohesionHistory = m.cohesionHistory[:0]
			m.refresh()
		case "n":
			if !m.running {
				m.world.Step()
				m.lastBatch = 1
				m.refresh()
			}
		case "t":
			CurrentTheme = NextTheme(CurrentTheme.Name)
			m.styles = CurrentTheme.GroupStyles(m.snap.Groups)
		case "g":
			if m.recorder != nil {
				m.stopRecording()
			} else {
				m.recorder = NewRecorder(&m.snap, recordWidth)
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if m.last.IsZero() {
			m.last = now
		}
		elapsed := now.Sub(m.last)
		m.last = now
		if m.running {
			m.advance(elapsed)
		}
		return m, tick()
	}
	return m, nil
}

// advance runs the ticks released for elapsed wall-clock time.
func (m *Model) advance(elapsed time.Duration) {
	n := m.pacer.Advance(elapsed)
	m.lastBatch = n
	if n == 0 {
		return
	}
	for range n {
		m.world.Step()
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.snap = m.world.SnapshotInto(m.snap)
	m.canvas.Plot(&m.snap)
	m.energyHistory = push(m.energyHistory, m.kinetic.Observe(&m.snap))
	m.cohesionHistory = push(m.cohesionHistory, m.cohesion.Observe(&m.snap))
	if m.recorder != nil {
		m.recorder.Capture(&m.snap)
		if m.recorder.Full() {
			m.stopRecording()
		}
	}
}

func push(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Save(m.GIFPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", m.recorder.Len(), m.GIFPath)
	}
	m.recorder = nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-8, 10)
	ch := max(h-4, 5)
	// Keep the world's aspect ratio: one cell is 2x4 sub-pixels, roughly square
	// on screen when a cell is twice as tall as it is wide.
	b := m.world.Config().Bounds
	if b.Width > 0 && b.Height > 0 {
		want := int(float64(cw) * b.Height / b.Width / 2)
		if want < ch {
			ch = max(want, 5)
		} else {
			cw = max(int(float64(ch)*2*b.Width/b.Height), 10)
		}
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
	m.canvas.Plot(&m.snap)
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render(m.styles))

	var s strings.Builder
	title := GradientText("PARTICLE LIFE", CurrentTheme.Primary, CurrentTheme.Secondary)
	s.WriteString(headerStyle.Render(title) + "\n")

	switch {
	case m.recorder != nil:
		s.WriteString(StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Len())) + "\n")
		s.WriteString(ProgressBar(float64(m.recorder.Len())/float64(m.recorder.MaxFrames), 20) + "\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}
	if m.status != "" {
		s.WriteString(Subtle.Render(m.status) + "\n")
	}
	s.WriteString("\n")

	cfg := m.world.Config()
	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", m.snap.Tick)) + "\n")
	s.WriteString(labelStyle.Render("Particles") + valueStyle.Render(fmt.Sprintf("%d", m.snap.Len())) + "\n")
	s.WriteString(labelStyle.Render("Rate") + valueStyle.Render(fmt.Sprintf("%.0f/s (x%d)", cfg.TickRate, m.lastBatch)) + "\n")
	s.WriteString(labelStyle.Render("Boundary") + valueStyle.Render(string(cfg.Boundary)) + "\n")
	s.WriteString(labelStyle.Render("Backend") + valueStyle.Render(m.world.Backend().Name()) + "\n")
	s.WriteString(labelStyle.Render("Reshuffles") + valueStyle.Render(fmt.Sprintf("%d", m.reshuffles)) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(CurrentTheme.Name) + "\n\n")

	for i, g := range m.snap.Groups {
		swatch := "■"
		if i < len(m.styles) {
			swatch = m.styles[i].Render(swatch)
		}
		s.WriteString(fmt.Sprintf("%s %s\n", swatch, MetricLabel.Render(g.Name)))
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Accent).Render(chart) + "\n")
	}
	if n := len(m.cohesionHistory); n > 0 {
		s.WriteString(MetricLabel.Render("Cohesion ") + MetricValue.Render(fmt.Sprintf("%.1f", m.cohesionHistory[n-1])) + "\n")
		s.WriteString(SparklineChart(m.cohesionHistory, 30) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSP:Pause R:Reshuffle N:Step\nT:Theme  G:Record Q:Quit ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reshuffle the world      ║
║  N        - Single tick while paused ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// RunLive runs the live view until the user quits.
func RunLive(w *life.World) error {
	_, err := tea.NewProgram(NewModel(w), tea.WithAltScreen()).Run()
	return err
}
