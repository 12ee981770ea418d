package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
	"github.com/san-kum/buoysim/internal/sim"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Builder creates a fresh scene; the live view calls it again on reset.
type Builder func() (*sim.Scene, error)

// Model runs a scene in real time and draws it with Braille dots.
type Model struct {
	build    Builder
	scene    *sim.Scene
	name     string
	dt       float64
	canvas   *Canvas
	running  bool
	err      error
	sample   sim.Sample
	heights  []float64
	history  []sim.Snapshot
	showHelp bool
}

func NewModel(build Builder, name string, dt float64) (Model, error) {
	scene, err := build()
	if err != nil {
		return Model{}, err
	}
	return Model{
		build:   build,
		scene:   scene,
		name:    name,
		dt:      dt,
		canvas:  NewCanvas(width, height),
		running: true,
		sample:  scene.Sample(),
		heights: make([]float64, 0, historyCapacity),
		history: make([]sim.Snapshot, 0, historyCapacity),
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "[":
			m.rewind()
		case "]":
			if !m.running {
				m.step()
			}
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.history = appendCapped(m.history, m.scene.Snapshot())
	m.scene.Frame(m.dt)
	m.sample = m.scene.Sample()
	m.heights = appendCapped(m.heights, m.sample.PoolHeight)
}

// rewind restores the previous frame's snapshot and pauses.
func (m *Model) rewind() {
	m.running = false
	if len(m.history) == 0 {
		return
	}
	last := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	if err := m.scene.Restore(last); err != nil {
		m.err = err
		return
	}
	m.sample = m.scene.Sample()
	if len(m.heights) > 0 {
		m.heights = m.heights[:len(m.heights)-1]
	}
}

func (m *Model) reset() {
	scene, err := m.build()
	if err != nil {
		m.err = err
		return
	}
	m.scene = scene
	m.sample = scene.Sample()
	m.heights = m.heights[:0]
	m.history = m.history[:0]
}

func appendCapped[T any](s []T, v T) []T {
	if len(s) >= historyCapacity {
		s = append(s[:0], s[1:]...)
	}
	return append(s, v)
}

func (m Model) View() string {
	m.draw()
	fluidStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Fluid)
	canvasView := canvasStyle.Render(fluidStyle.Render(m.canvas.String()))

	s := m.sample
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true).Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if s.Draining {
		status += lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render("  DRAINING")
	}
	b.WriteString(status + "\n\n")

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("pool height"))
		b.WriteString(chart + "\n\n")
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", s.Time))
	row("Pool", fmt.Sprintf("h=%.3f  V=%.4f", s.PoolHeight, s.PoolVolume))
	if m.scene.System.Child != nil {
		row("Boat", fmt.Sprintf("h=%.3f  V=%.4f", s.BoatHeight, s.BoatVolume))
	}
	if s.Spilled > 0 {
		row("Spilled", fmt.Sprintf("%.4f", s.Spilled))
	}
	if s.Scale > 0 {
		row("Scale", fmt.Sprintf("%.2f kg", s.Scale/m.scene.Integrator.Params().Gravity))
	}
	b.WriteString("\n")
	for _, body := range s.Bodies {
		row(body.Name, fmt.Sprintf("B=%7.1f  D=%6.1f  %s", body.Buoyancy.Y(), body.Viscosity.Len(), body.Containing))
	}
	if m.err != nil {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\n[ ]:Step back/forward T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

const helpText = `Space  pause / resume
R      rebuild the scene
[      step back one frame (pauses)
]      step forward one frame while paused
T      cycle themes
Q      quit`

func (m *Model) draw() { Render(m.canvas, m.scene, m.sample) }

// Render draws the pool, fluid and bodies of scene at the state in sample.
func Render(c *Canvas, scene *sim.Scene, sample sim.Sample) {
	c.Clear()
	sys := scene.System
	pool := sys.Pool.Bounds()

	top := pool.MaxY
	for _, bs := range sample.Bodies {
		top = math.Max(top, bs.Position.Y()+0.5)
	}
	vp := NewViewport(c, pool.MinX-0.05, pool.MaxX+0.05, pool.MinY-0.05, top)

	vp.Line(pool.MinX, pool.MinY, pool.MaxX, pool.MinY)
	vp.Line(pool.MinX, pool.MinY, pool.MinX, pool.MaxY)
	vp.Line(pool.MaxX, pool.MinY, pool.MaxX, pool.MaxY)
	if sample.PoolHeight > pool.MinY {
		vp.Hatch(pool.MinX, pool.MinY, pool.MaxX, sample.PoolHeight)
	}

	if sys.Child != nil && sample.BoatHeight > sys.Child.Bounds().MinY {
		inner := sys.Child.Bounds()
		vp.Hatch(inner.MinX, inner.MinY, inner.MaxX, sample.BoatHeight)
	}

	for i, bs := range sample.Bodies {
		if i < len(sys.Bodies) {
			drawBody(vp, sys.Bodies[i], bs.Position.X(), bs.Position.Y())
		}
	}
}

func drawBody(vp *Viewport, body *fluid.Body, x, y float64) {
	s := body.Shape
	hw, hh := s.Width()/2, s.Height()/2
	switch shape := s.(type) {
	case geometry.Cone:
		if shape.Inverted {
			vp.Line(x-hw, y+hh, x+hw, y+hh)
			vp.Line(x-hw, y+hh, x, y-hh)
			vp.Line(x+hw, y+hh, x, y-hh)
		} else {
			vp.Line(x-hw, y-hh, x+hw, y-hh)
			vp.Line(x-hw, y-hh, x, y+hh)
			vp.Line(x+hw, y-hh, x, y+hh)
		}
	case geometry.Boat:
		vp.Line(x-hw, y+hh, x-hw, y-hh)
		vp.Line(x-hw, y-hh, x+hw, y-hh)
		vp.Line(x+hw, y-hh, x+hw, y+hh)
		inner := hw - shape.Wall
		vp.Line(x-inner, y+hh, x-inner, y-hh+shape.Wall)
		vp.Line(x-inner, y-hh+shape.Wall, x+inner, y-hh+shape.Wall)
		vp.Line(x+inner, y-hh+shape.Wall, x+inner, y+hh)
	default:
		vp.Rect(x-hw, y-hh, x+hw, y+hh)
	}
}
