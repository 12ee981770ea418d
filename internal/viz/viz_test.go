package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/dynamo"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/geometry"
	"github.com/san-kum/buoysim/internal/sim"
)

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(1, 5)
	if !c.IsSet(1, 5) {
		t.Error("dot (1,5) should be set")
	}
	if c.Grid[1][0] != brailleBlank|pixelMap[1][1] {
		t.Errorf("unexpected cell %U", c.Grid[1][0])
	}

	c.Set(-1, 0)
	c.Set(100, 100)

	c.Clear()
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i <= 7; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot (%d,%d) missing", i, i)
		}
	}
	if got := strings.Count(c.String(), "\n"); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
}

func TestViewportProject(t *testing.T) {
	c := NewCanvas(10, 5)
	vp := NewViewport(c, -1, 1, 0, 2)

	tests := []struct {
		x, y   float64
		px, py int
	}{
		{-1, 2, 0, 0},
		{1, 0, 19, 19},
		{0, 1, 10, 10},
	}
	for _, tt := range tests {
		px, py := vp.Project(tt.x, tt.y)
		if px != tt.px || py != tt.py {
			t.Errorf("Project(%v,%v) = (%d,%d), want (%d,%d)", tt.x, tt.y, px, py, tt.px, tt.py)
		}
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme("ocean")

	SetTheme("retro")
	if CurrentTheme.Name != "retro" {
		t.Errorf("expected retro, got %s", CurrentTheme.Name)
	}
	NextTheme()
	if CurrentTheme.Name != "minimal" {
		t.Errorf("expected minimal, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != "ocean" {
		t.Error("unknown theme should fall back to ocean")
	}
}

func testBuilder() (*sim.Scene, error) {
	bounds := dynamo.Bounds{MinX: -1, MaxX: 1, MinY: 0, MaxY: 1.5, Depth: 1}
	sys, err := fluid.NewSystem(bounds, 1, fluid.DefaultTuning(), &dynamo.Ratio{})
	if err != nil {
		return nil, err
	}
	cfg := engine.DefaultConfig()
	cfg.Container = bounds
	scene := sim.NewScene(engine.NewChipmunk(cfg), sys, sim.DefaultParams())
	body := fluid.NewBody(1, "block", geometry.Box{W: 0.3, H: 0.3, D: 0.3}, 500, sys.Ratio())
	return scene, scene.AddBody(body, mgl64.Vec2{0, 1}, mgl64.Vec2{}, 0)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelStepRewind(t *testing.T) {
	m, err := NewModel(testBuilder, "floating-block", 1.0/60)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	for i := 0; i < 3; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}
	if m.scene.Frames() != 3 || len(m.history) != 3 {
		t.Fatalf("frames = %d history = %d, want 3", m.scene.Frames(), len(m.history))
	}
	y := m.scene.Engine.Position(1).Y()

	next, _ := m.Update(key("["))
	m = next.(Model)
	if m.running {
		t.Error("rewind should pause")
	}
	if len(m.history) != 2 {
		t.Errorf("history = %d, want 2", len(m.history))
	}
	if m.scene.Engine.Position(1).Y() == y {
		t.Error("rewind did not move the body back")
	}

	next, _ = m.Update(TickMsg{})
	m = next.(Model)
	if len(m.history) != 2 {
		t.Error("paused model should not advance on tick")
	}
	next, _ = m.Update(key("]"))
	m = next.(Model)
	if len(m.history) != 3 {
		t.Error("] should step once while paused")
	}

	next, _ = m.Update(key("r"))
	m = next.(Model)
	if m.scene.Frames() != 0 || len(m.heights) != 0 {
		t.Error("reset should rebuild the scene")
	}
}

func TestModelView(t *testing.T) {
	m, err := NewModel(testBuilder, "floating-block", 1.0/60)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	for i := 0; i < 5; i++ {
		next, _ := m.Update(TickMsg{})
		m = next.(Model)
	}

	view := m.View()
	for _, want := range []string{"FLOATING-BLOCK", "Pool", "block"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should return a quit command")
	}
}
