package viz

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/physics"
	"github.com/san-kum/threebody/internal/sim"
)

func newTestModel(t *testing.T, s physics.System, trailLen int) Model {
	t.Helper()
	d, err := sim.New(physics.NewGravity(physics.DefaultG), s, sim.Config{Dt: 0.001, Substeps: 5})
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	m, err := NewModel(d, Options{TrailLength: trailLen, Extent: 1.5})
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestTrailsSink(t *testing.T) {
	trails, err := NewTrails(3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		x := float64(i)
		trails.OnFrame(sim.Frame{Positions: [3]mgl64.Vec3{{x, 0, 0}, {0, x, 0}, {0, 0, x}}})
	}

	if trails.Len() != 3 {
		t.Fatalf("expected 3 points per body, got %d", trails.Len())
	}
	got := trails.Body(1).Points()
	want := []mgl64.Vec3{{0, 2, 0}, {0, 3, 0}, {0, 4, 0}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("body 2 point %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if len(trails.Points()) != 9 {
		t.Errorf("expected 9 points overall, got %d", len(trails.Points()))
	}

	trails.Reset()
	if trails.Len() != 0 {
		t.Error("reset left points behind")
	}

	if _, err := NewTrails(0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error for empty trail, got %v", err)
	}
}

func TestDrawSceneHeads(t *testing.T) {
	c := NewCanvas(40, 20)
	p, err := NewPalette(ThemeCyberpunk, [3]string{}, DefaultFadeLevels)
	if err != nil {
		t.Fatal(err)
	}
	heads := [3]mgl64.Vec3{{-1, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	cam := NewCamera(1.5)

	DrawScene(c, cam, p, nil, heads)

	w, h := c.Dots()
	for body, pos := range heads {
		x, y, ok := cam.Project(pos, w, h)
		if !ok {
			t.Fatalf("body %d off screen", body)
		}
		if !c.IsSet(x, y) {
			t.Errorf("body %d head not drawn", body)
		}
		if c.Layer[y/4][x/2] != p.HeadLayer(body) {
			t.Errorf("body %d head on layer %d", body, c.Layer[y/4][x/2])
		}
	}
}

func TestDrawSceneTrailFade(t *testing.T) {
	c := NewCanvas(40, 20)
	p, err := NewPalette(ThemeCyberpunk, [3]string{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	trails, err := NewTrails(4)
	if err != nil {
		t.Fatal(err)
	}
	// body 1 walks left to right; the others sit off screen
	far := mgl64.Vec3{100, 100, 0}
	for _, x := range []float64{-1.2, -0.6, 0.6, 1.2} {
		trails.OnFrame(sim.Frame{Positions: [3]mgl64.Vec3{{x, 1, 0}, far, far}})
	}

	cam := NewCamera(1.5)
	DrawScene(c, cam, p, trails, [3]mgl64.Vec3{far, far, far})

	w, h := c.Dots()
	oldX, oldY, _ := cam.Project(mgl64.Vec3{-1.2, 1, 0}, w, h)
	newX, newY, _ := cam.Project(mgl64.Vec3{1.2, 1, 0}, w, h)
	if got := c.Layer[oldY/4][oldX/2]; got != p.TrailLayer(0, 0) {
		t.Errorf("oldest point on layer %d, want faded %d", got, p.TrailLayer(0, 0))
	}
	if got := c.Layer[newY/4][newX/2]; got != p.TrailLayer(0, 1) {
		t.Errorf("newest point on layer %d, want fresh %d", got, p.TrailLayer(0, 1))
	}
}

func TestPaletteInvalidColor(t *testing.T) {
	_, err := NewPalette(ThemeCyberpunk, [3]string{"", "not-a-colour", ""}, 3)
	if err == nil || !strings.Contains(err.Error(), "body 2") {
		t.Errorf("expected body 2 colour error, got %v", err)
	}
	if _, err := NewPalette(ThemeCyberpunk, [3]string{}, 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected bounds error, got %v", err)
	}
}

func TestModelTickAdvancesDriver(t *testing.T) {
	m := newTestModel(t, physics.FigureEight(), 10)
	before := m.driver.System()

	m = update(m, TickMsg(time.Now()))
	if m.driver.Frames() != 1 || m.driver.Steps() != 5 {
		t.Fatalf("expected 1 frame of 5 steps, got %d frames %d steps", m.driver.Frames(), m.driver.Steps())
	}
	if m.driver.System() == before {
		t.Error("bodies did not move")
	}
	if m.trails.Len() != 1 {
		t.Errorf("expected 1 trail point, got %d", m.trails.Len())
	}
	if m.energyHistory.Len() != 2 {
		t.Errorf("expected initial + 1 energy sample, got %d", m.energyHistory.Len())
	}
}

func TestModelPauseAndReset(t *testing.T) {
	m := newTestModel(t, physics.FigureEight(), 10)

	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))
	if m.driver.Frames() != 0 {
		t.Error("paused model advanced")
	}

	m = update(m, key(" "))
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))
	if m.driver.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", m.driver.Frames())
	}

	m = update(m, key("+"))
	m = update(m, key("r"))
	if m.driver.Frames() != 0 || m.trails.Len() != 0 {
		t.Error("reset did not clear driver and trails")
	}
	if m.driver.System() != physics.FigureEight() {
		t.Error("reset did not restore initial bodies")
	}
	if m.camera.Zoom != 1 {
		t.Errorf("reset left zoom at %v", m.camera.Zoom)
	}
}

func TestModelCameraKeys(t *testing.T) {
	m := newTestModel(t, physics.FigureEight(), 10)

	m = update(m, key("w"))
	if m.camera.Center.Y() <= 0 {
		t.Error("w should pan up")
	}
	m = update(m, key("c"))
	com := physics.FigureEight().CenterOfMass()
	if m.camera.Center != com.Vec2() {
		t.Errorf("c should recenter on %v, got %v", com.Vec2(), m.camera.Center)
	}
	m = update(m, key("up"))
	m = update(m, key("-"))
	if m.camera.Zoom >= 1 {
		t.Error("- should zoom out")
	}
}

func TestModelHaltsOnCollision(t *testing.T) {
	// bodies 1 and 2 start coincident
	s := physics.FigureEight()
	s[1].Position = s[0].Position
	m := newTestModel(t, s, 10)

	m = update(m, TickMsg(time.Now()))
	if m.err == nil || !errors.Is(m.err, dynamo.ErrSingular) {
		t.Fatalf("expected singular error, got %v", m.err)
	}
	if m.running {
		t.Error("model should stop after a collision")
	}
	if !strings.Contains(m.View(), "HALTED") {
		t.Error("view should report the halt")
	}

	m = update(m, key(" "))
	if m.running {
		t.Error("space must not resume a halted model")
	}
}

func TestModelViewShowsBodies(t *testing.T) {
	m := newTestModel(t, physics.FigureEight(), 10)
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = update(m, TickMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"RUNNING", "Time", "Energy", "m=1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if m.canvas.Width != 120-statsWidth-6 || m.canvas.Height != 36 {
		t.Errorf("canvas not resized: %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, physics.FigureEight(), 10)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
