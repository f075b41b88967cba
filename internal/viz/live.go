package viz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/threebody/internal/dynamo"
	"github.com/san-kum/threebody/internal/metrics"
	"github.com/san-kum/threebody/internal/sim"
	"github.com/san-kum/threebody/internal/trail"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	statsWidth      = 44
	historyCapacity = 600
)

type TickMsg time.Time

// Options configures the live view.
type Options struct {
	Title       string
	TrailLength int
	FPS         int
	Theme       string
	Colors      [3]string
	Extent      float64
}

// Model drives a sim.Driver one frame per tick and renders the bodies with
// their trails on a Braille canvas.
type Model struct {
	driver        *sim.Driver
	trails        *Trails
	drift         *metrics.EnergyDrift
	closest       *metrics.ClosestApproach
	energyHistory *trail.Ring[float64]
	camera        *Camera
	canvas        *Canvas
	palette       *Palette
	theme         Theme
	colors        [3]string
	title         string
	fps           int
	running       bool
	showHelp      bool
	ticks         int
	err           error
	width, height int
}

// NewModel wires trail and metric sinks into d. The driver should be fresh;
// the live view owns it from here on.
func NewModel(d *sim.Driver, opts Options) (Model, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Title == "" {
		opts.Title = "three body"
	}

	trails, err := NewTrails(opts.TrailLength)
	if err != nil {
		return Model{}, fmt.Errorf("trail: %w", err)
	}
	history, err := trail.New[float64](historyCapacity)
	if err != nil {
		return Model{}, err
	}

	theme := GetTheme(opts.Theme)
	palette, err := NewPalette(theme, opts.Colors, DefaultFadeLevels)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		driver:        d,
		trails:        trails,
		drift:         metrics.NewEnergyDrift(d.Gravity()),
		closest:       metrics.NewClosestApproach(),
		energyHistory: history,
		camera:        NewCamera(opts.Extent),
		canvas:        NewCanvas(defaultWidth, defaultHeight),
		palette:       palette,
		theme:         theme,
		colors:        opts.Colors,
		title:         opts.Title,
		fps:           opts.FPS,
		running:       true,
		width:         defaultWidth,
		height:        defaultHeight,
	}

	d.AddSink(trails)
	d.AddMetric(m.drift)
	d.AddMetric(m.closest)
	m.observeInitial()
	return m, nil
}

func (m *Model) observeInitial() {
	s := m.driver.System()
	m.drift.Observe(s, m.driver.Time())
	m.closest.Observe(s, m.driver.Time())
	m.energyHistory.Push(0)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "w", "up":
			m.camera.Pan(0, 1)
		case "s", "down":
			m.camera.Pan(0, -1)
		case "a", "left":
			m.camera.Pan(-1, 0)
		case "d", "right":
			m.camera.Pan(1, 0)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "c":
			m.camera.Recenter(m.driver.System().CenterOfMass())
		case "t":
			m.cycleTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		m.ticks++
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the driver by one frame. A numeric failure stops the view
// but keeps the last good frame on screen.
func (m *Model) step() {
	if _, err := m.driver.Advance(); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.energyHistory.Push(m.drift.Current())
}

func (m *Model) reset() {
	m.driver.Reset()
	m.trails.Reset()
	m.energyHistory.Reset()
	m.camera.Reset()
	m.err = nil
	m.running = true
	m.observeInitial()
}

func (m *Model) cycleTheme() {
	next := NextTheme(m.theme.Name)
	p, err := NewPalette(next, m.colors, m.palette.Levels())
	if err != nil {
		return
	}
	m.theme, m.palette = next, p
}

func (m *Model) resize(w, h int) {
	cw := w - statsWidth - 6
	ch := h - 4
	if cw < 10 {
		cw = 10
	}
	if ch < 5 {
		ch = 5
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

func (m *Model) draw() {
	m.canvas.Clear()
	DrawScene(m.canvas, m.camera, m.palette, m.trails, m.driver.Positions())
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.Render(m.palette.Styles))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.title), m.theme.Primary, m.theme.Accent) + "\n")
	s.WriteString(m.status() + "\n\n")

	if hist := m.energyHistory.Points(); len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("dE/E0"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	cfg := m.driver.Config()
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", m.driver.Time())) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d", m.driver.Steps())) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%g x %d", cfg.Dt, cfg.Substeps)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", m.driver.Gravity().Energy(m.driver.System()))) + "\n")
	s.WriteString(labelStyle.Render("Max drift") + valueStyle.Render(fmt.Sprintf("%.2e", m.drift.Value())) + "\n")
	s.WriteString(labelStyle.Render("Closest") + valueStyle.Render(fmt.Sprintf("%.4f", m.closest.Value())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.camera.Zoom)) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(m.theme.Name) + "\n")

	s.WriteString("\n")
	for i, b := range m.driver.System() {
		dot := m.palette.Styles[m.palette.HeadLayer(i)].Render("●")
		s.WriteString(fmt.Sprintf("%s m=%-5.3g (%6.3f, %6.3f)\n", dot, b.Mass, b.Position.X(), b.Position.Y()))
	}

	s.WriteString(helpStyle.Render("\n" + Separator(statsWidth-4) + "\nSP:Pause R:Reset C:Center Q:Quit\nWASD:Pan +/-:Zoom T:Theme ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		msg := "HALTED"
		if errors.Is(m.err, dynamo.ErrSingular) {
			msg = "HALTED: bodies collided"
		}
		return StatusHalted.Render(msg)
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render(AnimatedSpinner(m.ticks) + " RUNNING")
	}
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  W/A/S/D  - Pan (arrows work too)    ║
║  + / -    - Zoom in / out            ║
║  C        - Center on mass centre    ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the live view full screen and blocks until the user quits.
func Run(d *sim.Driver, opts Options) error {
	m, err := NewModel(d, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
