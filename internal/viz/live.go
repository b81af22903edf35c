package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/splashsim/internal/config"
	"github.com/san-kum/splashsim/internal/scene"
)

const (
	defaultWidth    = 100
	defaultHeight   = 30
	statsWidth      = 42
	historyCapacity = 300
	cursorStep      = 0.02
	maxFrame        = 0.25 // seconds; longer gaps are treated as a stall

	radiusFactor = 1.1
	massFactor   = 1.25

	gifPath = "splash.gif"
)

type TickMsg time.Time

// sceneKeys binds the number keys to scene names.
var sceneKeys = map[string]string{"1": "water", "2": "particles"}

// Model is the live view of one scene.
type Model struct {
	cfg      config.Config
	registry *scene.Registry
	log      *log.Logger

	scene    scene.Scene
	canvas   *Canvas
	recorder *Recorder

	width, height    int
	cursorX, cursorY float64
	running          bool
	recording        bool
	showHelp         bool
	lastTick         time.Time
	activity         []float64
	message          string
}

// NewModel starts the scene named by cfg.Scene.
func NewModel(cfg config.Config, registry *scene.Registry, logger *log.Logger) (Model, error) {
	sc, err := registry.Get(cfg.Scene, cfg, logger)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		cfg:      cfg,
		registry: registry,
		log:      logger,
		scene:    sc,
		recorder: NewRecorder(cfg.Sim.FrameRate),
		cursorX:  0.5,
		cursorY:  0.2,
		running:  true,
	}
	m.resize(defaultWidth, defaultHeight)
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cw := w - statsWidth - 8
	ch := h - 4
	if cw < 20 {
		cw = 20
	}
	if ch < 8 {
		ch = 8
	}
	m.canvas = NewCanvas(cw, ch)
}

func (m Model) frameInterval() time.Duration {
	fps := m.cfg.Sim.FrameRate
	if fps <= 0 {
		fps = config.DefaultFrameRate
	}
	return time.Second / time.Duration(fps)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and advances the scene.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		frame := m.frameInterval().Seconds()
		if !m.lastTick.IsZero() {
			frame = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if frame > maxFrame {
			frame = maxFrame
		}
		m.advance(frame)
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		m.cursorX = clampUnit(m.cursorX - cursorStep)
	case "right", "l":
		m.cursorX = clampUnit(m.cursorX + cursorStep)
	case "up", "k":
		m.cursorY = clampUnit(m.cursorY - cursorStep)
	case "down", "j":
		m.cursorY = clampUnit(m.cursorY + cursorStep)
	case " ", "enter":
		if err := m.scene.Spawn(m.cursorX, m.cursorY); err != nil {
			m.message = err.Error()
		}
	case "+", "=":
		m.tune(radiusFactor, 1)
	case "-", "_":
		m.tune(1/radiusFactor, 1)
	case "]":
		m.tune(1, massFactor)
	case "[":
		m.tune(1, 1/massFactor)
	case "s":
		if c, ok := m.scene.(scene.Cycler); ok {
			c.Next()
		}
	case "1", "2":
		m.switchScene(sceneKeys[key])
	case "p":
		m.running = !m.running
	case "r":
		m.scene.Reset()
		m.activity = m.activity[:0]
		m.message = "reset"
	case "t":
		NextTheme()
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) tune(radius, mass float64) {
	t, ok := m.scene.(scene.Tuner)
	if !ok {
		return
	}
	t.SetRadius(t.Radius() * radius)
	t.SetMass(t.Mass() * mass)
}

func (m *Model) switchScene(name string) {
	if name == "" || name == m.scene.Name() {
		return
	}
	sc, err := m.registry.Get(name, m.cfg, m.log)
	if err != nil {
		m.message = err.Error()
		return
	}
	m.scene = sc
	m.activity = m.activity[:0]
	m.message = "scene: " + name
	m.log.Info("scene switched", "scene", name)
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.message = "recording"
		return
	}
	m.recording = false
	if err := m.recorder.Save(gifPath); err != nil {
		m.message = err.Error()
		m.log.Warn("gif not written", "err", err)
		return
	}
	m.message = "saved " + gifPath
}

// advance steps the scene by frame seconds and redraws the canvas.
func (m *Model) advance(frame float64) {
	if m.running {
		m.scene.Update(frame)
		if w, ok := m.scene.(*scene.Water); ok {
			m.activity = append(m.activity, w.Pool().Surface().Activity())
			if len(m.activity) > historyCapacity {
				m.activity = m.activity[1:]
			}
		}
	}
	m.draw()
	if m.recording {
		m.recorder.Capture(m.canvas, themeInk())
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	w, h := m.canvas.Dots()
	m.scene.Draw(m.canvas, w, h)

	// crosshair
	cx, cy := int(m.cursorX*float64(w-1)), int(m.cursorY*float64(h-1))
	for d := -2; d <= 2; d++ {
		m.canvas.Set(cx+d, cy)
		m.canvas.Set(cx, cy+d)
	}
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	water := lipgloss.NewStyle().Foreground(CurrentTheme.Water)
	canvasView := canvasStyle.Render(water.Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.scene.Name()), CurrentTheme.Water, CurrentTheme.Accent) + "\n")

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Frames()))
	}
	s.WriteString(status + "\n\n")

	if len(m.activity) > 1 {
		chart := asciigraph.Plot(m.activity, asciigraph.Height(4), asciigraph.Width(statsWidth-14), asciigraph.Caption("wave activity"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Water).Render(chart) + "\n")
	}

	for _, st := range m.scene.Status() {
		s.WriteString(labelStyle.Render(st.Label) + valueStyle.Render(st.Value) + "\n")
	}
	if t, ok := m.scene.(scene.Tuner); ok {
		ratio := (t.Mass() - config.MinMass) / (config.MaxMass - config.MinMass)
		s.WriteString(labelStyle.Render("") + ProgressBar(ratio, 16) + "\n")
	}

	if m.message != "" {
		s.WriteString("\n" + Subtle.Render(m.message) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(statsWidth-6) + "\n" +
		keyHints("spc", "spawn", "p", "pause", "r", "reset") + "\n" +
		keyHints("+/-", "radius", "[/]", "mass", "s", "shape") + "\n" +
		keyHints("1/2", "scene", "t", "theme", "g", "gif") + "\n" +
		keyHints("?", "help", "q", "quit")))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows/HJKL - Move spawn cursor     ║
║  Space       - Spawn / move emitter  ║
║  + / -       - Body radius ±10%      ║
║  ] / [       - Body mass ±25%        ║
║  S           - Cycle emitter shape   ║
║  1 / 2       - Water / particles     ║
║  P           - Pause/Resume          ║
║  R           - Reset scene           ║
║  T           - Cycle themes          ║
║  G           - Toggle GIF recording  ║
║  Q           - Quit                  ║
╚══════════════════════════════════════╝`

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RunLive opens the live view for cfg.Scene.
func RunLive(cfg config.Config, registry *scene.Registry, logger *log.Logger) error {
	m, err := NewModel(cfg, registry, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
