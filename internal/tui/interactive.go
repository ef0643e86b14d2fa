package tui

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rigid2d/internal/body"
	"github.com/san-kum/rigid2d/internal/config"
	"github.com/san-kum/rigid2d/internal/metrics"
	"github.com/san-kum/rigid2d/internal/scene"
	"github.com/san-kum/rigid2d/internal/vec"
	"github.com/san-kum/rigid2d/internal/viz"
	"github.com/san-kum/rigid2d/internal/world"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

var sceneInfo = map[string]string{
	"drop":     "bouncing ball and box",
	"stack":    "box tower",
	"pyramid":  "box pyramid",
	"pendulum": "revolute chain",
	"newton":   "newton's cradle",
	"springs":  "linear and rotational springs",
	"terrain":  "heightfield with capsules",
	"gears":    "motors, gears and a slider",
}

// Canvas placement inside the sim view, in terminal cells.
const (
	canvasLeft = 3
	canvasTop  = 4
	historyLen = 60
	kickSpeed  = 6.0
)

type state int

const (
	stateMenu state = iota
	stateConfig
	stateSim
)

// Model is the bubbletea model of the interactive lab.
type Model struct {
	state  state
	cursor int
	scenes []string

	registry *scene.Registry
	base     *config.Config
	cfg      *config.Config
	logger   *log.Logger

	paramNames  []string
	paramCursor int
	editing     bool
	editBuf     string

	world     *world.World
	view      viz.Viewport
	running   bool
	paused    bool
	speed     float64
	history   []float64
	err       error
	lastFrame time.Time
	fps       float64

	width  int
	height int
}

// NewModel opens on the scene menu. When cfg names a known scene the cursor
// starts on it.
func NewModel(reg *scene.Registry, cfg *config.Config, logger *log.Logger) *Model {
	m := &Model{
		state:    stateMenu,
		scenes:   reg.List(),
		registry: reg,
		base:     cfg.Clone(),
		cfg:      cfg.Clone(),
		logger:   logger,
		speed:    1,
		width:    80,
		height:   24,
	}
	if i := slices.Index(m.scenes, cfg.Scene); i >= 0 {
		m.cursor = i
	}
	return m
}

// Start skips the menu and runs cfg.Scene immediately.
func (m *Model) Start() error {
	m.cfg.Scene = m.scenes[m.cursor]
	return m.start()
}

func (m Model) Init() tea.Cmd {
	if m.state == stateSim {
		return tick()
	}
	return nil
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.state == stateSim && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.kickAt(msg.X, msg.Y)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.world != nil {
			m.fit()
		}
		return m, nil
	case tickMsg:
		if m.state != stateSim {
			return m, nil
		}
		if m.running && !m.paused && m.world != nil {
			now := time.Now()
			if !m.lastFrame.IsZero() {
				if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
					m.fps = 1 / dt
				}
			}
			m.lastFrame = now
			steps := max(int(m.speed), 1)
			for range steps {
				m.step()
			}
		}
		if m.running {
			return m, tick()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.simKey(msg)
	}
	return m, nil
}

func (m Model) menuKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selectScene(m.scenes[m.cursor])
		m.state = stateConfig
	}
	return m, nil
}

func (m Model) configKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.setParam(m.paramNames[m.paramCursor], val)
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%g", m.param(m.paramNames[m.paramCursor]))
	case "left", "h":
		name := m.paramNames[m.paramCursor]
		m.setParam(name, m.param(name)*0.9)
	case "right", "l":
		name := m.paramNames[m.paramCursor]
		m.setParam(name, m.param(name)*1.1)
	case "s":
		if err := m.start(); err != nil {
			m.err = err
			return m, nil
		}
		return m, tea.Batch(tea.ClearScreen, tick())
	}
	return m, nil
}

func (m Model) simKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.running = false
		m.state = stateMenu
		m.reset()
		return m, tea.ClearScreen
	case "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if err := m.start(); err != nil {
			m.err = err
		}
		return m, tea.ClearScreen
	case "c":
		m.running = false
		m.state = stateConfig
		m.reset()
		return m, tea.ClearScreen
	case "n":
		if m.paused && m.world != nil {
			m.step()
		}
	case "k":
		m.kickAll()
	case "+", "=":
		m.speed = math.Min(m.speed*2, 16)
	case "-", "_":
		m.speed = math.Max(m.speed/2, 0.25)
	case "0":
		m.speed = 1
	}
	return m, nil
}

// selectScene resets the config to the base for name and lists its
// parameters, time step first.
func (m *Model) selectScene(name string) {
	m.cfg = m.base.Clone()
	if m.cfg.Scene != name {
		m.cfg.Params = nil
	}
	m.cfg.Scene = name
	if m.cfg.Params == nil {
		m.cfg.Params = map[string]float64{}
	}

	keys := make([]string, 0, len(m.cfg.Params))
	for k := range m.cfg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m.paramNames = append([]string{"dt", "duration"}, keys...)
	m.paramCursor = 0
	m.err = nil
}

func (m Model) param(name string) float64 {
	switch name {
	case "dt":
		return m.cfg.Dt
	case "duration":
		return m.cfg.Duration
	}
	return m.cfg.Params[name]
}

func (m *Model) setParam(name string, v float64) {
	switch name {
	case "dt":
		if v > 0 {
			m.cfg.Dt = v
		}
	case "duration":
		if v > 0 {
			m.cfg.Duration = v
		}
	default:
		m.cfg.Params[name] = v
	}
}

func (m *Model) start() error {
	if err := m.cfg.Validate(); err != nil {
		return err
	}
	w, err := m.registry.Build(m.cfg, m.logger)
	if err != nil {
		return err
	}
	m.world = w
	m.history = make([]float64, 0, historyLen)
	m.speed = 1
	m.lastFrame = time.Time{}
	m.err = nil
	m.fit()
	m.state = stateSim
	m.running = true
	m.paused = false
	return nil
}

func (m *Model) reset() {
	m.world = nil
	m.history = nil
}

func (m *Model) step() {
	if m.world.Time() >= m.cfg.Duration {
		m.paused = true
		return
	}
	if _, err := m.world.StepElapsed(m.cfg.Dt, m.cfg.Dt, m.cfg.MaxSubSteps); err != nil {
		m.err = err
		m.paused = true
		return
	}
	m.history = append(m.history, metrics.MechanicalEnergy(m.world))
	if len(m.history) > historyLen {
		m.history = m.history[1:]
	}
}

func (m Model) canvasSize() (int, int) {
	return max(m.width-6, 50), max(m.height-10, 12)
}

func (m *Model) fit() {
	cw, ch := m.canvasSize()
	m.view = viz.FitViewport(viz.NewCanvas(cw, ch), m.world.Bodies(), 1)
}

// kickAt launches the dynamic body under a terminal cell upwards.
func (m *Model) kickAt(x, y int) {
	if m.world == nil {
		return
	}
	p := m.view.Unproject((x-canvasLeft)*2+1, (y-canvasTop)*4+2)
	precision := 2 / m.view.Scale
	for _, b := range m.world.HitTest(p, nil, precision) {
		kick(b)
	}
}

func (m *Model) kickAll() {
	if m.world == nil {
		return
	}
	for _, b := range m.world.Bodies() {
		kick(b)
	}
}

func kick(b *body.Body) {
	if !b.IsDynamic() {
		return
	}
	v := b.Velocity().Add(vec.New(0, kickSpeed))
	if err := b.SetVelocity(v); err == nil {
		b.WakeUp()
	}
}

func (m Model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.viewSim()
	}
	return ""
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + cyan.Render("r i g i d 2 d") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, name := range m.scenes {
		desc := sceneInfo[name]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter configure   q quit") + "\n")
	return b.String()
}

func (m Model) viewConfig() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(m.cfg.Scene) + "  " + dim.Render(sceneInfo[m.cfg.Scene]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 30)) + "\n\n")

	for i, name := range m.paramNames {
		val := fmt.Sprintf("%8.3f", m.param(name))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-12s", name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-12s", name)) + dim.Render(val) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString("\n      " + viz.StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  ←→ adjust  enter edit  s start  esc back") + "\n")
	return b.String()
}

func (m Model) viewSim() string {
	if m.world == nil {
		return ""
	}
	cw, ch := m.canvasSize()
	canvas := viz.NewCanvas(cw, ch)
	viz.DrawWorld(canvas, m.view, m.world)

	var b strings.Builder

	status := viz.StatusRunning.Render("● running")
	switch {
	case m.err != nil:
		status = viz.StatusError.Render("✕ " + m.err.Error())
	case m.paused:
		status = viz.StatusPaused.Render("○ paused")
	}
	fmt.Fprintf(&b, "\n   %s  %s\n", cyan.Render(m.cfg.Scene), status)

	t := m.world.Time()
	progress := math.Min(t/m.cfg.Duration, 1)
	timeStr := fmt.Sprintf("%.1fs/%.0fs", t, m.cfg.Duration)
	fmt.Fprintf(&b, "   %s %s  %s\n\n",
		viz.ProgressBar(progress, 36), dim.Render(timeStr), dim.Render(fmt.Sprintf("%.0ffps x%g", m.fps, m.speed)))

	for _, line := range strings.Split(strings.TrimSuffix(canvas.String(), "\n"), "\n") {
		b.WriteString(strings.Repeat(" ", canvasLeft) + line + "\n")
	}

	stats := m.world.Stats()
	fmt.Fprintf(&b, "\n   %s  %s  %s  %s\n",
		viz.Metric("bodies", fmt.Sprint(len(m.world.Bodies()))),
		viz.Metric("contacts", fmt.Sprint(stats.Contacts)),
		viz.Metric("islands", fmt.Sprint(stats.Islands)),
		viz.Metric("sleeping", fmt.Sprint(stats.Sleeping)))

	if len(m.history) > 1 {
		e := m.history[len(m.history)-1]
		fmt.Fprintf(&b, "   %s %s %s\n", dim.Render("energy"), viz.Sparkline(m.history, 24), dim.Render(fmt.Sprintf("%.2f", e)))
	}

	b.WriteString("\n" + dim.Render("   space pause  n step  k kick  ±speed  r reset  c config  q menu") + "\n")
	return b.String()
}

// Run opens the lab. With start set it jumps straight into cfg.Scene.
func Run(reg *scene.Registry, cfg *config.Config, logger *log.Logger, start bool) error {
	m := NewModel(reg, cfg, logger)
	if start {
		m.selectScene(m.scenes[m.cursor])
		if err := m.Start(); err != nil {
			return err
		}
	}
	p := tea.NewProgram(*m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
