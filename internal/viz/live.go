package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/songsen/servoM8/internal/control"
	"github.com/songsen/servoM8/internal/experiment"
	"github.com/songsen/servoM8/internal/registers"
	"github.com/songsen/servoM8/internal/servo"
)

const (
	dialWidth       = 30
	dialHeight      = 12
	historyCapacity = 240
	frameRate       = 30

	// The horn sweeps 270 degrees over the sensor range.
	dialSweep = 1.5 * math.Pi

	seekStep       = 16
	seekStepCoarse = 64
)

type TickMsg time.Time

// Model runs an experiment one frame at a time and draws the servo horn,
// the register state and a position history graph.
type Model struct {
	exp     *experiment.Experiment
	loop    *servo.Loop
	regs    *registers.Table
	tunable control.Tunable

	title          string
	canvas         *Canvas
	running        bool
	cyclesPerFrame int
	err            error
	showHelp       bool

	last      servo.Sample
	positions []float64
	seeks     []float64
	integrals []float64

	paramKeys []string
	selected  int
}

// NewModel starts the experiment's loop and wraps it for display.
func NewModel(exp *experiment.Experiment, title string) (Model, error) {
	cfg := exp.Config().LoopConfig()
	if err := exp.Loop().Start(cfg); err != nil {
		return Model{}, err
	}

	m := Model{
		exp:            exp,
		loop:           exp.Loop(),
		regs:           exp.Registers(),
		title:          title,
		canvas:         NewCanvas(dialWidth, dialHeight),
		running:        true,
		cyclesPerFrame: max(int(math.Round(cfg.SampleRate/frameRate)), 1),
		positions:      make([]float64, 0, historyCapacity),
		seeks:          make([]float64, 0, historyCapacity),
		integrals:      make([]float64, 0, historyCapacity),
	}
	if t, ok := exp.Controller().(control.Tunable); ok {
		m.tunable = t
		for k := range t.GetParams() {
			m.paramKeys = append(m.paramKeys, k)
		}
		sort.Strings(m.paramKeys)
	}
	return m, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles keys and advances the loop on each tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && m.err == nil
		case "s":
			if !m.running {
				m.step(1)
			}
		case "left", "h":
			m.moveSeek(-seekStep)
		case "right", "l":
			m.moveSeek(seekStep)
		case "H":
			m.moveSeek(-seekStepCoarse)
		case "L":
			m.moveSeek(seekStepCoarse)
		case "r":
			m.toggleReverse()
		case "e":
			if d := m.exp.Driver(); d.Enabled() {
				d.Disable()
			} else {
				d.Enable()
			}
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.1)
		case "down", "j":
			m.adjustParam(1 / 1.1)
		case "+", "=":
			m.cyclesPerFrame = min(m.cyclesPerFrame*2, 64)
		case "-", "_":
			m.cyclesPerFrame = max(m.cyclesPerFrame/2, 1)
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step(m.cyclesPerFrame)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step(n int) {
	for i := 0; i < n; i++ {
		s, err := m.loop.Step()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.record(s)
	}
}

func (m *Model) record(s servo.Sample) {
	m.last = s
	m.positions = appendCapped(m.positions, float64(s.Position))
	m.seeks = appendCapped(m.seeks, float64(m.physicalSeek()))
	m.integrals = appendCapped(m.integrals, float64(s.Integral))
}

func appendCapped(values []float64, v float64) []float64 {
	if len(values) == historyCapacity {
		copy(values, values[1:])
		values = values[:len(values)-1]
	}
	return append(values, v)
}

func (m *Model) reversed() bool {
	return m.regs.Byte(registers.RegReverseSeek) != 0
}

// physicalSeek is the seek register in sensor coordinates.
func (m *Model) physicalSeek() int {
	seek := int(m.regs.Word(registers.SeekPosition))
	if m.reversed() {
		seek = servo.MaxPosition - seek
	}
	return seek
}

// moveSeek moves the target by delta sensor counts, whatever the sense.
func (m *Model) moveSeek(delta int) {
	seek := max(servo.MinPosition, min(m.physicalSeek()+delta, servo.MaxPosition))
	if m.reversed() {
		seek = servo.MaxPosition - seek
	}
	m.regs.SetWord(registers.SeekPosition, uint16(seek))
}

// toggleReverse flips the sense and mirrors the seek register so the
// target stays put.
func (m *Model) toggleReverse() {
	seek := m.physicalSeek()
	if m.reversed() {
		m.regs.SetByte(registers.RegReverseSeek, 0)
		m.regs.SetWord(registers.SeekPosition, uint16(seek))
		return
	}
	m.regs.SetByte(registers.RegReverseSeek, 1)
	m.regs.SetWord(registers.SeekPosition, uint16(servo.MaxPosition-seek))
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

// adjustParam scales the selected gain. A zero gain steps to one so it can
// grow again.
func (m *Model) adjustParam(factor float64) {
	if m.tunable == nil || len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	v := m.tunable.GetParams()[key]
	next := math.Round(v * factor)
	if next == v {
		next = v + math.Copysign(1, factor-1)
	}
	m.tunable.SetParam(key, next)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusFault.Render("FAULT " + m.err.Error())
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the dial, the register panel and the position graph.
func (m Model) View() string {
	m.drawDial()

	var s strings.Builder
	s.WriteString(TitleStyle.Render(strings.ToUpper(m.title)) + "  " + m.status() + "\n\n")

	dial := PanelStyle.Render(m.canvas.String())
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, dial, "  ", PanelStyle.Render(m.stats())))
	s.WriteString("\n")

	if len(m.positions) > 1 {
		graph := asciigraph.PlotMany(
			[][]float64{m.seeks, m.positions},
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.LowerBound(servo.MinPosition),
			asciigraph.UpperBound(servo.MaxPosition),
			asciigraph.SeriesColors(CurrentTheme.GraphSeek, CurrentTheme.GraphPosition),
			asciigraph.Caption("seek / position"),
		)
		s.WriteString(graph + "\n")
	}

	if m.showHelp {
		s.WriteString("\n" + KeyHint.Render(helpText) + "\n")
	} else {
		s.WriteString("\n" + KeyHint.Render("←/→ seek  r reverse  e enable  tab/↑/↓ gains  space pause  ? help  q quit") + "\n")
	}
	return s.String()
}

const helpText = `←/→ h/l   move seek by 16     H/L   move seek by 64
r         toggle reverse sense e     enable or disable drive
tab       select gain          ↑/↓   raise or lower gain
space     pause or resume      s     single step when paused
+/-       cycles per frame     t     next theme
q         quit`

func (m Model) stats() string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(LabelStyle.Render(label) + ValueStyle.Render(value) + "\n")
	}

	row("cycle", fmt.Sprintf("%d", m.loop.Cycle()))
	row("position", fmt.Sprintf("%4d", m.last.Position))
	row("seek", fmt.Sprintf("%4d", m.physicalSeek()))
	row("pwm", fmt.Sprintf("%4d", m.last.PWM))
	b.WriteString(LabelStyle.Render("drive") + DriveBar(int(m.last.Drive), servo.MaxOutput, 20) + "\n")
	row("integral", fmt.Sprintf("%6d", m.last.Integral))
	b.WriteString(LabelStyle.Render("") + Sparkline(m.integrals, 20) + "\n")
	row("reverse", fmt.Sprintf("%v", m.reversed()))
	row("enabled", fmt.Sprintf("%v", m.exp.Driver().Enabled()))
	row("speed", fmt.Sprintf("%dx", m.cyclesPerFrame))

	if m.tunable != nil {
		b.WriteString("\n")
		params := m.tunable.GetParams()
		for i, k := range m.paramKeys {
			line := fmt.Sprintf("%-16s %6.0f", k, params[k])
			if i == m.selected {
				b.WriteString(SelectedStyle.Render("▸ "+line) + "\n")
			} else {
				b.WriteString(KeyHint.Render("  "+line) + "\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// dialAngle maps a sensor value onto the horn's sweep, centered on up.
func dialAngle(v int) float64 {
	return (float64(v)/servo.MaxPosition - 0.5) * dialSweep
}

func (m *Model) drawDial() {
	c := m.canvas
	c.Clear()

	cx, cy := dialWidth, dialHeight*2
	r := float64(min(dialWidth, dialHeight*2) - 2)

	c.DrawArc(cx, cy, r, -dialSweep/2, dialSweep/2)
	minSeek, maxSeek := int(m.regs.Word(registers.MinSeek)), int(m.regs.Word(registers.MaxSeek))
	if m.reversed() {
		minSeek, maxSeek = servo.MaxPosition-maxSeek, servo.MaxPosition-minSeek
	}
	c.DrawSpoke(cx, cy, r-3, r, dialAngle(minSeek))
	c.DrawSpoke(cx, cy, r-3, r, dialAngle(maxSeek))

	c.DrawSpoke(cx, cy, r-6, r-1, dialAngle(m.physicalSeek()))
	c.DrawSpoke(cx, cy, 0, r-2, dialAngle(int(m.last.Position)))
}

// Run shows exp in the terminal until the user quits.
func Run(exp *experiment.Experiment, title string) error {
	m, err := NewModel(exp, title)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
