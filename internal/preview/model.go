// Package preview plays a demo in the terminal so authors can check pacing
// without opening a browser. It drives the same playback controller the
// generated document embeds, rendered with bubbletea.
package preview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"convoplay/internal/demo"
	"convoplay/internal/playback"
)

const animInterval = time.Second / 30

type animMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animInterval, func(t time.Time) tea.Msg { return animMsg(t) })
}

type Model struct {
	demo *demo.Demo
	ctrl *playback.Controller
	scr  *screen
	disp *dispatcher

	styles   styles
	bar      progress.Model
	spring   harmonica.Spring
	barPos   float64
	barVel   float64
	speedIdx int
	width    int
	height   int
	quitting bool
}

func New(d *demo.Demo, opts playback.Options) Model {
	scr := &screen{}
	disp := &dispatcher{}
	m := Model{
		demo:   d,
		scr:    scr,
		disp:   disp,
		styles: defaultStyles(),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spring: harmonica.NewSpring(harmonica.FPS(30), 12.0, 1.0),
		width:  80,
		height: 24,
	}
	m.ctrl = playback.NewController(d, scr, disp, opts)
	m.speedIdx = nearestSpeed(d.Meta.Speeds, m.ctrl.Speed())
	return m
}

func nearestSpeed(speeds []float64, speed float64) int {
	best := 0
	for i, s := range speeds {
		if diff(s, speed) < diff(speeds[best], speed) {
			best = i
		}
	}
	return best
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func (m Model) Init() tea.Cmd { return animTick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = min(msg.Width-4, 60)
		return m, nil

	case timerMsg:
		msg.fn()
		return m, nil

	case animMsg:
		target := m.scr.fraction
		if !m.scr.active {
			target = 0
		}
		m.barPos, m.barVel = m.spring.Update(m.barPos, m.barVel, target)
		return m, animTick()

	case tea.FocusMsg:
		m.ctrl.SetDocumentVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.ctrl.SetDocumentVisible(false)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.ctrl.Toggle()
		case "r":
			m.ctrl.Reset()
		case "tab":
			next := (m.scenarioIndex() + 1) % len(m.demo.Scenarios)
			m.ctrl.SwitchScenario(m.demo.Scenarios[next].ID)
		case "shift+tab":
			n := len(m.demo.Scenarios)
			prev := (m.scenarioIndex() + n - 1) % n
			m.ctrl.SwitchScenario(m.demo.Scenarios[prev].ID)
		case "+", "=":
			m.cycleSpeed(1)
		case "-":
			m.cycleSpeed(-1)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) scenarioIndex() int {
	return m.demo.ScenarioIndex(m.ctrl.ScenarioID())
}

func (m *Model) cycleSpeed(dir int) {
	speeds := m.demo.Meta.Speeds
	idx := m.speedIdx + dir
	if idx < 0 || idx >= len(speeds) {
		return
	}
	m.speedIdx = idx
	m.ctrl.SetSpeed(speeds[idx])
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.demo.Meta.Title))
	b.WriteString("\n")
	if len(m.demo.Scenarios) > 1 {
		b.WriteString(m.viewTabs())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.scr.faded {
		b.WriteString(m.styles.Transition.Width(m.width).Render("..."))
		b.WriteString("\n")
	} else {
		scenario := m.ctrl.Scenario()
		for _, step := range m.scr.revealed {
			b.WriteString(m.viewStep(scenario, step))
			b.WriteString("\n")
		}
	}

	if m.scr.upNext != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.UpNext.Render("Up next: " + m.scr.upNext))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("space play/pause · r reset · tab scenario · +/- speed · q quit"))
	return b.String()
}

func (m Model) viewTabs() string {
	current := m.ctrl.ScenarioID()
	parts := make([]string, 0, len(m.demo.Scenarios))
	for _, sc := range m.demo.Scenarios {
		if sc.ID == current {
			parts = append(parts, m.styles.TabActive.Render(sc.Title))
			continue
		}
		parts = append(parts, m.styles.TabIdle.Render(sc.Title))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewStep(sc demo.Scenario, step demo.Step) string {
	contentWidth := m.width * 2 / 3
	if contentWidth < 20 {
		contentWidth = 20
	}

	switch step.Kind {
	case demo.StepMessage:
		p, _ := sc.ParticipantByID(step.From)
		body := wordwrap.String(step.Content, contentWidth-4)
		if step.CodeBlock != "" {
			body += "\n" + m.styles.Code.Render(step.CodeBlock)
		}
		style := m.styles.LeftBubble
		align := lipgloss.Left
		if p.Role == demo.RoleRight {
			style = m.styles.RightBubble
			align = lipgloss.Right
		}
		block := m.styles.Author.Render(p.Label) + "\n" + style.MaxWidth(contentWidth).Render(body)
		if step.Footnote != "" {
			block += "\n" + m.styles.Footnote.Render(wordwrap.String(step.Footnote, contentWidth))
		}
		return lipgloss.PlaceHorizontal(m.width, align, block)
	case demo.StepAnnotation:
		return m.styles.Annotation.Render(wordwrap.String(step.Content, contentWidth))
	case demo.StepTransition:
		return m.styles.Transition.Width(m.width).Render("· " + step.Content + " ·")
	}
	return ""
}

func (m Model) viewStatus() string {
	speed := m.demo.Meta.Speeds[m.speedIdx]
	status := fmt.Sprintf("[%s] %gx", m.ctrl.State(), speed)
	line := m.styles.Status.Render(status)
	if m.scr.active || m.barPos > 0.01 {
		line += "  " + m.bar.ViewAs(clamp01(m.barPos))
	}
	return line
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Run plays the demo until the user quits.
func Run(d *demo.Demo, opts playback.Options) error {
	m := New(d, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	m.disp.attach(p.Send)
	_, err := p.Run()
	return err
}
