// Package tui is a full screen terminal front end for the debug menu.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"exposure-debugpanel/internal/adapter/secondary/bus"
	"exposure-debugpanel/internal/debugmenu"
	"exposure-debugpanel/internal/domain"
)

// Panel is what the TUI needs from the debug menu.
type Panel interface {
	Labels() []string
	Select(index int) (debugmenu.Item, error)
}

type alertMsg domain.Alert

type screenMsg bus.ScreenEvent

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	alertBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
	screenBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
)

// Model is the bubbletea model of the menu.
type Model struct {
	panel   Panel
	labels  []string
	cursor  int
	alerts  []domain.Alert
	screens []domain.Screen
	status  string
	err     error
}

// NewModel creates the model.
func NewModel(panel Panel) Model {
	return Model{panel: panel, labels: panel.Labels()}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case alertMsg:
		m.alerts = append(m.alerts, domain.Alert(msg))
		m.labels = m.panel.Labels()
		return m, nil
	case screenMsg:
		m.applyScreen(bus.ScreenEvent(msg))
		m.labels = m.panel.Labels()
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *Model) applyScreen(ev bus.ScreenEvent) {
	var kept []domain.Screen
	for _, s := range m.screens {
		if s.ID != ev.Screen.ID {
			kept = append(kept, s)
		}
	}
	m.screens = kept
	if ev.Visible {
		m.screens = append(m.screens, ev.Screen)
	}
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	// Overlays take the keyboard first: alerts, then screens.
	if len(m.alerts) > 0 {
		switch msg.String() {
		case "enter", "esc", " ":
			m.alerts = m.alerts[1:]
		}
		return m, nil
	}
	if n := len(m.screens); n > 0 {
		top := m.screens[n-1]
		if top.ID != domain.ScreenLoading && msg.String() == "esc" {
			m.screens = m.screens[:n-1]
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.labels)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.labels) == 0 {
			return m, nil
		}
		item, err := m.panel.Select(m.cursor)
		if err != nil {
			m.err = err
			m.status = ""
		} else {
			m.err = nil
			m.status = "dispatched " + item.Label
		}
		m.labels = m.panel.Labels()
		if m.cursor >= len(m.labels) {
			m.cursor = len(m.labels) - 1
		}
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.alerts) > 0 {
		a := m.alerts[0]
		body := titleStyle.Render(a.Title) + "\n\n" + a.Message + "\n\n" +
			statusStyle.Render("["+strings.Join(a.Actions, "] [")+"]  enter to dismiss")
		return alertBoxStyle.Render(body) + "\n"
	}
	if n := len(m.screens); n > 0 {
		s := m.screens[n-1]
		hint := "esc to close"
		if s.ID == domain.ScreenLoading {
			hint = "please wait"
		}
		return screenBoxStyle.Render(titleStyle.Render(string(s.ID))+"\n\n"+s.Message) + "\n" + statusStyle.Render(hint) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Debug Menu"))
	b.WriteString("\n\n")
	for i, l := range m.labels {
		line := fmt.Sprintf("%2d. %s", i+1, l)
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n" + statusStyle.Render("↑/↓ move • enter select • q quit") + "\n")
	return b.String()
}

// ExitHook runs a function right before a workflow ends the process.
type ExitHook interface {
	SetBeforeExit(fn func())
}

type terminalReleaser interface {
	ReleaseTerminal() error
}

// restoreOnExit makes hook give the terminal back while p runs. The
// returned func removes the hook again.
func restoreOnExit(hook ExitHook, p terminalReleaser) func() {
	if hook == nil {
		return func() {}
	}
	hook.SetBeforeExit(func() { _ = p.ReleaseTerminal() })
	return func() { hook.SetBeforeExit(nil) }
}

// Run shows the TUI until the user quits or ctx is done.
func Run(ctx context.Context, panel Panel, b *bus.Bus, hook ExitHook) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(panel), tea.WithAltScreen(), tea.WithContext(ctx))
	defer restoreOnExit(hook, p)()
	if err := bus.Subscribe(ctx, b, bus.TopicAlerts, func(a domain.Alert) { p.Send(alertMsg(a)) }); err != nil {
		return err
	}
	if err := bus.Subscribe(ctx, b, bus.TopicScreens, func(ev bus.ScreenEvent) { p.Send(screenMsg(ev)) }); err != nil {
		return err
	}
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
