package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exposure-debugpanel/internal/adapter/secondary/bus"
	"exposure-debugpanel/internal/debugmenu"
	"exposure-debugpanel/internal/domain"
)

type fakePanel struct {
	labels   []string
	selected []int
	err      error
}

func (p *fakePanel) Labels() []string { return p.labels }

func (p *fakePanel) Select(index int) (debugmenu.Item, error) {
	if p.err != nil {
		return debugmenu.Item{}, p.err
	}
	p.selected = append(p.selected, index)
	return debugmenu.Item{Label: p.labels[index]}, nil
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestNavigateAndSelect(t *testing.T) {
	panel := &fakePanel{labels: []string{"one", "two", "three"}}
	var m tea.Model = NewModel(panel)

	m = press(m, "down")
	m = press(m, "j")
	m = press(m, "j")
	m = press(m, "enter")

	require.Equal(t, []int{2}, panel.selected)
	assert.Contains(t, m.View(), "dispatched three")
}

func TestSelectErrorIsShown(t *testing.T) {
	panel := &fakePanel{labels: []string{"one"}, err: errors.New("store is stopped")}
	m := press(NewModel(panel), "enter")
	assert.Contains(t, m.View(), "store is stopped")
}

func TestAlertOverlayBlocksMenu(t *testing.T) {
	panel := &fakePanel{labels: []string{"one", "two"}}
	var m tea.Model = NewModel(panel)

	m, _ = m.Update(alertMsg(domain.Alert{Title: "Result", Message: "Last detection: never.", Actions: []string{"Ok"}}))
	assert.Contains(t, m.View(), "Last detection: never.")

	m = press(m, "enter")
	assert.Empty(t, panel.selected, "enter dismisses the alert")
	assert.NotContains(t, m.View(), "Last detection")

	m = press(m, "enter")
	assert.Equal(t, []int{0}, panel.selected)
}

func TestLoadingScreenIsModal(t *testing.T) {
	panel := &fakePanel{labels: []string{"one"}}
	var m tea.Model = NewModel(panel)

	m, _ = m.Update(screenMsg(bus.ScreenEvent{Visible: true, Screen: domain.Screen{ID: domain.ScreenLoading, Message: "Loading"}}))
	m = press(m, "esc")
	assert.Contains(t, m.View(), "please wait")

	m, _ = m.Update(screenMsg(bus.ScreenEvent{Screen: domain.Screen{ID: domain.ScreenLoading}}))
	assert.Contains(t, m.View(), "Debug Menu")
}

func TestStateExplorerClosesWithEsc(t *testing.T) {
	var m tea.Model = NewModel(&fakePanel{labels: []string{"one"}})

	m, _ = m.Update(screenMsg(bus.ScreenEvent{Visible: true, Screen: domain.Screen{ID: domain.ScreenStateExplorer, Message: "{}"}}))
	assert.Contains(t, m.View(), "esc to close")
	m = press(m, "esc")
	assert.Contains(t, m.View(), "Debug Menu")
}

func TestQuit(t *testing.T) {
	_, cmd := NewModel(&fakePanel{}).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

type fakeHook struct{ fn func() }

func (h *fakeHook) SetBeforeExit(fn func()) { h.fn = fn }

type fakeReleaser struct{ released int }

func (r *fakeReleaser) ReleaseTerminal() error {
	r.released++
	return nil
}

func TestRestoreOnExitReleasesTerminal(t *testing.T) {
	hook := &fakeHook{}
	p := &fakeReleaser{}

	remove := restoreOnExit(hook, p)
	require.NotNil(t, hook.fn)
	hook.fn()
	assert.Equal(t, 1, p.released)

	remove()
	assert.Nil(t, hook.fn)
	assert.NotPanics(t, func() { restoreOnExit(nil, p)() })
}
