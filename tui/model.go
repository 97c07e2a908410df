// Package tui is a terminal stand-in for the hub: it draws the simulated
// matrix and status light and turns key presses into button taps.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dasdy/pixmenu/db"
	"github.com/dasdy/pixmenu/device/sim"
	"github.com/dasdy/pixmenu/model"
	"github.com/dasdy/pixmenu/preview"
)

const (
	refreshInterval = 30 * time.Millisecond
	recentCalls     = 6
)

// TapPolls is how many polls a key press keeps a button reported as pressed.
var TapPolls = 5

// tickMsg refreshes the view from the hub.
type tickMsg time.Time

// ResultMsg tells the model that the menu loop has finished.
type ResultMsg struct {
	Err error
}

func doTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type Model struct {
	hub    *sim.Hub
	usage  *db.UsageCounter
	cancel context.CancelFunc
	styles preview.Styles
	muted  lipgloss.Style

	screen  sim.Screen
	light   model.Color
	lightOn bool
	calls   []string
	lastKey string

	done     bool
	quitting bool
	err      error
}

// New builds the model. usage may be nil. cancel stops the menu loop when the
// user quits.
func New(hub *sim.Hub, usage *db.UsageCounter, cancel context.CancelFunc) Model {
	return Model{
		hub:    hub,
		usage:  usage,
		cancel: cancel,
		styles: preview.DefaultStyles(),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	}
}

func (m Model) Init() tea.Cmd {
	return doTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()

		return m, doTick()

	case ResultMsg:
		m.refresh()
		m.done = true
		m.err = msg.Err

		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		if m.cancel != nil {
			m.cancel()
		}

		return m, tea.Quit
	case "left", "h":
		m.tap(model.ButtonLeft, msg.String())
	case "right", "l":
		m.tap(model.ButtonRight, msg.String())
	case "enter", " ":
		m.tap(model.ButtonCenter, msg.String())
	case "esc", "x", "b":
		m.tap(model.ButtonBluetooth, msg.String())
	}

	return m, nil
}

func (m *Model) tap(b model.Button, key string) {
	m.hub.Tap(b, TapPolls)
	m.lastKey = fmt.Sprintf("%s → %s", key, b)
}

func (m *Model) refresh() {
	m.screen = m.hub.Screen()
	m.light, m.lightOn = m.hub.LightState()

	calls := m.hub.Calls()
	m.calls = calls[max(0, len(calls)-recentCalls):]
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	matrix := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.Screen(m.screen),
		m.styles.Light(m.light, m.lightOn),
	)

	side := []string{m.muted.Render("recent hub calls")}
	for _, c := range m.calls {
		side = append(side, "  "+c)
	}

	if m.usage != nil {
		side = append(side, "", m.muted.Render("item  visits  selected  failed"))
		for _, u := range m.usage.Gather() {
			side = append(side, fmt.Sprintf("%4d  %6d  %8d  %6d", u.Index+1, u.Visits, u.Selected, u.Failed))
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, matrix, "   ", strings.Join(side, "\n"))

	footer := m.muted.Render("←/h prev  →/l next  enter select  esc/x exit  q quit")
	if m.lastKey != "" {
		footer += "   " + m.lastKey
	}

	if m.done {
		status := "menu finished"
		if m.err != nil {
			status = "menu stopped: " + m.err.Error()
		}

		footer = m.muted.Render(status)
	}

	return body + "\n\n" + footer + "\n"
}

// Done reports whether the menu loop finished, and with which error.
func (m Model) Done() (bool, error) {
	return m.done, m.err
}
