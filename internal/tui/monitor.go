// Package tui provides the live monitor: a terminal UI showing the session's
// screen buffer and rotina state, with pause/resume/stop controls.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmacedo/rotinactl/internal/rotina"
	"github.com/rmacedo/rotinactl/internal/screen"
	"github.com/rmacedo/rotinactl/internal/term"
)

// TickMsg drives the periodic refresh
type TickMsg time.Time

// screenMsg reports a terminal repaint
type screenMsg struct{}

// Model is the monitor's bubbletea model
type Model struct {
	session string
	term    term.Terminal
	reader  *screen.Reader
	ctrl    *rotina.Controller

	viewport viewport.Model
	width    int
	height   int
	quitting bool
	start    time.Time

	updates     <-chan struct{}
	unsubscribe func()
}

// NewModel creates a monitor over a terminal session. ctrl must be the
// controller governing the rotina under observation so the pause, resume and
// stop keys act on the real execution; a nil ctrl yields a view-only monitor
// with the control keys disabled.
func NewModel(session string, t term.Terminal, ctrl *rotina.Controller) Model {
	updates, unsubscribe := t.Updates()
	return Model{
		session:     session,
		term:        t,
		reader:      screen.NewReader(t),
		ctrl:        ctrl,
		viewport:    viewport.New(84, 28),
		start:       time.Now(),
		updates:     updates,
		unsubscribe: unsubscribe,
	}
}

// Init starts the refresh loops
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.tickCmd(),
		m.waitForUpdate(),
	)
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForUpdate blocks on the terminal's update stream
func (m Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.updates; !ok {
			return nil
		}
		return screenMsg{}
	}
}

// Update handles input and refresh messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			m.unsubscribe()
			return m, tea.Quit
		case "p":
			if m.ctrl != nil {
				m.ctrl.RequestPause()
			}
		case "r":
			if m.ctrl != nil {
				m.ctrl.Resume()
			}
		case "s":
			if m.ctrl != nil {
				m.ctrl.RequestStop()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		return m, nil

	case screenMsg:
		m.viewport.SetContent(m.reader.FullScreenText())
		return m, m.waitForUpdate()

	case TickMsg:
		m.viewport.SetContent(m.reader.FullScreenText())
		return m, m.tickCmd()
	}

	return m, nil
}

// View renders the monitor
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	title := titleStyle.Render(fmt.Sprintf("rotinactl monitor - %s", m.session))
	screenBox := screenStyle.Render(m.viewport.View())
	status := m.statusLine()
	helpText := "p pause | r resume | s stop | q quit"
	if m.ctrl == nil {
		helpText = "view-only | q quit"
	}
	help := helpStyle.Render(helpText)

	return lipgloss.JoinVertical(lipgloss.Left, title, screenBox, status, help)
}

// statusLine renders the rotina state and uptime
func (m Model) statusLine() string {
	if m.ctrl == nil {
		return fmt.Sprintf("%s %s", labelStyle.Render("Uptime:"), formatDuration(time.Since(m.start)))
	}
	status := m.ctrl.Status()

	var rendered string
	switch status {
	case rotina.Running:
		rendered = statusRunningStyle.Render(status.String())
	case rotina.Paused:
		rendered = statusPausedStyle.Render(status.String())
	case rotina.Stopped:
		rendered = statusStoppedStyle.Render(status.String())
	default:
		rendered = statusIdleStyle.Render(status.String())
	}

	parts := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Rotina:"), rendered),
	}
	if name := m.ctrl.Name(); name != "" {
		parts = append(parts, fmt.Sprintf("%s %s", labelStyle.Render("Name:"), name))
	}
	parts = append(parts, fmt.Sprintf("%s %s",
		labelStyle.Render("Uptime:"), formatDuration(time.Since(m.start))))

	return strings.Join(parts, "  |  ")
}

// formatDuration renders a duration as h/m/s without fractions
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	sec := (d - min*time.Minute) / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, min, sec)
	}
	if min > 0 {
		return fmt.Sprintf("%dm%02ds", min, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
