package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/rmacedo/rotinactl/internal/rotina"
	"github.com/rmacedo/rotinactl/internal/term"
)

func pressKey(m Model, key string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(Model)
}

func TestControlKeysDriveTheController(t *testing.T) {
	ctrl := rotina.NewController()
	assert.NoError(t, ctrl.Begin("consulta"))
	defer ctrl.Finish()

	m := NewModel("caixa1", term.NewMemory(26, 80), ctrl)

	m = pressKey(m, "p")
	assert.Equal(t, rotina.Paused, ctrl.Status())

	m = pressKey(m, "r")
	assert.Equal(t, rotina.Running, ctrl.Status())

	m = pressKey(m, "s")
	assert.Equal(t, rotina.Stopped, ctrl.Status())
}

func TestViewOnlyMonitor(t *testing.T) {
	m := NewModel("caixa1", term.NewMemory(26, 80), nil)

	// control keys are inert without a governing controller
	m = pressKey(m, "p")
	m = pressKey(m, "s")

	view := m.View()
	assert.Contains(t, view, "view-only")
	assert.NotContains(t, view, "p pause")
}
