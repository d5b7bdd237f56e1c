package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/render"
)

func newTestModel(t *testing.T) (*Model, *env.Env) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}) // Quiet logger for tests
	e, err := env.New(env.WithSeed(42), env.WithLogger(logger))
	require.NoError(t, err)
	theme := render.NewTheme(lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.Ascii)))
	return New(e, theme, logger), e
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
	return cmd
}

func TestPlayEpisode(t *testing.T) {
	m, e := newTestModel(t)
	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "Step 0/10")

	press(m, "f", "f", "f", "f", "f")
	assert.Equal(t, board.RowSize, e.Board().Filled(board.Front))
	assert.Contains(t, m.status, "front slot 5")

	press(m, "f")
	assert.Equal(t, uint8(board.RowSize), e.Board().Steps, "full row ignored")
	assert.Contains(t, m.status, "front row is full")

	press(m, "b", "b", "b", "b", "b")
	require.True(t, e.Done())
	assert.Equal(t, 1, m.episodes)
	assert.Contains(t, []float64{env.DefaultWinReward, env.DefaultLossReward}, m.total)
	assert.Contains(t, m.View(), "Episodes 1")

	final := e.Board()
	press(m, "b")
	assert.Equal(t, final, e.Board(), "no play after the episode ends")
	assert.Contains(t, m.status, "Episode over")

	press(m, "n")
	assert.False(t, e.Done())
	assert.Zero(t, e.Board().Steps)
	assert.Contains(t, m.View(), "Step 0/10")
}

func TestAlternateKeys(t *testing.T) {
	m, e := newTestModel(t)
	press(m, "0", "1")
	assert.Equal(t, 1, e.Board().Filled(board.Front))
	assert.Equal(t, 1, e.Board().Filled(board.Back))

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, uint8(4), e.Board().Steps)
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	assert.False(t, m.help.ShowAll)
	press(m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "toggle help")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	m, _ = newTestModel(t)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Equal(t, 60, m.help.Width)
}
