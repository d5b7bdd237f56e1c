// Package tui lets a person play the placement game in a terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/ofcgym/internal/env"
	"github.com/lox/ofcgym/internal/render"
)

// Model is the Bubble Tea model for interactive play.
type Model struct {
	env    *env.Env
	theme  render.Theme
	logger *log.Logger
	keys   keyMap
	help   help.Model

	status   string
	err      error
	quitting bool

	// Session totals
	episodes int
	wins     int
	total    float64
}

// New creates a model around an environment that has been reset.
func New(e *env.Env, theme render.Theme, logger *log.Logger) *Model {
	return &Model{
		env:    e,
		theme:  theme,
		logger: logger.WithPrefix("tui"),
		keys:   defaultKeyMap(),
		help:   help.New(),
		status: "Place the card: front or back.",
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Front):
			m.step(env.PlaceFront)
		case key.Matches(msg, m.keys.Back):
			m.step(env.PlaceBack)
		}
	}
	return m, nil
}

func (m *Model) reset() {
	if _, err := m.env.Reset(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "New episode."
}

func (m *Model) step(action env.Action) {
	if m.env.Done() {
		m.status = InfoStyle.Render("Episode over. Press n for a new one.")
		return
	}
	res, err := m.env.Step(action)
	if err != nil {
		m.err = err
		m.logger.Error("step failed", "error", err)
		return
	}
	m.err = nil

	switch {
	case res.Done:
		m.episodes++
		m.total += res.Reward
		if res.Reward > 0 {
			m.wins++
		}
		m.status = m.theme.Outcome(res.Reward)
	case !res.Info.Placed:
		m.status = WarningStyle.Render(fmt.Sprintf("The %s row is full; card discarded.", res.Info.Row))
	default:
		m.status = fmt.Sprintf("Placed in %s slot %d.", res.Info.Row, res.Info.Slot+1)
	}
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("ofcgym"))
	sb.WriteString("\n")
	sb.WriteString(BoardStyle.Render(m.theme.Board(m.env.Board())))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
	} else {
		sb.WriteString(m.status)
	}
	sb.WriteString("\n")

	score := fmt.Sprintf("Episodes %d  Wins %d  Total %+g", m.episodes, m.wins, m.total)
	sb.WriteString(ScoreStyle.Render(score))
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(e *env.Env, theme render.Theme, logger *log.Logger, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(e, theme, logger), opts...).Run()
	return err
}
