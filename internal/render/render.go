// Package render draws boards for terminals.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/ofcgym/internal/board"
	"github.com/lox/ofcgym/internal/evaluator"
)

var suitSymbols = [...]string{"♣", "♦", "♥", "♠"}

// Theme holds the styles used to draw a board.
type Theme struct {
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Empty     lipgloss.Style
	Label     lipgloss.Style
	Info      lipgloss.Style
	Win       lipgloss.Style
	Loss      lipgloss.Style
}

// NewTheme builds the styles for r. Pass a renderer created for the output
// so colour is only emitted where the terminal supports it.
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		RedCard:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		BlackCard: r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		Empty:     r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Label:     r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true).Width(8),
		Info:      r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Win:       r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Loss:      r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
}

// DefaultTheme uses lipgloss's default renderer, which targets stdout.
func DefaultTheme() Theme {
	return NewTheme(lipgloss.DefaultRenderer())
}

// Card renders one card as rank and suit symbol, or "__" for an empty slot.
func (t Theme) Card(id board.CardID) string {
	c, ok := id.Card()
	if !ok {
		return t.Empty.Render("__")
	}
	text := c.String()[:1] + suitSymbols[c.Suit()]
	if c.IsRed() {
		return t.RedCard.Render(text)
	}
	return t.BlackCard.Render(text)
}

// Row renders the five slots of a row separated by spaces.
func (t Theme) Row(b board.Board, r board.Row) string {
	cells := make([]string, board.RowSize)
	for i := range cells {
		cells[i] = t.Card(b.Slot(r, i))
	}
	return strings.Join(cells, " ")
}

// Board renders the step count, both rows and the pending card. Complete
// rows are annotated with their hand class.
func (t Theme) Board(b board.Board) string {
	lines := []string{
		t.Info.Render(fmt.Sprintf("Step %d/%d", b.Steps, board.MaxSteps)),
		t.Label.Render("Front") + t.Row(b, board.Front) + t.rowClass(b, board.Front),
		t.Label.Render("Back") + t.Row(b, board.Back) + t.rowClass(b, board.Back),
	}
	if b.Pending != board.Empty {
		lines = append(lines, t.Label.Render("Next")+t.Card(b.Pending))
	}
	return strings.Join(lines, "\n")
}

func (t Theme) rowClass(b board.Board, r board.Row) string {
	cards, err := b.Hand(r)
	if err != nil {
		return ""
	}
	return "  " + t.Info.Render(evaluator.Describe(cards))
}

// Outcome describes a terminal reward.
func (t Theme) Outcome(reward float64) string {
	if reward > 0 {
		return t.Win.Render(fmt.Sprintf("Front wins (%+g)", reward))
	}
	return t.Loss.Render(fmt.Sprintf("Back holds (%+g)", reward))
}

// Plain renders b without styling, e.g. for logs.
func Plain(b board.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Step %d/%d\n", b.Steps, board.MaxSteps)
	for _, r := range []board.Row{board.Front, board.Back} {
		fmt.Fprintf(&sb, "%-8s", strings.ToUpper(r.String()[:1])+r.String()[1:])
		for i := 0; i < board.RowSize; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.Slot(r, i).String())
		}
		sb.WriteByte('\n')
	}
	if b.Pending != board.Empty {
		fmt.Fprintf(&sb, "%-8s%s\n", "Next", b.Pending)
	}
	return sb.String()
}
