package markdown

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	bulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
)

// Render projects a restricted-markdown string onto a styled terminal
// string, wrapped to width when width > 0.
func Render(content string, width int) string {
	var b strings.Builder
	for i, block := range Parse(content) {
		if i > 0 {
			b.WriteString("\n")
		}
		switch block.Kind {
		case KindHeading2, KindHeading3:
			b.WriteString(headingStyle.Render(block.Text))
		case KindBulletItem:
			b.WriteString("  " + bulletStyle.Render("•") + " " + renderSpansOf(block.Text))
		case KindNumberedItem:
			b.WriteString("  " + block.Text)
		default:
			b.WriteString(renderSpans(block.Spans))
		}
	}

	if width > 0 {
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	return b.String()
}

// renderSpansOf applies bold markup inside list item text too.
func renderSpansOf(text string) string {
	return renderSpans(parseSpans(text))
}

func renderSpans(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Bold {
			b.WriteString(boldStyle.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
