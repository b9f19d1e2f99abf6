package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"portfolio-chat/backend/internal/conversation"
	"portfolio-chat/backend/internal/model"
)

const (
	quoteLength    = 80
	streamingGlyph = "▌"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	pinnedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	contextStyle   = lipgloss.NewStyle().Italic(true)
	statusStyle    = lipgloss.NewStyle().Faint(true)
	cardStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("portfolio chat"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

// NewMarkdownRenderer builds the renderer used for finished replies. Build it
// before the program takes over the terminal: auto style probes the
// background colour.
func NewMarkdownRenderer(wrap int) (*glamour.TermRenderer, error) {
	return glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
}

// renderMarkdown falls back to the raw text when md is nil or fails.
func renderMarkdown(md *glamour.TermRenderer, text string) string {
	if md == nil || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// renderCards draws the card collection, numbered as the commands expect.
// Text still streaming is shown raw, so half-written markup never flickers.
func renderCards(cards []conversation.Card, width int, md *glamour.TermRenderer) string {
	if len(cards) == 0 {
		return renderSuggestions()
	}

	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	blocks := make([]string, 0, len(cards))
	for i, c := range cards {
		blocks = append(blocks, cardStyle.Width(inner).Render(renderCard(i+1, c, md)))
	}
	return strings.Join(blocks, "\n")
}

func renderSuggestions() string {
	var b strings.Builder
	b.WriteString("Try one of these (/suggest <n>):\n")
	for i, s := range Suggestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
	}
	return b.String()
}

func renderCard(n int, c conversation.Card, md *glamour.TermRenderer) string {
	var b strings.Builder

	header := fmt.Sprintf("[%d] Chat", n)
	if c.Kind == conversation.KindAnnotation {
		header = fmt.Sprintf("[%d] “%s”", n, quote(c.SubjectText, quoteLength))
	}
	b.WriteString(cardTitleStyle.Render(header))
	if c.IsPinned {
		b.WriteString(" " + pinnedStyle.Render("pinned"))
	}
	b.WriteString("\n")

	if c.Kind == conversation.KindAnnotation {
		if c.IsStreaming && !c.Answering() {
			b.WriteString(contextStyle.Render(c.Context + streamingGlyph))
		} else {
			b.WriteString(renderMarkdown(md, c.Context))
		}
		b.WriteString("\n")
	}

	for i, msg := range c.Messages {
		live := c.Answering() && i == len(c.Messages)-1
		b.WriteString(renderMessage(msg, live, md))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderMessage(msg model.Message, live bool, md *glamour.TermRenderer) string {
	if msg.Role == model.RoleUser {
		return userStyle.Render("you: " + msg.Content)
	}
	if live {
		return msg.Content + streamingGlyph
	}
	return renderMarkdown(md, msg.Content)
}
