package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ecrypto/chatclient/internal/models"
)

const (
	userIcon = "⬤"
	aiIcon   = "✦"
)

// BubbleStyles holds the label and frame styles for both senders
type BubbleStyles struct {
	UserLabel  lipgloss.Style
	UserBubble lipgloss.Style
	AILabel    lipgloss.Style
	AIBubble   lipgloss.Style
}

// NewBubbleStyles builds bubble styles from a theme. User bubbles are indented
// from the left and assistant bubbles from the right.
func NewBubbleStyles(theme TUITheme) BubbleStyles {
	return BubbleStyles{
		UserLabel: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			MarginLeft(4),
		UserBubble: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Secondary).
			Foreground(theme.Text).
			Padding(0, 1).
			MarginLeft(4),
		AILabel: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		AIBubble: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Foreground(theme.Text).
			Padding(0, 1).
			MarginRight(4),
	}
}

// Bubble renders a labeled message bubble of the given outer width.
// Assistant text is rendered as markdown.
func (s BubbleStyles) Bubble(msg models.Message, width int, opts Options) string {
	if width < 10 {
		width = 10
	}

	if msg.IsUser() {
		label := s.UserLabel.Render(userIcon + " " + msg.Label())
		return label + "\n" + s.UserBubble.Width(width).Render(msg.Text)
	}

	label := s.AILabel.Render(aiIcon + " " + msg.Label())
	body := Reply(msg.Text, opts.WithWidth(width-4))
	return label + "\n" + s.AIBubble.Width(width).Render(body)
}

// Bubble renders msg with the current TUI theme.
func Bubble(msg models.Message, width int, opts Options) string {
	return NewBubbleStyles(GetTUITheme()).Bubble(msg, width, opts)
}
