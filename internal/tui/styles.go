package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/glanzwerk/crm/internal/display"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("25"))

	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("237"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(22)
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	focusLabel    = labelStyle.Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
	alertStyle = boxStyle.BorderForeground(lipgloss.Color("196"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(34)
)

var badgeColors = map[display.Color]lipgloss.Color{
	display.ColorGray:   lipgloss.Color("245"),
	display.ColorBlue:   lipgloss.Color("33"),
	display.ColorGreen:  lipgloss.Color("42"),
	display.ColorYellow: lipgloss.Color("220"),
	display.ColorOrange: lipgloss.Color("208"),
	display.ColorRed:    lipgloss.Color("196"),
}

// renderBadge draws a badge as colored text; outline badges are dimmed
func renderBadge(b display.Badge) string {
	color, ok := badgeColors[b.Color]
	if !ok {
		color = badgeColors[display.ColorGray]
	}
	style := lipgloss.NewStyle().Foreground(color)
	switch b.Variant {
	case display.VariantDefault, display.VariantDestructive:
		style = style.Bold(true)
	case display.VariantOutline:
		style = style.Faint(true)
	}
	return style.Render(b.Label)
}

// cell pads or cuts s to exactly width columns
func cell(s string, width int) string {
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
