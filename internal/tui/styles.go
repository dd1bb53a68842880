package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#877EFF")
	muted   = lipgloss.Color("#7878A3")
	danger  = lipgloss.Color("#FF5A5A")
	light   = lipgloss.Color("#EFEFEF")
)

// Styles holds the styled components of every screen
type Styles struct {
	Title    lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Creator  lipgloss.Style
	Muted    lipgloss.Style
	Tag      lipgloss.Style
	Liked    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Spinner  lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(light).MarginBottom(1),
		Card:     card,
		Selected: card.BorderForeground(primary),
		Creator:  lipgloss.NewStyle().Bold(true).Foreground(light),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Tag:      lipgloss.NewStyle().Foreground(primary),
		Liked:    lipgloss.NewStyle().Foreground(danger),
		Status:   lipgloss.NewStyle().Foreground(muted).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(danger),
		Spinner:  lipgloss.NewStyle().Foreground(primary),
		Help:     lipgloss.NewStyle().Foreground(muted),
	}
}
