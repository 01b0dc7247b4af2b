package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the color scheme for the annotation screen.
type Theme struct {
	Title   lipgloss.Color
	Section lipgloss.Color
	Active  lipgloss.Color
	Tagged  lipgloss.Color
	Dirty   lipgloss.Color
	Error   lipgloss.Color
	Hint    lipgloss.Color
}

// defaultTheme provides default colors.
var defaultTheme = Theme{
	Title:   lipgloss.Color("#5FAFD7"), // light blue
	Section: lipgloss.Color("#AFAFD7"), // muted violet
	Active:  lipgloss.Color("#FFD700"), // gold
	Tagged:  lipgloss.Color("#00D787"), // green
	Dirty:   lipgloss.Color("#FFAF00"), // amber
	Error:   lipgloss.Color("#FF005F"), // red
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) sectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Section).Bold(true)
}

func (t Theme) activeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Active)
}

func (t Theme) taggedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Tagged).Bold(true)
}

func (t Theme) dirtyStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Dirty).Bold(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}
