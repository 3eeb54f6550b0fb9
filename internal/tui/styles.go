package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pawgrammers/internal/dashboard/prefs"
)

const tickInterval = 80 * time.Millisecond

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type palette struct {
	fg      lipgloss.Color
	dim     lipgloss.Color
	accent  lipgloss.Color
	border  lipgloss.Color
	success lipgloss.Color
	danger  lipgloss.Color
}

var palettes = map[prefs.Theme]palette{
	prefs.Light: {
		fg:      lipgloss.Color("#1f2430"),
		dim:     lipgloss.Color("#6b7280"),
		accent:  lipgloss.Color("#7c3aed"),
		border:  lipgloss.Color("#c4c8d0"),
		success: lipgloss.Color("#15803d"),
		danger:  lipgloss.Color("#b91c1c"),
	},
	prefs.Dark: {
		fg:      lipgloss.Color("#e4e4ec"),
		dim:     lipgloss.Color("#8890a0"),
		accent:  lipgloss.Color("#a78bfa"),
		border:  lipgloss.Color("#3a3f4b"),
		success: lipgloss.Color("#4ade80"),
		danger:  lipgloss.Color("#f87171"),
	},
}

// styles se arma de nuevo cada vez que cambia el tema.
type styles struct {
	title      lipgloss.Style
	subtitle   lipgloss.Style
	normal     lipgloss.Style
	dim        lipgloss.Style
	card       lipgloss.Style
	cardActive lipgloss.Style
	cardName   lipgloss.Style
	explosion  lipgloss.Style
	modal      lipgloss.Style
	label      lipgloss.Style
	labelFocus lipgloss.Style
	errText    lipgloss.Style
	success    lipgloss.Style
	failure    lipgloss.Style
	helpKey    lipgloss.Style
	helpLabel  lipgloss.Style
}

func newStyles(theme prefs.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[prefs.Light]
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Foreground(p.fg).
		Padding(0, 1).
		Width(cardWidth)

	return styles{
		title:      lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		subtitle:   lipgloss.NewStyle().Foreground(p.dim),
		normal:     lipgloss.NewStyle().Foreground(p.fg),
		dim:        lipgloss.NewStyle().Foreground(p.dim),
		card:       card,
		cardActive: card.BorderForeground(p.accent),
		cardName:   lipgloss.NewStyle().Foreground(p.fg).Bold(true),
		explosion:  lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.accent).
			Padding(1, 2),
		label:      lipgloss.NewStyle().Foreground(p.dim),
		labelFocus: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		errText:    lipgloss.NewStyle().Foreground(p.danger),
		success:    lipgloss.NewStyle().Foreground(p.success).Bold(true),
		failure:    lipgloss.NewStyle().Foreground(p.danger).Bold(true),
		helpKey:    lipgloss.NewStyle().Foreground(p.fg),
		helpLabel:  lipgloss.NewStyle().Foreground(p.dim),
	}
}
