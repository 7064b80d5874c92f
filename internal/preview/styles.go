package preview

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title       lipgloss.Style
	TabActive   lipgloss.Style
	TabIdle     lipgloss.Style
	LeftBubble  lipgloss.Style
	RightBubble lipgloss.Style
	Author      lipgloss.Style
	Code        lipgloss.Style
	Footnote    lipgloss.Style
	Annotation  lipgloss.Style
	Transition  lipgloss.Style
	UpNext      lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#63B3ED")),
		TabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#63B3ED")).Underline(true),
		TabIdle:     lipgloss.NewStyle().Faint(true),
		LeftBubble:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4A5568")).Padding(0, 1),
		RightBubble: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#2B6CB0")).Padding(0, 1),
		Author:      lipgloss.NewStyle().Faint(true),
		Code:        lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Background(lipgloss.Color("#171923")).Padding(0, 1),
		Footnote:    lipgloss.NewStyle().Faint(true).Italic(true),
		Annotation:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("#63B3ED")).PaddingLeft(1).Italic(true),
		Transition:  lipgloss.NewStyle().Faint(true).AlignHorizontal(lipgloss.Center),
		UpNext:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F2D16B")),
		Status:      lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true),
	}
}
