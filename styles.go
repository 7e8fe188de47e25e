package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app, topBar, topTitle, topStatus lipgloss.Style
	chanTag, sender, line            lipgloss.Style
	reference                        lipgloss.Style
	inputBar, inputPrompt            lipgloss.Style
	statusBar, statusSeg, statusHint lipgloss.Style
	popup, popupTitle, popupHint     lipgloss.Style
	toast                            lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()

	return styles{
		app:         base,
		topBar:      base.Padding(0, 1),
		topTitle:    base.Copy().Bold(true),
		topStatus:   base.Copy().Faint(true),
		chanTag:     base.Copy().Faint(true),
		sender:      base.Copy().Bold(true),
		line:        base,
		reference:   base.Copy().Underline(true).Foreground(lipgloss.Color("#FFD100")),
		inputBar:    base.BorderStyle(lipgloss.NormalBorder()).BorderTop(true),
		inputPrompt: base.Copy().Bold(true),
		statusBar:   base.Padding(0, 1),
		statusSeg:   base.Padding(0, 1).MarginRight(1),
		statusHint:  base.Copy().Faint(true),
		popup:       base.Border(lipgloss.RoundedBorder()).Padding(1, 2),
		popupTitle:  base.Copy().Bold(true),
		popupHint:   base.Copy().Faint(true),
		toast:       base.Copy().Bold(true).Padding(0, 1),
	}
}

func channelColor(tag string) lipgloss.Color {
	switch tag {
	case "party", "party_leader":
		return lipgloss.Color("#AAAAFF")
	case "raid", "raid_leader":
		return lipgloss.Color("#FF7D01")
	case "guild", "officer":
		return lipgloss.Color("#40FF40")
	case "whisper":
		return lipgloss.Color("#FF80FF")
	case "yell":
		return lipgloss.Color("#FF4040")
	default:
		return lipgloss.Color("#FFFFFF")
	}
}
