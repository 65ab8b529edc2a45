package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/roster/internal/shared"
)

var (
	darkPalette  = NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262")
	lightPalette = NewPalette("#5500DC", "#027A4B", "#D70000", "#B35900", "#8A8A8A")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	accent lipgloss.Color
	search lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).Padding(0, 1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		accent: lipgloss.Color(t),
		search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(h)).
			Padding(0, 1),
	}
}

// PaletteFor picks the palette for a theme name; "auto" and "" follow the terminal background.
func PaletteFor(theme string) *Palette {
	switch theme {
	case shared.ThemeLight:
		return lightPalette
	case shared.ThemeDark:
		return darkPalette
	default:
		if lipgloss.HasDarkBackground() {
			return darkPalette
		}
		return lightPalette
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
