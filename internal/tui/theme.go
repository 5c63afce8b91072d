package tui

import (
	"os"
	"strings"

	"taskbar-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorSelectedFg lipgloss.TerminalColor = ac("235", "255")
	colorAccent     lipgloss.TerminalColor = ac("27", "62")
	colorAccentFg   lipgloss.TerminalColor = ac("255", "235")
	colorDone       lipgloss.TerminalColor = ac("245", "241")
	colorGrabbedBg  lipgloss.TerminalColor = ac("153", "24")
	colorFlashBg    lipgloss.TerminalColor = ac("229", "58")
	colorDanger     lipgloss.TerminalColor = ac("160", "203")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleBadge() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorAccentFg).
		Background(colorAccent).
		Bold(true)
}

// applyColorProfilePreference honors NO_COLOR and otherwise follows termenv's detection.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.ColorProfile())
}

// applyThemeMode picks the adaptive color variant. "system" asks the terminal.
func applyThemeMode(mode model.ThemeMode) {
	switch mode {
	case model.ThemeLight:
		lipgloss.SetHasDarkBackground(false)
	case model.ThemeDark:
		lipgloss.SetHasDarkBackground(true)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}
