package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.showHelp {
		return renderMarkdown(helpMarkdown(), m.width)
	}

	var rows []string
	rows = append(rows, m.viewHeader())

	if m.view == viewSettings {
		rows = append(rows, "", m.viewSettings())
		rows = append(rows, "", styleMuted().Render("↑/↓ select · space change · tab back"))
		return strings.Join(rows, "\n")
	}

	rows = append(rows, m.search.View())
	if len(m.list.Items()) == 0 {
		empty := "No tasks yet. Press a to add one."
		if m.filter != "" {
			empty = "No tasks match “" + m.filter + "”."
		}
		rows = append(rows, styleMuted().Render(empty))
	} else {
		rows = append(rows, m.list.View())
	}
	rows = append(rows, m.add.View())

	if b := m.viewBanner(); b != "" {
		rows = append(rows, b)
	}
	rows = append(rows, m.viewFooter())
	return strings.Join(rows, "\n")
}

func (m appModel) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Tasks")
	if m.view == viewSettings {
		title = lipgloss.NewStyle().Bold(true).Render("Settings")
	}
	if m.prefs().ShowMenuBarBadge && m.remaining > 0 {
		title += " " + styleBadge().Render(fmt.Sprint(m.remaining))
	}
	return title
}

func (m appModel) viewBanner() string {
	if m.confirmDeleteAll {
		return lipgloss.NewStyle().Foreground(colorDanger).Bold(true).Render("Delete all tasks? (y/n)")
	}
	if m.undoVisible {
		// An expired window falls through; the next undo tick hides the banner for good.
		if t, deadline, ok := m.ctrl.PendingUndo(); ok {
			left := deadline.Sub(m.clock.Now()).Round(time.Second)
			if left < time.Second {
				left = time.Second
			}
			msg := fmt.Sprintf("Deleted “%s” · u to undo (%ds)", t.Title, int(left/time.Second))
			return xansi.Truncate(msg, m.width, "…")
		}
	}
	switch {
	case m.confetti:
		return renderConfetti(m.width, m.confettiSeq)
	case m.status != "":
		return styleMuted().Render(m.status)
	}
	return ""
}

func (m appModel) viewFooter() string {
	if m.marks.grabbedID != "" {
		return styleMuted().Render("move to target · m/enter drop · esc cancel")
	}
	return styleMuted().Render(fmt.Sprintf("%d of %d left · ? help · tab settings", m.remaining, m.total))
}

func (m appModel) viewSettings() string {
	p := m.prefs()
	labelW := 0
	for _, r := range settingRows {
		if w := xansi.StringWidth(r.label); w > labelW {
			labelW = w
		}
	}
	lines := make([]string, 0, len(settingRows))
	for i, r := range settingRows {
		line := fmt.Sprintf("%-*s  %s", labelW, r.label, r.value(p))
		if i == m.settingsIdx {
			line = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true).Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
