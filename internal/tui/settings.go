package tui

import (
	"taskbar-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type settingRow struct {
	label  string
	value  func(p model.Preferences) string
	change func(p *model.Preferences)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var themeCycle = []model.ThemeMode{model.ThemeLight, model.ThemeDark, model.ThemeSystem}

var resetCycle = []model.ResetInterval{model.ResetOff, model.ResetDaily, model.ResetWeekly}

func nextIn[T comparable](cycle []T, cur T) T {
	for i, v := range cycle {
		if v == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

var settingRows = []settingRow{
	{
		label:  "Animate reordering",
		value:  func(p model.Preferences) string { return onOff(p.EnableAnimation) },
		change: func(p *model.Preferences) { p.EnableAnimation = !p.EnableAnimation },
	},
	{
		label:  "Undo delete",
		value:  func(p model.Preferences) string { return onOff(p.EnableUndoDelete) },
		change: func(p *model.Preferences) { p.EnableUndoDelete = !p.EnableUndoDelete },
	},
	{
		label:  "Confetti when all done",
		value:  func(p model.Preferences) string { return onOff(p.ShowConfetti) },
		change: func(p *model.Preferences) { p.ShowConfetti = !p.ShowConfetti },
	},
	{
		label:  "Theme",
		value:  func(p model.Preferences) string { return string(p.ThemeMode) },
		change: func(p *model.Preferences) { p.ThemeMode = nextIn(themeCycle, p.ThemeMode) },
	},
	{
		label:  "Auto reset completed",
		value:  func(p model.Preferences) string { return string(p.AutoReset) },
		change: func(p *model.Preferences) { p.AutoReset = nextIn(resetCycle, p.AutoReset) },
	},
	{
		label:  "Remaining count badge",
		value:  func(p model.Preferences) string { return onOff(p.ShowMenuBarBadge) },
		change: func(p *model.Preferences) { p.ShowMenuBarBadge = !p.ShowMenuBarBadge },
	},
	{
		label:  "Launch at login",
		value:  func(p model.Preferences) string { return onOff(p.AutoLaunchOnLogin) },
		change: func(p *model.Preferences) { p.AutoLaunchOnLogin = !p.AutoLaunchOnLogin },
	},
}

func (m appModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "esc":
		m.view = viewList
	case "?":
		m.showHelp = true
	case "up", "k":
		if m.settingsIdx > 0 {
			m.settingsIdx--
		}
	case "down", "j":
		if m.settingsIdx < len(settingRows)-1 {
			m.settingsIdx++
		}
	case " ", "enter", "x":
		m.changeSetting(m.settingsIdx)
	}
	return m, nil
}

func (m *appModel) changeSetting(i int) {
	if i < 0 || i >= len(settingRows) {
		return
	}
	prevTheme := m.cfg.Preferences.ThemeMode
	prevReset := m.cfg.Preferences.AutoReset
	settingRows[i].change(&m.cfg.Preferences)

	p := m.cfg.Preferences
	if p.ThemeMode != prevTheme {
		applyThemeMode(p.ThemeMode)
	}
	if p.AutoReset != prevReset {
		// A new interval starts counting now.
		now := m.clock.Now()
		m.cfg.LastResetAt = &now
	}
	if !p.EnableUndoDelete && m.undoVisible {
		m.ctrl.DiscardUndo()
		m.undoVisible = false
		m.undoSeq++
	}
	m.saveConfig()
	m.log.WithField("setting", settingRows[i].label).WithField("value", settingRows[i].value(p)).Debug("setting changed")
}
