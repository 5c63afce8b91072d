package tui

import (
	"context"

	"taskbar-cli/internal/store"
	"taskbar-cli/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Controller *tasklist.Controller
	Config     *store.Config
	ConfigDir  string
	Log        logrus.FieldLogger
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	if opts.Config != nil {
		applyThemeMode(opts.Config.Preferences.ThemeMode)
	}
	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
