package cli

import (
	"fmt"
	"strings"

	"taskbar-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change preferences",
	}

	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))

	return cmd
}

type configView struct {
	Dir string `json:"dir"`
	*store.Config
}

func (v configView) Text() string {
	p := v.Preferences
	var b strings.Builder
	fmt.Fprintf(&b, "dir                %s\n", v.Dir)
	fmt.Fprintf(&b, "store.backend      %s\n", v.Store.Backend)
	if v.Store.DSN != "" {
		fmt.Fprintf(&b, "store.dsn          %s\n", v.Store.DSN)
	}
	fmt.Fprintf(&b, "enableAnimation    %t\n", p.EnableAnimation)
	fmt.Fprintf(&b, "enableUndoDelete   %t\n", p.EnableUndoDelete)
	fmt.Fprintf(&b, "showConfetti       %t\n", p.ShowConfetti)
	fmt.Fprintf(&b, "themeMode          %s\n", p.ThemeMode)
	fmt.Fprintf(&b, "autoReset          %s\n", p.AutoReset)
	fmt.Fprintf(&b, "showMenuBarBadge   %t\n", p.ShowMenuBarBadge)
	fmt.Fprintf(&b, "autoLaunchOnLogin  %t\n", p.AutoLaunchOnLogin)
	return b.String()
}

func newConfigShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, configView{Dir: dir, Config: cfg})
		},
	}
	return cmd
}

func newConfigSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference (or store.backend / store.dsn)",
		Long: "Keys: store.backend, store.dsn, " + strings.Join(store.PreferenceKeys(), ", ") + ".\n" +
			"autoLaunchOnLogin is recorded only; registering a login item is up to the OS.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, dir, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			key, value := strings.TrimSpace(args[0]), args[1]
			switch strings.ToLower(key) {
			case "store.backend":
				b, err := store.ParseBackend(value)
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.Store.Backend = string(b)
			case "store.dsn":
				cfg.Store.DSN = strings.TrimSpace(value)
			default:
				if err := store.SetPreference(cfg, key, value); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := store.SaveConfig(dir, cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.logger().WithField("key", key).Debug("config updated")
			return writeOut(cmd, app, configView{Dir: dir, Config: cfg})
		},
	}
	return cmd
}
