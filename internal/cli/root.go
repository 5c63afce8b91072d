package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskbar-cli/internal/clock"
	"taskbar-cli/internal/format"
	"taskbar-cli/internal/store"
	"taskbar-cli/internal/tasklist"
	"taskbar-cli/internal/tui"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir  string
	Store      string
	DSN        string
	PrettyJSON bool
	Format     string
	Debug      bool

	log *log.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskbar",
		Short:        "A small persistent to-do list (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive list
  taskbar

  # Scriptable commands
  taskbar tasks add Buy milk
  taskbar tasks list --filter milk --format text
  taskbar tasks toggle 3f2a
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.log = newLogger(cmd.ErrOrStderr(), app.Debug)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("TASKBAR_CONFIG_DIR", ""), "Config dir (default: ~/.taskbar)")
	cmd.PersistentFlags().StringVar(&app.Store, "store", envOr("TASKBAR_STORE", ""), "Store backend (sqlite|mysql|redis|memory; default from config)")
	cmd.PersistentFlags().StringVar(&app.DSN, "dsn", envOr("TASKBAR_DSN", ""), "Store DSN (sqlite path, mysql DSN or redis:// URL)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKBAR_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", envBool("TASKBAR_DEBUG"), "Enable debug logging")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	l := log.New()
	l.SetOutput(w)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	l.SetLevel(log.InfoLevel)
	if debug {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

func (app *App) logger() *log.Logger {
	if app.log == nil {
		app.log = newLogger(os.Stderr, app.Debug)
	}
	return app.log
}

func (app *App) configDir() (string, error) {
	if d := strings.TrimSpace(app.ConfigDir); d != "" {
		return d, nil
	}
	d, err := store.ConfigDir()
	if err != nil {
		return "", err
	}
	app.ConfigDir = d
	return d, nil
}

func (app *App) loadConfig() (*store.Config, string, error) {
	dir, err := app.configDir()
	if err != nil {
		return nil, "", err
	}
	cfg, err := store.LoadConfig(dir)
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

// session is an opened store plus the controller bound to it.
type session struct {
	cfg   *store.Config
	dir   string
	store store.TaskStore
	ctrl  *tasklist.Controller
}

func (s *session) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

func openSession(ctx context.Context, app *App) (*session, error) {
	cfg, dir, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	sc := cfg.Store
	if v := strings.TrimSpace(app.Store); v != "" {
		sc.Backend = v
		// A DSN from the config belongs to the configured backend, not an overriding one.
		if !strings.EqualFold(v, cfg.Store.Backend) {
			sc.DSN = ""
		}
	}
	if v := strings.TrimSpace(app.DSN); v != "" {
		sc.DSN = v
	}
	st, err := store.Open(ctx, sc, dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	l := app.logger()
	s := &session{
		cfg:   cfg,
		dir:   dir,
		store: st,
		ctrl:  tasklist.New(st, clock.Real(), l.WithField("store", sc.Backend)),
	}
	s.applyAutoReset(ctx, l)
	return s, nil
}

func (s *session) applyAutoReset(ctx context.Context, l log.FieldLogger) {
	var prev time.Time
	if s.cfg.LastResetAt != nil {
		prev = *s.cfg.LastResetAt
	}
	next, _ := s.ctrl.ApplyAutoReset(ctx, s.cfg.Preferences.AutoReset, prev)
	if next.Equal(prev) {
		return
	}
	s.cfg.LastResetAt = &next
	if err := store.SaveConfig(s.dir, s.cfg); err != nil {
		l.WithError(err).Warn("save config after auto reset failed")
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	dir, err := app.configDir()
	if err != nil {
		return err
	}
	// The TUI owns the terminal; send logs to a file next to the config.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, "taskbar.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	app.log = newLogger(f, app.Debug)

	s, err := openSession(cmd.Context(), app)
	if err != nil {
		return err
	}
	defer s.Close()

	return tui.Run(cmd.Context(), tui.Options{
		Controller: s.ctrl,
		Config:     s.cfg,
		ConfigDir:  s.dir,
		Log:        app.log,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(k))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format == "text" {
		if _, ok := v.(format.Texter); ok {
			return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
		}
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
