package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"taskbar-cli/internal/model"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const configFileName = "config.json"

type Config struct {
	Store       StoreConfig       `json:"store"`
	Preferences model.Preferences `json:"preferences"`

	// LastResetAt is when auto-reset last cleared completed tasks (or started its period).
	LastResetAt *time.Time `json:"lastResetAt,omitempty"`
}

type StoreConfig struct {
	// Backend is sqlite (default), mysql, redis or memory.
	Backend string `json:"backend,omitempty"`
	// DSN is backend specific: a file path for sqlite, a go-sql-driver DSN for mysql,
	// a redis:// URL for redis.
	DSN string `json:"dsn,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Store:       StoreConfig{Backend: string(BackendSQLite)},
		Preferences: model.DefaultPreferences(),
	}
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.taskbar).
	if v := strings.TrimSpace(os.Getenv("TASKBAR_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskbar"), nil
}

func ConfigPath(dir string) string {
	return filepath.Join(dir, configFileName)
}

// LoadConfig reads <dir>/config.json. Comments and trailing commas are accepted.
// A missing file yields the defaults; keys absent from the file keep their defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(ConfigPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	std, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", ConfigPath(dir), err)
	}
	if err := json.Unmarshal(std, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", ConfigPath(dir), err)
	}
	return cfg, nil
}

func SaveConfig(dir string, cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	path := ConfigPath(dir)

	// Best-effort safety net: keep the previous config next to the new one.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomic.WriteFile(path+".bak", bytes.NewReader(prev))
	}
	if err := atomic.WriteFile(path, bytes.NewReader(append(b, '\n'))); err != nil {
		return err
	}
	_ = os.Chmod(path, 0o600)
	return nil
}

func ParseThemeMode(s string) (model.ThemeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return model.ThemeLight, nil
	case "dark":
		return model.ThemeDark, nil
	case "system", "":
		return model.ThemeSystem, nil
	default:
		return "", fmt.Errorf("invalid theme: %q (expected light|dark|system)", s)
	}
}

func ParseResetInterval(s string) (model.ResetInterval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return model.ResetOff, nil
	case "daily":
		return model.ResetDaily, nil
	case "weekly":
		return model.ResetWeekly, nil
	default:
		return "", fmt.Errorf("invalid auto reset: %q (expected off|daily|weekly)", s)
	}
}

// preferenceSetters maps config keys (as written in config.json) to parsers.
var preferenceSetters = map[string]func(p *model.Preferences, v string) error{
	"enableAnimation":   boolSetter(func(p *model.Preferences, b bool) { p.EnableAnimation = b }),
	"enableUndoDelete":  boolSetter(func(p *model.Preferences, b bool) { p.EnableUndoDelete = b }),
	"showConfetti":      boolSetter(func(p *model.Preferences, b bool) { p.ShowConfetti = b }),
	"showMenuBarBadge":  boolSetter(func(p *model.Preferences, b bool) { p.ShowMenuBarBadge = b }),
	"autoLaunchOnLogin": boolSetter(func(p *model.Preferences, b bool) { p.AutoLaunchOnLogin = b }),
	"themeMode": func(p *model.Preferences, v string) error {
		m, err := ParseThemeMode(v)
		if err != nil {
			return err
		}
		p.ThemeMode = m
		return nil
	},
	"autoReset": func(p *model.Preferences, v string) error {
		r, err := ParseResetInterval(v)
		if err != nil {
			return err
		}
		p.AutoReset = r
		return nil
	},
}

func boolSetter(set func(p *model.Preferences, b bool)) func(p *model.Preferences, v string) error {
	return func(p *model.Preferences, v string) error {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid boolean: %q", v)
		}
		set(p, b)
		return nil
	}
}

// PreferenceKeys lists the keys accepted by SetPreference, sorted.
func PreferenceKeys() []string {
	out := make([]string, 0, len(preferenceSetters))
	for k := range preferenceSetters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SetPreference parses value for key and stores it in cfg. Keys match case-insensitively.
func SetPreference(cfg *Config, key, value string) error {
	for k, set := range preferenceSetters {
		if strings.EqualFold(k, strings.TrimSpace(key)) {
			return set(&cfg.Preferences, value)
		}
	}
	return fmt.Errorf("unknown preference: %q (expected one of %s)", key, strings.Join(PreferenceKeys(), ", "))
}
