package store

import (
	"os"
	"path/filepath"
	"testing"

	"taskbar-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_AcceptsCommentsAndKeepsDefaultsForMissingKeys(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	raw := `{
  // local redis while testing
  "store": {"backend": "redis", "dsn": "redis://localhost:6379/2"},
  "preferences": {
    "showConfetti": false,
    "themeMode": "dark", // trailing comma below
  },
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultConfig()
	want.Store = StoreConfig{Backend: "redis", DSN: "redis://localhost:6379/2"}
	want.Preferences.ShowConfetti = false
	want.Preferences.ThemeMode = model.ThemeDark
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_InvalidFileIsAnError(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Fatalf("expected invalid config error")
	}
}

func TestSaveConfig_RoundTripAndBackup(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested")

	cfg := DefaultConfig()
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SetPreference(cfg, "enableundodelete", "false"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Preferences.EnableUndoDelete {
		t.Fatalf("expected enableUndoDelete=false after round trip")
	}
	if _, err := os.Stat(ConfigPath(dir) + ".bak"); err != nil {
		t.Fatalf("expected backup of previous config: %v", err)
	}
}

func TestSetPreference(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	ok := []struct{ key, value string }{
		{"themeMode", "light"},
		{"autoReset", "weekly"},
		{"showMenuBarBadge", "0"},
		{"AUTOLAUNCHONLOGIN", "true"},
	}
	for _, tc := range ok {
		if err := SetPreference(cfg, tc.key, tc.value); err != nil {
			t.Fatalf("SetPreference(%q, %q): %v", tc.key, tc.value, err)
		}
	}
	p := cfg.Preferences
	if p.ThemeMode != model.ThemeLight || p.AutoReset != model.ResetWeekly || p.ShowMenuBarBadge || !p.AutoLaunchOnLogin {
		t.Fatalf("unexpected preferences: %+v", p)
	}

	bad := []struct{ key, value string }{
		{"themeMode", "sepia"},
		{"autoReset", "hourly"},
		{"showConfetti", "maybe"},
		{"fontSize", "12"},
	}
	for _, tc := range bad {
		if err := SetPreference(cfg, tc.key, tc.value); err == nil {
			t.Fatalf("SetPreference(%q, %q): expected error", tc.key, tc.value)
		}
	}
}
