package model

import "time"

// Task is a single to-do entry.
//
// OrderKey only encodes display order (larger sorts first within a completion group).
// It is seeded from the clock but carries no wall-clock meaning.
type Task struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	OrderKey  int64     `json:"orderKey"`
	CreatedAt time.Time `json:"createdAt"`
}

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

type ResetInterval string

const (
	ResetOff    ResetInterval = "off"
	ResetDaily  ResetInterval = "daily"
	ResetWeekly ResetInterval = "weekly"
)

// Preferences are the cosmetic switches shown in the settings tab.
// Only EnableUndoDelete changes controller behavior (it gates undo on delete).
type Preferences struct {
	EnableAnimation   bool          `json:"enableAnimation"`
	EnableUndoDelete  bool          `json:"enableUndoDelete"`
	ShowConfetti      bool          `json:"showConfetti"`
	ThemeMode         ThemeMode     `json:"themeMode"`
	AutoReset         ResetInterval `json:"autoReset"`
	ShowMenuBarBadge  bool          `json:"showMenuBarBadge"`
	AutoLaunchOnLogin bool          `json:"autoLaunchOnLogin"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		EnableAnimation:   true,
		EnableUndoDelete:  true,
		ShowConfetti:      true,
		ThemeMode:         ThemeSystem,
		AutoReset:         ResetOff,
		ShowMenuBarBadge:  true,
		AutoLaunchOnLogin: false,
	}
}
