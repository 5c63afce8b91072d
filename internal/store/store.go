package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"taskbar-cli/internal/model"
)

// ErrNotFound is returned when an update or delete references an unknown task id.
var ErrNotFound = errors.New("task not found")

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendMySQL  Backend = "mysql"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// TaskStore is the full record store surface shared by every backend.
type TaskStore interface {
	CreateTask(ctx context.Context, title string, orderKey int64, completed bool) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id string) error
	RestoreTask(ctx context.Context, t model.Task) error
	Close() error
}

func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return BackendSQLite, nil
	case "mysql":
		return BackendMySQL, nil
	case "redis":
		return BackendRedis, nil
	case "memory", "mem":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("invalid store backend: %q (expected sqlite|mysql|redis|memory)", s)
	}
}

// Open returns the store selected by cfg. dir is the config dir; the sqlite file defaults to
// <dir>/tasks.sqlite when cfg.DSN is empty.
func Open(ctx context.Context, cfg StoreConfig, dir string) (TaskStore, error) {
	backend, err := ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	dsn := strings.TrimSpace(cfg.DSN)
	switch backend {
	case BackendSQLite:
		if dsn == "" {
			dsn = filepath.Join(dir, sqliteFileName)
		}
		return OpenSQL(ctx, "sqlite", dsn)
	case BackendMySQL:
		if dsn == "" {
			return nil, errors.New("mysql store requires a dsn")
		}
		return OpenSQL(ctx, "mysql", dsn)
	case BackendRedis:
		if dsn == "" {
			dsn = "redis://localhost:6379/0"
		}
		return OpenRedis(ctx, dsn)
	default:
		return NewMemory(), nil
	}
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func cleanTask(t model.Task) (model.Task, error) {
	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return t, errors.New("task id is empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return t, errors.New("task title is empty")
	}
	return t, nil
}
