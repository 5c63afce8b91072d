package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskbar-cli/internal/model"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const sqliteFileName = "tasks.sqlite"

// SQL is a TaskStore over database/sql. The statements stick to the subset shared by
// SQLite (modernc.org/sqlite, driver "sqlite") and MySQL (driver "mysql").
type SQL struct {
	db     *sql.DB
	driver string

	// Now stamps CreatedAt on new tasks. Defaults to the wall clock.
	Now func() time.Time
}

// OpenSQL opens (and migrates) a task table for driver "sqlite" or "mysql".
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	switch driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
	case "mysql":
		dsn = withMySQLFoundRows(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// A single writer connection keeps per-connection pragmas in force.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL;",
			"PRAGMA synchronous=NORMAL;",
			"PRAGMA busy_timeout=5000;",
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
	}

	s := &SQL{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s store: %w", driver, err)
	}
	return s, nil
}

// withMySQLFoundRows makes UPDATE report matched rows (not changed rows), so an update that
// rewrites identical values is not mistaken for a missing task.
func withMySQLFoundRows(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&clientFoundRows=true"
	}
	return dsn + "?clientFoundRows=true"
}

func (s *SQL) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id VARCHAR(64) PRIMARY KEY,
			title TEXT NOT NULL,
			order_key BIGINT NOT NULL,
			completed INTEGER NOT NULL,
			created_at_unixms BIGINT NOT NULL
		)`,
	}
	if s.driver == "sqlite" {
		stmts = append(stmts, `CREATE INDEX IF NOT EXISTS idx_tasks_order ON tasks(completed, order_key)`)
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Millisecond)
	}
	return nowUTC()
}

func (s *SQL) CreateTask(ctx context.Context, title string, orderKey int64, completed bool) (model.Task, error) {
	t, err := cleanTask(model.Task{
		ID:        newTaskID(),
		Title:     strings.TrimSpace(title),
		Completed: completed,
		OrderKey:  orderKey,
		CreatedAt: s.now(),
	})
	if err != nil {
		return model.Task{}, err
	}
	if err := insertTask(ctx, s.db, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertTask(ctx context.Context, db execer, t model.Task) error {
	_, err := db.ExecContext(ctx, `INSERT INTO tasks(id, title, order_key, completed, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.OrderKey, boolToInt(t.Completed), t.CreatedAt.UTC().UnixMilli())
	return err
}

func (s *SQL) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, order_key, completed, created_at_unixms FROM tasks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Task{}
	for rows.Next() {
		var (
			t         model.Task
			completed int
			createdMs int64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.OrderKey, &completed, &createdMs); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		t.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQL) UpdateTask(ctx context.Context, t model.Task) error {
	t, err := cleanTask(t)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, order_key = ?, completed = ? WHERE id = ?`,
		t.Title, t.OrderKey, boolToInt(t.Completed), t.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *SQL) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// RestoreTask writes t back with its original id, key and creation time.
func (s *SQL) RestoreTask(ctx context.Context, t model.Task) error {
	t, err := cleanTask(t)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, t.ID); err != nil {
		return err
	}
	if err := insertTask(ctx, tx, t); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
