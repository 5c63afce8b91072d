package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskbar-cli/internal/model"
)

// Memory is a process-local TaskStore. Nothing survives a restart.
type Memory struct {
	mu    sync.Mutex
	tasks map[string]model.Task

	// Now stamps CreatedAt on new tasks. Defaults to the wall clock.
	Now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{tasks: map[string]model.Task{}}
}

func (m *Memory) CreateTask(ctx context.Context, title string, orderKey int64, completed bool) (model.Task, error) {
	now := nowUTC
	if m.Now != nil {
		now = m.Now
	}
	t, err := cleanTask(model.Task{
		ID:        newTaskID(),
		Title:     strings.TrimSpace(title),
		Completed: completed,
		OrderKey:  orderKey,
		CreatedAt: now(),
	})
	if err != nil {
		return model.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return t, nil
}

func (m *Memory) ListTasks(ctx context.Context) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (m *Memory) UpdateTask(ctx context.Context, t model.Task) error {
	t, err := cleanTask(t)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *Memory) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id = strings.TrimSpace(id)
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) RestoreTask(ctx context.Context, t model.Task) error {
	t, err := cleanTask(t)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = t
	return nil
}

func (m *Memory) Close() error { return nil }
