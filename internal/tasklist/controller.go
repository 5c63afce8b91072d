// Package tasklist holds the task list state machine: ordering, filtering, completion,
// deletion with a single-slot undo buffer, and drag-style reordering.
//
// Controller operations never return errors. Store failures are logged and absorbed so the
// presentation layer only ever observes the resulting List output.
package tasklist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"taskbar-cli/internal/clock"
	"taskbar-cli/internal/model"
	"taskbar-cli/internal/store"

	"github.com/sirupsen/logrus"
)

// UndoWindow is how long a deleted task stays restorable.
const UndoWindow = 5 * time.Second

// RecordStore is the persistence collaborator.
type RecordStore interface {
	CreateTask(ctx context.Context, title string, orderKey int64, completed bool) (model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	UpdateTask(ctx context.Context, t model.Task) error
	DeleteTask(ctx context.Context, id string) error
	// RestoreTask re-inserts a previously deleted task unchanged (same id and order key).
	RestoreTask(ctx context.Context, t model.Task) error
}

type Controller struct {
	store RecordStore
	clock clock.Clock
	log   logrus.FieldLogger

	mu   sync.Mutex
	undo undoSlot
}

func New(store RecordStore, clk clock.Clock, log logrus.FieldLogger) *Controller {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{store: store, clock: clk, log: log}
}

// Clock is the time source for undo deadlines and order keys.
func (c *Controller) Clock() clock.Clock {
	return c.clock
}

// Add creates a new incomplete task on top of the list.
// Empty (after trimming) titles are ignored and reported with ok=false.
func (c *Controller) Add(ctx context.Context, title string) (model.Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Task{}, false
	}
	tasks := c.activeTasks(ctx, "add")
	key := nextOrderKey(c.clock.Now(), tasks)

	t, err := c.store.CreateTask(ctx, title, key, false)
	if err != nil {
		c.log.WithError(err).WithField("op", "add").Warn("create task failed")
		return model.Task{}, false
	}
	return t, true
}

// List returns the display sequence: tasks whose title contains filter (case-insensitive),
// incomplete before completed, most recently ordered first.
func (c *Controller) List(ctx context.Context, filter string) []model.Task {
	tasks := c.activeTasks(ctx, "list")
	out := FilterTasks(tasks, filter)
	SortDisplay(out)
	return out
}

// ToggleComplete flips the completion flag of the task with the given id.
func (c *Controller) ToggleComplete(ctx context.Context, id string) (model.Task, bool) {
	t, ok := c.find(ctx, "toggle", id)
	if !ok {
		return model.Task{}, false
	}
	t.Completed = !t.Completed
	if err := c.store.UpdateTask(ctx, t); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"op": "toggle", "task_id": id}).Warn("update task failed")
	}
	return t, true
}

// Delete removes the task from the store. With undoEnabled the task is held in the undo slot
// for UndoWindow, replacing (and forfeiting) whatever was there before.
func (c *Controller) Delete(ctx context.Context, id string, undoEnabled bool) bool {
	t, ok := c.find(ctx, "delete", id)
	if !ok {
		return false
	}
	if err := c.store.DeleteTask(ctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		// The record is still live; buffering it too would leave it in two places.
		c.log.WithError(err).WithFields(logrus.Fields{"op": "delete", "task_id": id}).Warn("delete task failed")
		return true
	}
	if undoEnabled {
		c.bufferForUndo(t)
	}
	return true
}

// UndoDelete restores the buffered task if its undo window is still open.
func (c *Controller) UndoDelete(ctx context.Context) (model.Task, bool) {
	t, ok := c.takeUndo()
	if !ok {
		return model.Task{}, false
	}
	if err := c.store.RestoreTask(ctx, t); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"op": "undo", "task_id": t.ID}).Warn("restore task failed")
	}
	return t, true
}

// DeleteAll removes every active task. It is not undoable and leaves the undo slot alone.
func (c *Controller) DeleteAll(ctx context.Context) int {
	return c.deleteWhere(ctx, "delete_all", func(model.Task) bool { return true })
}

// ClearCompleted removes every completed task. It is not undoable.
func (c *Controller) ClearCompleted(ctx context.Context) int {
	return c.deleteWhere(ctx, "clear_completed", func(t model.Task) bool { return t.Completed })
}

// Remaining is the number of incomplete tasks (the menu badge count).
func (c *Controller) Remaining(ctx context.Context) int {
	n := 0
	for _, t := range c.activeTasks(ctx, "remaining") {
		if !t.Completed {
			n++
		}
	}
	return n
}

// AllComplete reports whether tasks is non-empty and every task in it is completed.
func AllComplete(tasks []model.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

func (c *Controller) deleteWhere(ctx context.Context, op string, match func(model.Task) bool) int {
	n := 0
	for _, t := range c.activeTasks(ctx, op) {
		if !match(t) {
			continue
		}
		if err := c.store.DeleteTask(ctx, t.ID); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{"op": op, "task_id": t.ID}).Warn("delete task failed")
			continue
		}
		n++
	}
	return n
}

func (c *Controller) activeTasks(ctx context.Context, op string) []model.Task {
	tasks, err := c.store.ListTasks(ctx)
	if err != nil {
		c.log.WithError(err).WithField("op", op).Warn("list tasks failed")
		return []model.Task{}
	}
	return tasks
}

func (c *Controller) find(ctx context.Context, op, id string) (model.Task, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Task{}, false
	}
	for _, t := range c.activeTasks(ctx, op) {
		if t.ID == id {
			return t, true
		}
	}
	c.log.WithFields(logrus.Fields{"op": op, "task_id": id}).Debug("task not found")
	return model.Task{}, false
}
