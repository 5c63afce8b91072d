package tasklist

import (
	"time"

	"taskbar-cli/internal/clock"
	"taskbar-cli/internal/model"

	"github.com/sirupsen/logrus"
)

// undoSlot holds at most one deleted task. gen identifies the current occupant so an expiry
// callback scheduled for an earlier occupant never clears a newer one.
type undoSlot struct {
	task     model.Task
	deadline time.Time
	timer    clock.Timer
	gen      uint64
	full     bool
}

func (c *Controller) bufferForUndo(t model.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.undo.full {
		c.log.WithFields(logrus.Fields{"op": "delete", "task_id": c.undo.task.ID}).Debug("undo forfeited by newer delete")
	}
	c.clearUndoLocked()

	c.undo.gen++
	gen := c.undo.gen
	c.undo.task = t
	c.undo.deadline = c.clock.Now().Add(UndoWindow)
	c.undo.full = true
	c.undo.timer = c.clock.AfterFunc(UndoWindow, func() { c.expireUndo(gen) })
}

func (c *Controller) expireUndo(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.undo.full || c.undo.gen != gen {
		return
	}
	c.log.WithField("task_id", c.undo.task.ID).Debug("undo window expired")
	c.clearUndoLocked()
}

// takeUndo empties the slot and returns its task if the window is still open.
func (c *Controller) takeUndo() (model.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.undo.full {
		return model.Task{}, false
	}
	if !c.clock.Now().Before(c.undo.deadline) {
		c.clearUndoLocked()
		return model.Task{}, false
	}
	t := c.undo.task
	c.clearUndoLocked()
	return t, true
}

func (c *Controller) clearUndoLocked() {
	if c.undo.timer != nil {
		c.undo.timer.Stop()
	}
	gen := c.undo.gen
	c.undo = undoSlot{gen: gen}
}

// PendingUndo returns the task that UndoDelete would restore and its deadline.
func (c *Controller) PendingUndo() (model.Task, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.undo.full || !c.clock.Now().Before(c.undo.deadline) {
		return model.Task{}, time.Time{}, false
	}
	return c.undo.task, c.undo.deadline, true
}

// DiscardUndo drops any pending undo without restoring it.
func (c *Controller) DiscardUndo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearUndoLocked()
}
