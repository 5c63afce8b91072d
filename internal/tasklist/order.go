package tasklist

import (
	"context"
	"sort"
	"strings"
	"time"

	"taskbar-cli/internal/model"

	"github.com/sirupsen/logrus"
)

// FilterTasks keeps tasks whose title contains filter, ignoring case. Only the empty filter
// keeps everything; whitespace is matched literally. The input slice is not modified.
func FilterTasks(tasks []model.Task, filter string) []model.Task {
	needle := strings.ToLower(filter)
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if needle == "" || strings.Contains(strings.ToLower(t.Title), needle) {
			out = append(out, t)
		}
	}
	return out
}

// SortDisplay sorts tasks in place into display order.
func SortDisplay(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return compareDisplay(tasks[i], tasks[j]) < 0
	})
}

// compareDisplay orders incomplete before completed, then OrderKey descending.
// CreatedAt (newest first) and ID break ties so the order is total even if keys ever collide.
func compareDisplay(a, b model.Task) int {
	if a.Completed != b.Completed {
		if !a.Completed {
			return -1
		}
		return 1
	}
	if a.OrderKey != b.OrderKey {
		if a.OrderKey > b.OrderKey {
			return -1
		}
		return 1
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// nextOrderKey seeds a key from now and lifts it above every existing key so a new task
// always lands on top and keys stay distinct.
func nextOrderKey(now time.Time, tasks []model.Task) int64 {
	key := now.UnixNano()
	for _, t := range tasks {
		if t.OrderKey >= key {
			key = t.OrderKey + 1
		}
	}
	return key
}

// ReorderPlan describes the key updates needed to realize a move.
// KeyByID includes only tasks whose key changes.
type ReorderPlan struct {
	Order   []string
	KeyByID map[string]int64
}

// PlanReorder moves draggedID to targetID's index in seq (seq must already be in display order)
// and renumbers every position with strictly decreasing keys starting at seed.
//
// Moving onto an adjacent task swaps the two, so repeating the same move restores the original
// order. ok is false when either id is missing or both are the same.
func PlanReorder(seq []model.Task, draggedID, targetID string, seed int64) (ReorderPlan, bool) {
	draggedID = strings.TrimSpace(draggedID)
	targetID = strings.TrimSpace(targetID)
	if draggedID == "" || targetID == "" || draggedID == targetID {
		return ReorderPlan{}, false
	}

	from, to := -1, -1
	for i, t := range seq {
		switch t.ID {
		case draggedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		return ReorderPlan{}, false
	}

	moved := seq[from]
	rest := make([]model.Task, 0, len(seq)-1)
	rest = append(rest, seq[:from]...)
	rest = append(rest, seq[from+1:]...)

	final := make([]model.Task, 0, len(seq))
	final = append(final, rest[:to]...)
	final = append(final, moved)
	final = append(final, rest[to:]...)

	// Keep every key positive-ordered even for tiny seeds (manual clocks at the epoch).
	if floor := int64(len(final) - 1); seed < floor {
		seed = floor
	}

	plan := ReorderPlan{
		Order:   make([]string, 0, len(final)),
		KeyByID: map[string]int64{},
	}
	for i, t := range final {
		plan.Order = append(plan.Order, t.ID)
		key := seed - int64(i)
		if t.OrderKey != key {
			plan.KeyByID[t.ID] = key
		}
	}
	return plan, true
}

// Reorder moves draggedID to targetID's position in the unfiltered display sequence and
// rewrites order keys from the clock so the new order persists.
func (c *Controller) Reorder(ctx context.Context, draggedID, targetID string) bool {
	seq := c.List(ctx, "")
	plan, ok := PlanReorder(seq, draggedID, targetID, c.clock.Now().UnixNano())
	if !ok {
		return false
	}
	for _, t := range seq {
		key, changed := plan.KeyByID[t.ID]
		if !changed {
			continue
		}
		t.OrderKey = key
		if err := c.store.UpdateTask(ctx, t); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{"op": "reorder", "task_id": t.ID}).Warn("update task failed")
		}
	}
	return true
}
