package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskbar-cli/internal/model"
	"taskbar-cli/internal/publish"
	"taskbar-cli/internal/tasklist"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"t"},
		Short:   "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksClearCmd(app))
	cmd.AddCommand(newTasksClearCompletedCmd(app))
	cmd.AddCommand(newTasksAllCompleteCmd(app))
	cmd.AddCommand(newTasksExportCmd(app))

	return cmd
}

// checklist renders tasks in display order as "[x] title" lines.
type checklist []model.Task

func (c checklist) Text() string {
	if len(c) == 0 {
		return "(no tasks)\n"
	}
	var b strings.Builder
	for _, t := range c {
		b.WriteString(taskLine(t))
		b.WriteByte('\n')
	}
	return b.String()
}

type taskResult struct {
	model.Task
}

func (r taskResult) Text() string { return taskLine(r.Task) + "\n" }

type countResult struct {
	Removed   int `json:"removed"`
	Remaining int `json:"remaining"`
}

func (r countResult) Text() string {
	return fmt.Sprintf("removed %d, %d remaining\n", r.Removed, r.Remaining)
}

func taskLine(t model.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s  %s", box, shortID(t.ID), t.Title)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveTaskID accepts a full id or a unique id prefix.
func resolveTaskID(tasks []model.Task, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", errors.New("missing task id")
	}
	var match string
	n := 0
	for _, t := range tasks {
		if t.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(t.ID, arg) {
			match = t.ID
			n++
		}
	}
	switch n {
	case 0:
		return "", errNotFound("task", arg)
	case 1:
		return match, nil
	default:
		return "", ambiguousIDError{prefix: arg, matches: n}
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			t, ok := s.ctrl.Add(cmd.Context(), strings.Join(args, " "))
			if !ok {
				return writeErr(cmd, emptyTitleError{})
			}
			return writeOut(cmd, app, taskResult{t})
		},
	}
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			tasks := s.ctrl.List(cmd.Context(), filter)
			if tasks == nil {
				tasks = []model.Task{}
			}
			return writeOut(cmd, app, checklist(tasks))
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Case-insensitive title substring")
	return cmd
}

func newTasksToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			id, err := resolveTaskID(s.ctrl.List(cmd.Context(), ""), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := s.ctrl.ToggleComplete(cmd.Context(), id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			return writeOut(cmd, app, taskResult{t})
		},
	}
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task (no undo outside the TUI)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			id, err := resolveTaskID(s.ctrl.List(cmd.Context(), ""), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if !s.ctrl.Delete(cmd.Context(), id, false) {
				return writeErr(cmd, errNotFound("task", id))
			}
			return writeOut(cmd, app, countResult{Removed: 1, Remaining: s.ctrl.Remaining(cmd.Context())})
		},
	}
	return cmd
}

func newTasksMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <dragged-id> <target-id>",
		Short: "Move a task to the position of another task",
		Long: strings.TrimSpace(`
Moves the dragged task to the target's position in the unfiltered display order,
shifting the tasks in between by one. Moving a task onto its neighbour swaps them.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			all := s.ctrl.List(cmd.Context(), "")
			dragged, err := resolveTaskID(all, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			target, err := resolveTaskID(all, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if dragged == target {
				return writeErr(cmd, errors.New("dragged and target task are the same"))
			}
			if !s.ctrl.Reorder(cmd.Context(), dragged, target) {
				return writeErr(cmd, fmt.Errorf("move %s onto %s failed", shortID(dragged), shortID(target)))
			}
			return writeOut(cmd, app, checklist(s.ctrl.List(cmd.Context(), "")))
		},
	}
	return cmd
}

func newTasksClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks (not undoable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete all tasks without --yes"))
			}
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			n := s.ctrl.DeleteAll(cmd.Context())
			return writeOut(cmd, app, countResult{Removed: n, Remaining: s.ctrl.Remaining(cmd.Context())})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deleting every task")
	return cmd
}

func newTasksClearCompletedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			n := s.ctrl.ClearCompleted(cmd.Context())
			return writeOut(cmd, app, countResult{Removed: n, Remaining: s.ctrl.Remaining(cmd.Context())})
		},
	}
	return cmd
}

type allCompleteResult struct {
	AllComplete bool `json:"allComplete"`
	Total       int  `json:"total"`
	Remaining   int  `json:"remaining"`
}

func (r allCompleteResult) Text() string {
	if r.AllComplete {
		return "all tasks complete\n"
	}
	return fmt.Sprintf("%d of %d remaining\n", r.Remaining, r.Total)
}

func newTasksAllCompleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all-complete",
		Short: "Report whether every task is completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			tasks := s.ctrl.List(cmd.Context(), "")
			remaining := 0
			for _, t := range tasks {
				if !t.Completed {
					remaining++
				}
			}
			return writeOut(cmd, app, allCompleteResult{
				AllComplete: tasklist.AllComplete(tasks),
				Total:       len(tasks),
				Remaining:   remaining,
			})
		},
	}
	return cmd
}

func newTasksExportCmd(app *App) *cobra.Command {
	var to string
	var title string
	var skipCompleted bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as a markdown checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			opt := publish.RenderOptions{
				Title:         title,
				SkipCompleted: skipCompleted,
				GeneratedAt:   time.Now().UTC().Truncate(time.Second),
			}
			tasks := s.ctrl.List(cmd.Context(), "")
			if strings.TrimSpace(to) == "" {
				md, _ := publish.RenderChecklist(tasks, opt)
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			res, err := publish.WriteChecklist(tasks, to, publish.WriteOptions{RenderOptions: opt, Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, res)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output file (default: print markdown to stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Heading (default: Tasks)")
	cmd.Flags().BoolVar(&skipCompleted, "skip-completed", false, "Leave completed tasks out")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
