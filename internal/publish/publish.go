// Package publish renders the task list as a markdown checklist.
package publish

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskbar-cli/internal/model"

	"github.com/natefinch/atomic"
)

type RenderOptions struct {
	// Title is the heading; empty means "Tasks".
	Title string
	// SkipCompleted leaves completed tasks out.
	SkipCompleted bool
	// GeneratedAt, when set, adds a footer line.
	GeneratedAt time.Time
}

type WriteOptions struct {
	RenderOptions
	Overwrite bool
}

type WriteResult struct {
	Path  string `json:"path"`
	Tasks int    `json:"tasks"`
}

// RenderChecklist renders tasks (already in display order) as a GitHub-style checklist.
func RenderChecklist(tasks []model.Task, opt RenderOptions) (string, int) {
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Tasks"
	}
	var b strings.Builder
	b.WriteString("# " + escapeInline(title) + "\n\n")
	n := 0
	for _, t := range tasks {
		if t.Completed && opt.SkipCompleted {
			continue
		}
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		b.WriteString("- " + box + " " + escapeInline(t.Title) + "\n")
		n++
	}
	if n == 0 {
		b.WriteString("_Nothing to do._\n")
	}
	if !opt.GeneratedAt.IsZero() {
		b.WriteString("\n_Exported " + opt.GeneratedAt.Format(time.RFC3339) + "_\n")
	}
	return b.String(), n
}

func WriteChecklist(tasks []model.Task, path string, opt WriteOptions) (WriteResult, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	path = filepath.Clean(path)

	md, n := RenderChecklist(tasks, opt.RenderOptions)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, err
	}
	if err := writeFile(path, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: path, Tasks: n}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}

// escapeInline keeps a title on one line and stops it from being read as markdown markup.
func escapeInline(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
		"#", `\#`,
		"<", `\<`,
	)
	return r.Replace(s)
}
