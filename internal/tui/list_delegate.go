package tui

import (
	"fmt"
	"io"
	"strings"

	"taskbar-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }
func (i taskItem) Title() string       { return i.task.Title }

// rowMarks carries per-row decorations owned by the app model.
type rowMarks struct {
	grabbedID string
	flashID   string
}

type taskDelegate struct {
	marks *rowMarks
}

func newTaskDelegate(marks *rowMarks) taskDelegate {
	return taskDelegate{marks: marks}
}

func (d taskDelegate) Height() int  { return 1 }
func (d taskDelegate) Spacing() int { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(taskItem)
	if !ok || contentW < 6 {
		fmt.Fprint(w, "")
		return
	}
	fmt.Fprint(w, renderTaskRow(it.task, contentW, index == m.Index(), d.marks))
}

func renderTaskRow(t model.Task, width int, selected bool, marks *rowMarks) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	cursor := "  "
	if selected {
		cursor = "> "
	}
	if marks != nil && marks.grabbedID == t.ID {
		cursor = "≡ "
	}

	prefix := cursor + box + " "
	titleW := width - xansi.StringWidth(prefix)
	title := t.Title
	if xansi.StringWidth(title) > titleW {
		title = xansi.Truncate(title, titleW, "…")
	}
	line := prefix + title
	if lw := xansi.StringWidth(line); lw < width {
		line += strings.Repeat(" ", width-lw)
	}

	st := lipgloss.NewStyle()
	if t.Completed {
		st = st.Foreground(colorDone).Strikethrough(true)
	}
	switch {
	case marks != nil && marks.grabbedID == t.ID:
		st = st.Background(colorGrabbedBg).Bold(true)
	case marks != nil && marks.flashID == t.ID:
		st = st.Background(colorFlashBg)
	case selected:
		st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}
	return st.Render(line)
}
