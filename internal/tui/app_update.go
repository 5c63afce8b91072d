package tui

import (
	"strconv"
	"time"

	"taskbar-cli/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case reloadTickMsg:
		m.applyAutoReset()
		m.refresh()
		return m, reloadTick()

	case undoTickMsg:
		if msg.seq != m.undoSeq || !m.undoVisible {
			return m, nil
		}
		if _, _, ok := m.ctrl.PendingUndo(); !ok {
			m.undoVisible = false
			return m, nil
		}
		return m, m.undoTickCmd()

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.marks.flashID = ""
		}
		return m, nil

	case confettiDoneMsg:
		if msg.seq == m.confettiSeq {
			m.confetti = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	if m.confirmDeleteAll {
		switch msg.String() {
		case "y", "Y":
			n := m.ctrl.DeleteAll(m.ctx)
			m.confirmDeleteAll = false
			m.marks.grabbedID = ""
			m.status = "deleted " + strconv.Itoa(n) + " tasks"
			m.refresh()
		case "n", "N", "esc", "q":
			m.confirmDeleteAll = false
		}
		return m, nil
	}

	switch m.focus {
	case focusSearch:
		return m.updateSearch(msg)
	case focusAdd:
		return m.updateAdd(msg)
	}

	if m.view == viewSettings {
		return m.updateSettings(msg)
	}
	return m.updateList(msg)
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.focus = focusList
		m.filter = ""
		m.refresh()
		return m, nil
	case "enter", "down", "tab":
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.filter {
		m.filter = v
		m.refresh()
		if len(m.list.Items()) > 0 {
			m.list.Select(0)
		}
	}
	return m, cmd
}

func (m appModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.add.SetValue("")
		m.add.Blur()
		m.focus = focusList
		return m, nil
	case "enter":
		t, ok := m.ctrl.Add(m.ctx, m.add.Value())
		if !ok {
			return m, nil
		}
		m.add.SetValue("")
		m.status = ""
		m.refreshSelecting(t.ID)
		return m, nil
	}
	var cmd tea.Cmd
	m.add, cmd = m.add.Update(msg)
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.view = viewSettings
		m.marks.grabbedID = ""
		return m, nil

	case "/":
		m.focus = focusSearch
		return m, m.search.Focus()

	case "a", "n":
		m.focus = focusAdd
		return m, m.add.Focus()

	case "esc":
		if m.marks.grabbedID != "" {
			m.marks.grabbedID = ""
			return m, nil
		}
		if m.filter != "" {
			m.filter = ""
			m.search.SetValue("")
			m.refresh()
		}
		return m, nil

	case " ", "x":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if _, ok := m.ctrl.ToggleComplete(m.ctx, t.ID); !ok {
			return m, nil
		}
		m.refresh()
		return m, m.maybeConfetti()

	case "d", "backspace", "delete":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		undo := m.prefs().EnableUndoDelete
		if !m.ctrl.Delete(m.ctx, t.ID, undo) {
			return m, nil
		}
		if m.marks.grabbedID == t.ID {
			m.marks.grabbedID = ""
		}
		m.refresh()
		if !undo {
			return m, nil
		}
		m.undoVisible = true
		m.undoSeq++
		return m, m.undoTickCmd()

	case "u":
		if !m.undoVisible {
			return m, nil
		}
		t, ok := m.ctrl.UndoDelete(m.ctx)
		m.undoVisible = false
		m.undoSeq++
		if ok {
			m.refreshSelecting(t.ID)
		}
		return m, nil

	case "D":
		if m.total > 0 {
			m.confirmDeleteAll = true
		}
		return m, nil

	case "m", "enter":
		return m.pickOrDrop(msg.String())

	case "K", "shift+up":
		return m.swapWithNeighbour(-1)

	case "J", "shift+down":
		return m.swapWithNeighbour(1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) pickOrDrop(k string) (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	grabbed := m.marks.grabbedID
	if grabbed == "" {
		if k == "m" {
			m.marks.grabbedID = t.ID
		}
		return m, nil
	}
	m.marks.grabbedID = ""
	if grabbed == t.ID {
		return m, nil
	}
	return m.reorder(grabbed, t.ID)
}

func (m appModel) swapWithNeighbour(delta int) (tea.Model, tea.Cmd) {
	t, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	seq := m.visibleTasks()
	j := m.list.Index() + delta
	if j < 0 || j >= len(seq) {
		return m, nil
	}
	return m.reorder(t.ID, seq[j].ID)
}

func (m appModel) reorder(draggedID, targetID string) (tea.Model, tea.Cmd) {
	if !m.ctrl.Reorder(m.ctx, draggedID, targetID) {
		return m, nil
	}
	m.refreshSelecting(draggedID)
	if !m.prefs().EnableAnimation {
		return m, nil
	}
	m.marks.flashID = draggedID
	m.flashSeq++
	seq := m.flashSeq
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m *appModel) maybeConfetti() tea.Cmd {
	if !m.prefs().ShowConfetti {
		return nil
	}
	if !tasklist.AllComplete(m.ctrl.List(m.ctx, "")) {
		return nil
	}
	m.confetti = true
	m.confettiSeq++
	seq := m.confettiSeq
	return tea.Tick(confettiDuration, func(time.Time) tea.Msg { return confettiDoneMsg{seq: seq} })
}
