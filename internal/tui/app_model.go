package tui

import (
	"context"
	"time"

	"taskbar-cli/internal/clock"
	"taskbar-cli/internal/model"
	"taskbar-cli/internal/store"
	"taskbar-cli/internal/tasklist"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

type view int

const (
	viewList view = iota
	viewSettings
)

type focus int

const (
	focusList focus = iota
	focusSearch
	focusAdd
)

const (
	reloadInterval   = time.Second
	undoTickInterval = 250 * time.Millisecond
	flashDuration    = 600 * time.Millisecond
	confettiDuration = 2500 * time.Millisecond
)

type reloadTickMsg struct{}

type undoTickMsg struct{ seq int }

type flashDoneMsg struct{ seq int }

type confettiDoneMsg struct{ seq int }

type appModel struct {
	ctx       context.Context
	ctrl      *tasklist.Controller
	cfg       *store.Config
	configDir string
	log       logrus.FieldLogger
	clock     clock.Clock

	width  int
	height int

	view  view
	focus focus

	search textinput.Model
	add    textinput.Model
	list   list.Model
	marks  *rowMarks

	filter    string
	remaining int
	total     int

	undoVisible bool
	undoSeq     int

	flashSeq int

	confetti    bool
	confettiSeq int

	confirmDeleteAll bool
	showHelp         bool

	settingsIdx int
	status      string
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = store.DefaultConfig()
	}
	lg := opts.Log
	if lg == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		lg = l
	}
	clk := opts.Controller.Clock()

	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "
	search.CharLimit = 200

	add := textinput.New()
	add.Placeholder = "Add a task"
	add.Prompt = "+ "
	add.CharLimit = 500

	marks := &rowMarks{}
	l := list.New(nil, newTaskDelegate(marks), 40, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	// Letters used by the app itself must not page the list.
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup", "left"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown", "right"))

	m := appModel{
		ctx:       ctx,
		ctrl:      opts.Controller,
		cfg:       cfg,
		configDir: opts.ConfigDir,
		log:       lg,
		clock:     clk,
		width:     48,
		height:    16,
		search:    search,
		add:       add,
		list:      l,
		marks:     marks,
	}
	m.resize()
	m.refresh()
	if _, _, ok := m.ctrl.PendingUndo(); ok {
		m.undoVisible = true
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(reloadTick(), m.undoTickCmd())
}

func reloadTick() tea.Cmd {
	return tea.Tick(reloadInterval, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m *appModel) prefs() model.Preferences {
	return m.cfg.Preferences
}

// resize fits the list between the header/input rows and the footer.
func (m *appModel) resize() {
	w := m.width
	if w < 20 {
		w = 20
	}
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w, h)
	m.search.Width = w - 4
	m.add.Width = w - 4
}

// refresh re-reads the display sequence, keeping the cursor on the same task when possible.
func (m *appModel) refresh() {
	m.refreshSelecting(m.selectedID())
}

func (m *appModel) refreshSelecting(id string) {
	tasks := m.ctrl.List(m.ctx, m.filter)
	items := make([]list.Item, 0, len(tasks))
	idx := -1
	for i, t := range tasks {
		items = append(items, taskItem{task: t})
		if t.ID == id {
			idx = i
		}
	}
	cur := m.list.Index()
	m.list.SetItems(items)
	switch {
	case idx >= 0:
		m.list.Select(idx)
	case cur >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	}

	m.remaining = 0
	m.total = 0
	for _, t := range m.ctrl.List(m.ctx, "") {
		m.total++
		if !t.Completed {
			m.remaining++
		}
	}
	if m.marks.grabbedID != "" && m.indexOf(m.marks.grabbedID) < 0 && m.filter == "" {
		m.marks.grabbedID = ""
	}
}

func (m *appModel) selectedTask() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m *appModel) selectedID() string {
	t, ok := m.selectedTask()
	if !ok {
		return ""
	}
	return t.ID
}

func (m *appModel) indexOf(id string) int {
	for i, it := range m.list.Items() {
		if ti, ok := it.(taskItem); ok && ti.task.ID == id {
			return i
		}
	}
	return -1
}

func (m *appModel) visibleTasks() []model.Task {
	items := m.list.Items()
	out := make([]model.Task, 0, len(items))
	for _, it := range items {
		if ti, ok := it.(taskItem); ok {
			out = append(out, ti.task)
		}
	}
	return out
}

func (m *appModel) undoTickCmd() tea.Cmd {
	seq := m.undoSeq
	return tea.Tick(undoTickInterval, func(time.Time) tea.Msg { return undoTickMsg{seq: seq} })
}

func (m *appModel) applyAutoReset() {
	var prev time.Time
	if m.cfg.LastResetAt != nil {
		prev = *m.cfg.LastResetAt
	}
	next, n := m.ctrl.ApplyAutoReset(m.ctx, m.cfg.Preferences.AutoReset, prev)
	if next.Equal(prev) {
		return
	}
	m.cfg.LastResetAt = &next
	m.saveConfig()
	if n > 0 {
		m.status = "auto reset cleared completed tasks"
	}
}

func (m *appModel) saveConfig() {
	if m.configDir == "" {
		return
	}
	if err := store.SaveConfig(m.configDir, m.cfg); err != nil {
		m.log.WithError(err).Warn("save config failed")
		m.status = "could not save settings"
	}
}
