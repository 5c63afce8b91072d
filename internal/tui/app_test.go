package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"taskbar-cli/internal/clock"
	"taskbar-cli/internal/model"
	"taskbar-cli/internal/store"
	"taskbar-cli/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

var testStart = time.Date(2025, 4, 22, 9, 0, 0, 0, time.UTC)

type harness struct {
	m   appModel
	mem *store.Memory
	clk *clock.Manual
	dir string
}

func newHarness(t *testing.T, prefs func(p *model.Preferences), tasks ...model.Task) *harness {
	t.Helper()
	clk := clock.NewManual(testStart)
	mem := store.NewMemory()
	mem.Now = clk.Now
	for _, tk := range tasks {
		if tk.CreatedAt.IsZero() {
			tk.CreatedAt = testStart
		}
		if err := mem.RestoreTask(context.Background(), tk); err != nil {
			t.Fatalf("seed %s: %v", tk.ID, err)
		}
	}

	lg := logrus.New()
	lg.SetOutput(io.Discard)

	cfg := store.DefaultConfig()
	if prefs != nil {
		prefs(&cfg.Preferences)
	}
	dir := t.TempDir()
	m := newAppModel(context.Background(), Options{
		Controller: tasklist.New(mem, clk, lg),
		Config:     cfg,
		ConfigDir:  dir,
		Log:        lg,
	})
	return &harness{m: m, mem: mem, clk: clk, dir: dir}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	m, ok := next.(appModel)
	if !ok {
		t.Fatalf("Update returned %T, want appModel", next)
	}
	h.m = m
	return cmd
}

func (h *harness) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		h.send(t, keyMsg(k))
	}
}

func (h *harness) typeText(t *testing.T, s string) {
	t.Helper()
	h.send(t, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) visibleIDs() []string {
	var out []string
	for _, t := range h.m.visibleTasks() {
		out = append(out, t.ID)
	}
	return out
}

func threeTasks() []model.Task {
	return []model.Task{
		{ID: "A", Title: "Alpha", OrderKey: 3},
		{ID: "B", Title: "Bravo", OrderKey: 2},
		{ID: "C", Title: "Charlie", OrderKey: 1},
	}
}

func TestAddTaskFromInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.press(t, "a")
	if h.m.focus != focusAdd {
		t.Fatalf("expected add input to be focused")
	}
	h.typeText(t, "Buy milk")
	h.press(t, "enter")

	tasks := h.m.visibleTasks()
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("expected one task titled Buy milk; got %#v", tasks)
	}
	if got := h.m.add.Value(); got != "" {
		t.Fatalf("expected add input cleared after submit; got %q", got)
	}

	// Whitespace-only submissions are ignored.
	h.typeText(t, "   ")
	h.press(t, "enter", "esc")
	if n := len(h.m.visibleTasks()); n != 1 {
		t.Fatalf("expected blank title to be ignored; got %d tasks", n)
	}
	if h.m.focus != focusList {
		t.Fatalf("expected esc to return focus to the list")
	}
}

func TestToggleLastOpenTaskShowsConfetti(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil,
		model.Task{ID: "A", Title: "Alpha", OrderKey: 2},
		model.Task{ID: "B", Title: "Bravo", OrderKey: 1, Completed: true},
	)

	cmd := h.send(t, keyMsg(" "))
	if !h.m.confetti {
		t.Fatalf("expected confetti after completing the last open task")
	}
	if cmd == nil {
		t.Fatalf("expected a tick to end the confetti")
	}
	if !strings.Contains(h.m.View(), "All done!") {
		t.Fatalf("expected confetti banner in view:\n%s", h.m.View())
	}

	h.send(t, confettiDoneMsg{seq: h.m.confettiSeq})
	if h.m.confetti {
		t.Fatalf("expected confetti to end")
	}
}

func TestConfettiRespectsPreference(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(p *model.Preferences) { p.ShowConfetti = false },
		model.Task{ID: "A", Title: "Alpha", OrderKey: 1},
	)
	h.press(t, " ")
	if h.m.confetti {
		t.Fatalf("expected no confetti when disabled")
	}
	if !h.m.visibleTasks()[0].Completed {
		t.Fatalf("expected task to be completed")
	}
}

func TestDeleteThenUndoRestoresTask(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)
	before := h.m.visibleTasks()

	h.press(t, "down", "d")
	if diff := cmp.Diff([]string{"A", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("after delete (-want +got):\n%s", diff)
	}
	if !h.m.undoVisible {
		t.Fatalf("expected undo banner")
	}
	if v := h.m.View(); !strings.Contains(v, "u to undo (5s)") {
		t.Fatalf("expected undo countdown in view:\n%s", v)
	}

	h.clk.Advance(2 * time.Second)
	h.press(t, "u")
	if diff := cmp.Diff(before, h.m.visibleTasks()); diff != "" {
		t.Fatalf("undo should restore the list (-want +got):\n%s", diff)
	}
	if h.m.undoVisible {
		t.Fatalf("expected undo banner hidden after undo")
	}
	if h.m.selectedID() != "B" {
		t.Fatalf("expected restored task selected; got %q", h.m.selectedID())
	}
}

func TestUndoBannerExpires(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)

	h.press(t, "d")
	h.clk.Advance(tasklist.UndoWindow)
	h.send(t, undoTickMsg{seq: h.m.undoSeq})
	if h.m.undoVisible {
		t.Fatalf("expected undo banner to disappear after expiry")
	}

	h.press(t, "u")
	if diff := cmp.Diff([]string{"B", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("expired undo must not restore (-want +got):\n%s", diff)
	}
}

func TestDeleteWithoutUndoPreference(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(p *model.Preferences) { p.EnableUndoDelete = false }, threeTasks()...)

	h.press(t, "d")
	if h.m.undoVisible {
		t.Fatalf("expected no undo banner when undo is disabled")
	}
	h.press(t, "u")
	if n := len(h.m.visibleTasks()); n != 2 {
		t.Fatalf("expected 2 tasks; got %d", n)
	}
}

func TestDeleteAllAsksForConfirmation(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)

	h.press(t, "D")
	if !strings.Contains(h.m.View(), "Delete all tasks? (y/n)") {
		t.Fatalf("expected confirmation prompt:\n%s", h.m.View())
	}
	h.press(t, "n")
	if n := len(h.m.visibleTasks()); n != 3 {
		t.Fatalf("expected cancel to keep tasks; got %d", n)
	}

	h.press(t, "D", "y")
	if n := len(h.m.visibleTasks()); n != 0 {
		t.Fatalf("expected all tasks deleted; got %d", n)
	}
	if h.m.confirmDeleteAll {
		t.Fatalf("expected prompt dismissed")
	}
}

func TestPickUpAndDrop(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)

	h.press(t, "m")
	if h.m.marks.grabbedID != "A" {
		t.Fatalf("expected A grabbed; got %q", h.m.marks.grabbedID)
	}
	h.press(t, "down", "down", "m")

	if diff := cmp.Diff([]string{"B", "C", "A"}, h.visibleIDs()); diff != "" {
		t.Fatalf("after drop (-want +got):\n%s", diff)
	}
	if h.m.marks.grabbedID != "" {
		t.Fatalf("expected nothing grabbed after drop")
	}
	if h.m.selectedID() != "A" {
		t.Fatalf("expected cursor to follow moved task; got %q", h.m.selectedID())
	}
	if h.m.marks.flashID != "A" {
		t.Fatalf("expected moved row highlighted")
	}
	h.send(t, flashDoneMsg{seq: h.m.flashSeq})
	if h.m.marks.flashID != "" {
		t.Fatalf("expected highlight cleared")
	}
}

func TestDropOnSelfAndEscCancel(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)

	h.press(t, "m", "enter")
	h.press(t, "down", "m", "esc")
	if h.m.marks.grabbedID != "" {
		t.Fatalf("expected esc to cancel the grab")
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("order should be unchanged (-want +got):\n%s", diff)
	}
}

func TestSwapWithNeighbour(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(p *model.Preferences) { p.EnableAnimation = false }, threeTasks()...)

	h.press(t, "down", "K")
	if diff := cmp.Diff([]string{"B", "A", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("after K (-want +got):\n%s", diff)
	}
	if h.m.marks.flashID != "" {
		t.Fatalf("expected no highlight with animation off")
	}

	h.press(t, "J")
	if diff := cmp.Diff([]string{"A", "B", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("after J (-want +got):\n%s", diff)
	}

	// First row has nothing above it.
	h.press(t, "up", "up", "K")
	if diff := cmp.Diff([]string{"A", "B", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("K on first row should be a no-op (-want +got):\n%s", diff)
	}
}

func TestSearchFiltersList(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)

	h.press(t, "/")
	h.typeText(t, "AR")
	if diff := cmp.Diff([]string{"C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("filtered (-want +got):\n%s", diff)
	}

	h.press(t, "enter")
	if h.m.focus != focusList || h.m.filter != "AR" {
		t.Fatalf("expected enter to keep the filter and focus the list")
	}

	h.press(t, "esc")
	if diff := cmp.Diff([]string{"A", "B", "C"}, h.visibleIDs()); diff != "" {
		t.Fatalf("esc should clear the filter (-want +got):\n%s", diff)
	}
}

func TestHeaderBadge(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)
	if !strings.Contains(h.m.viewHeader(), "3") {
		t.Fatalf("expected badge with remaining count; got %q", h.m.viewHeader())
	}

	h2 := newHarness(t, func(p *model.Preferences) { p.ShowMenuBarBadge = false }, threeTasks()...)
	if strings.Contains(h2.m.viewHeader(), "3") {
		t.Fatalf("expected no badge when disabled; got %q", h2.m.viewHeader())
	}
}

func TestSettingsPersist(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)

	h.press(t, "tab")
	if h.m.view != viewSettings {
		t.Fatalf("expected settings view")
	}
	// Animation off, then auto reset from off to daily.
	h.press(t, " ")
	h.press(t, "down", "down", "down", "down")
	h.press(t, " ")

	cfg, err := store.LoadConfig(h.dir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Preferences.EnableAnimation {
		t.Fatalf("expected enableAnimation=false persisted")
	}
	if cfg.Preferences.AutoReset != model.ResetDaily {
		t.Fatalf("expected autoReset=daily; got %q", cfg.Preferences.AutoReset)
	}
	if cfg.LastResetAt == nil || !cfg.LastResetAt.Equal(testStart) {
		t.Fatalf("expected reset period to start now; got %v", cfg.LastResetAt)
	}

	h.press(t, "tab")
	if h.m.view != viewList {
		t.Fatalf("expected tab to return to the list")
	}
}

func TestDisablingUndoDiscardsPendingUndo(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)

	h.press(t, "d", "tab", "down", " ")
	if h.m.undoVisible {
		t.Fatalf("expected banner hidden")
	}
	if _, _, ok := h.m.ctrl.PendingUndo(); ok {
		t.Fatalf("expected pending undo discarded")
	}
}

func TestReloadTickAppliesAutoReset(t *testing.T) {
	t.Parallel()
	h := newHarness(t, func(p *model.Preferences) { p.AutoReset = model.ResetDaily },
		model.Task{ID: "A", Title: "Alpha", OrderKey: 2, Completed: true},
		model.Task{ID: "B", Title: "Bravo", OrderKey: 1},
	)
	last := testStart.Add(-25 * time.Hour)
	h.m.cfg.LastResetAt = &last

	h.send(t, reloadTickMsg{})
	if diff := cmp.Diff([]string{"B"}, h.visibleIDs()); diff != "" {
		t.Fatalf("after auto reset (-want +got):\n%s", diff)
	}
	if !h.m.cfg.LastResetAt.Equal(testStart) {
		t.Fatalf("expected lastResetAt advanced; got %v", h.m.cfg.LastResetAt)
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil, threeTasks()...)
	h.press(t, "?")
	if !h.m.showHelp {
		t.Fatalf("expected help overlay")
	}
	h.press(t, "d")
	if n := len(h.m.visibleTasks()); n != 3 {
		t.Fatalf("keys must not reach the list while help is open")
	}
	h.press(t, "?")
	if h.m.showHelp {
		t.Fatalf("expected help closed")
	}
}

func TestQuitKeys(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	cmd := h.send(t, keyMsg("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestExpiredUndoDoesNotHideConfetti(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil,
		model.Task{ID: "A", Title: "Alpha", OrderKey: 2},
		model.Task{ID: "B", Title: "Bravo", OrderKey: 1},
	)

	h.press(t, "down", "d")
	h.clk.Advance(tasklist.UndoWindow)
	if !h.m.undoVisible {
		t.Fatalf("banner flag is only cleared by the next undo tick")
	}

	h.press(t, " ")
	if !h.m.confetti {
		t.Fatalf("expected confetti after completing the last task")
	}
	if b := h.m.viewBanner(); !strings.Contains(b, "All done!") {
		t.Fatalf("expected confetti banner once the undo window closed; got %q", b)
	}
}

func TestModelUsesControllerClock(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	if h.m.clock != h.m.ctrl.Clock() {
		t.Fatalf("expected the model to share the controller's clock")
	}
	if h.m.clock != clock.Clock(h.clk) {
		t.Fatalf("expected the injected manual clock")
	}
}
