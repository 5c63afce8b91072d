package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskbar-cli/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "a", Title: "Buy *oat* milk"},
		{ID: "b", Title: "Call   mum\nback"},
		{ID: "c", Title: "Taxes", Completed: true},
	}
}

func TestRenderChecklist(t *testing.T) {
	t.Parallel()

	md, n := RenderChecklist(sampleTasks(), RenderOptions{})
	if n != 3 {
		t.Fatalf("expected 3 tasks rendered; got %d", n)
	}
	want := "# Tasks\n\n" +
		"- [ ] Buy \\*oat\\* milk\n" +
		"- [ ] Call mum back\n" +
		"- [x] Taxes\n"
	if md != want {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", md, want)
	}
}

func TestRenderChecklistSkipCompletedAndFooter(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 4, 22, 9, 0, 0, 0, time.UTC)
	md, n := RenderChecklist(sampleTasks(), RenderOptions{Title: "Today", SkipCompleted: true, GeneratedAt: at})
	if n != 2 {
		t.Fatalf("expected 2 tasks; got %d", n)
	}
	if strings.Contains(md, "Taxes") {
		t.Fatalf("completed task should be skipped:\n%s", md)
	}
	if !strings.HasPrefix(md, "# Today\n") || !strings.Contains(md, "2025-04-22T09:00:00Z") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}

	md, _ = RenderChecklist(nil, RenderOptions{})
	if !strings.Contains(md, "Nothing to do") {
		t.Fatalf("expected empty placeholder:\n%s", md)
	}
}

func TestWriteChecklistRefusesOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "tasks.md")
	res, err := WriteChecklist(sampleTasks(), path, WriteOptions{})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if res.Path != path || res.Tasks != 3 {
		t.Fatalf("unexpected result: %#v", res)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "- [x] Taxes") {
		t.Fatalf("unexpected file:\n%s", b)
	}

	if _, err := WriteChecklist(sampleTasks(), path, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "--overwrite") {
		t.Fatalf("expected overwrite error; got %v", err)
	}
	if _, err := WriteChecklist(nil, path, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := WriteChecklist(nil, " ", WriteOptions{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
