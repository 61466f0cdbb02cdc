package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/folio/internal/journal"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/testutil"
)

func newModel(t *testing.T) (Model, *journal.Navigator, storage.Provider) {
	t.Helper()
	p := testutil.TestProvider(t, storage.BackendFS)
	nav := testutil.TestJournal(t, p)
	return New(nav), nav, p
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keyOf(k tea.KeyType) tea.Msg { return tea.KeyMsg{Type: k} }

func typed(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func position(nav *journal.Navigator) [2]int {
	c, p := nav.Position()
	return [2]int{c, p}
}

func TestTypingWritesThrough(t *testing.T) {
	m, nav, p := newModel(t)
	m = send(m, typed("hello"))

	if nav.Content() != "hello" {
		t.Fatalf("content = %q", nav.Content())
	}
	if got := testutil.TestJournal(t, p).Content(); got != "hello" {
		t.Errorf("reloaded content = %q, want %q", got, "hello")
	}
	if m.editor.Value() != "hello" {
		t.Errorf("editor = %q", m.editor.Value())
	}
}

func TestPageKeys(t *testing.T) {
	m, nav, _ := newModel(t)
	m = send(m, typed("one"), keyOf(tea.KeyCtrlN))
	if got := position(nav); got != [2]int{1, 2} {
		t.Fatalf("after new page at %v", got)
	}
	if m.editor.Value() != "" {
		t.Errorf("new page editor = %q", m.editor.Value())
	}

	m = send(m, typed("two"), keyOf(tea.KeyPgUp))
	if got := position(nav); got != [2]int{1, 1} {
		t.Fatalf("after pgup at %v", got)
	}
	if m.editor.Value() != "one" {
		t.Errorf("editor = %q, want one", m.editor.Value())
	}

	// already at the first page
	m = send(m, keyOf(tea.KeyPgUp))
	if got := position(nav); got != [2]int{1, 1} {
		t.Errorf("pgup at start moved to %v", got)
	}

	m = send(m, keyOf(tea.KeyPgDown))
	if m.editor.Value() != "two" {
		t.Errorf("editor = %q, want two", m.editor.Value())
	}
}

func TestNewChapterKey(t *testing.T) {
	m, nav, _ := newModel(t)
	m = send(m, keyOf(tea.KeyCtrlT), keyOf(tea.KeyCtrlT), keyOf(tea.KeyCtrlT))
	if got := position(nav); got != [2]int{4, 1} {
		t.Errorf("position = %v, want [4 1]", got)
	}
	if !strings.Contains(m.View(), "Chapter 4") {
		t.Error("header should name the current chapter")
	}
}

func TestSelectChapterPrompt(t *testing.T) {
	m, nav, _ := newModel(t)
	m = send(m, keyOf(tea.KeyCtrlT), keyOf(tea.KeyCtrlT))

	m = send(m, keyOf(tea.KeyCtrlG))
	if m.mode != modeSelectChapter {
		t.Fatalf("mode = %v, want chapter prompt", m.mode)
	}
	m = send(m, typed("2"), keyOf(tea.KeyEnter))
	if got := position(nav); got != [2]int{2, 1} {
		t.Errorf("position = %v, want [2 1]", got)
	}
	if m.mode != modeEdit {
		t.Errorf("prompt should close, mode = %v", m.mode)
	}

	m = send(m, keyOf(tea.KeyCtrlG), typed("9"), keyOf(tea.KeyEnter))
	if !m.failed {
		t.Error("unknown chapter should report an error")
	}
	if got := position(nav); got != [2]int{2, 1} {
		t.Errorf("failed select moved to %v", got)
	}

	m = send(m, keyOf(tea.KeyCtrlG), typed("x"), keyOf(tea.KeyEsc))
	if m.mode != modeEdit || !strings.Contains(m.View(), "Chapter 2") {
		t.Error("esc should cancel the prompt")
	}
}

func TestInsertImagePrompt(t *testing.T) {
	m, nav, _ := newModel(t)
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o600); err != nil {
		t.Fatal(err)
	}
	img, err := journal.LoadImage(path)
	if err != nil {
		t.Fatal(err)
	}

	m = send(m, keyOf(tea.KeyCtrlO), typed(path), keyOf(tea.KeyEnter))
	if nav.Content() != img.Markdown() {
		t.Errorf("content = %q, want %q", nav.Content(), img.Markdown())
	}
	if m.failed {
		t.Errorf("unexpected error: %s", m.status)
	}
}

func TestInsertImagePrompt_Rejected(t *testing.T) {
	m, nav, _ := newModel(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o600); err != nil {
		t.Fatal(err)
	}

	m = send(m, keyOf(tea.KeyCtrlO), typed(path), keyOf(tea.KeyEnter))
	if !m.failed {
		t.Error("non-image should be reported")
	}
	if nav.Content() != "" {
		t.Errorf("content = %q, want empty", nav.Content())
	}
}

func TestPreviewToggle(t *testing.T) {
	m, nav, _ := newModel(t)
	m = send(m, typed("Heading"), keyOf(tea.KeyCtrlP))
	if m.mode != modePreview || !nav.Cursor().Preview {
		t.Fatal("ctrl+p should enter preview")
	}
	if !strings.Contains(m.View(), "Heading") {
		t.Error("preview should render the page")
	}

	m = send(m, typed("ignored"))
	if nav.Content() != "Heading" {
		t.Errorf("typing in preview changed content to %q", nav.Content())
	}

	m = send(m, keyOf(tea.KeyEsc))
	if m.mode != modeEdit || nav.Cursor().Preview {
		t.Error("esc should leave preview")
	}
}

func TestSummaryOverlay(t *testing.T) {
	m, _, _ := newModel(t)
	m = send(m, keyOf(tea.KeyCtrlN), keyOf(tea.KeyCtrlS))
	if !strings.Contains(m.View(), "This is a summary of Chapter 1. It contains 2 pages.") {
		t.Errorf("summary missing from view:\n%s", m.View())
	}
	m = send(m, keyOf(tea.KeyEsc))
	if m.mode != modeEdit {
		t.Errorf("mode = %v after closing summary", m.mode)
	}
}

func TestQuit(t *testing.T) {
	m, _, _ := newModel(t)
	_, cmd := m.Update(keyOf(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

type readOnly struct{ storage.Provider }

func (readOnly) Write(string, []byte) error { return errors.New("read-only journal") }

func TestSaveErrorShown(t *testing.T) {
	p := testutil.TestProvider(t, storage.BackendFS)
	nav := testutil.TestJournal(t, readOnly{p})
	m := send(New(nav), typed("draft"))

	if !m.failed || !strings.Contains(m.View(), "read-only journal") {
		t.Errorf("save error should show in the status line, got %q", m.status)
	}
	if nav.Content() != "draft" {
		t.Errorf("edit lost: %q", nav.Content())
	}
}

func TestEditKeepsUntouchedText(t *testing.T) {
	p := testutil.TestProvider(t, storage.BackendFS)
	nav := testutil.TestJournal(t, p)
	const stored = "col1\tcol2\r\nline2"
	if err := nav.Edit(stored); err != nil {
		t.Fatal(err)
	}

	m := send(New(nav), typed("!"))
	if got := nav.Content(); got != stored+"!" {
		t.Fatalf("content = %q, want %q", got, stored+"!")
	}

	send(m, keyOf(tea.KeyBackspace), keyOf(tea.KeyBackspace))
	if got := testutil.TestJournal(t, p).Content(); got != "col1\tcol2\r\nline" {
		t.Errorf("reloaded content = %q", got)
	}
}

func TestSavedAtStatus(t *testing.T) {
	m, _, _ := newModel(t)
	m.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC) }

	if strings.Contains(m.View(), "saved at") {
		t.Fatal("nothing saved yet")
	}
	m = send(m, typed("x"))
	if m.failed || !strings.Contains(m.View(), "saved at 09:30:15") {
		t.Errorf("status = %q", m.status)
	}

	m.status = ""
	m = send(m, keyOf(tea.KeyCtrlN))
	if m.status != "saved at 09:30:15" {
		t.Errorf("new page status = %q", m.status)
	}
}

func TestSelectChapterPrompt_ListsIDs(t *testing.T) {
	p := testutil.TestProvider(t, storage.BackendFS)
	doc := &journal.Document{Chapters: []journal.Chapter{
		{ID: 1, Title: "Chapter 1", Entries: []journal.Entry{{ID: 1}}},
		{ID: 3, Title: "Chapter 3", Entries: []journal.Entry{{ID: 1}}},
	}}
	data, err := doc.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Write(journal.DefaultKey, data); err != nil {
		t.Fatal(err)
	}

	m := send(New(testutil.TestJournal(t, p)), keyOf(tea.KeyCtrlG))
	if m.prompt.Placeholder != "1, 3" {
		t.Errorf("placeholder = %q, want %q", m.prompt.Placeholder, "1, 3")
	}
}
