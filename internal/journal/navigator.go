package journal

import (
	"fmt"

	"github.com/starford/folio/internal/apperr"
)

// Cursor is the editor view state. It is never persisted.
type Cursor struct {
	ChapterID int
	PageID    int
	Preview   bool
}

// Navigator moves a cursor over the chapters and pages of a Store and
// applies edits at the cursor position.
type Navigator struct {
	store  *Store
	cursor Cursor
}

// NewNavigator positions a navigator on the first page of the first chapter.
func NewNavigator(store *Store) *Navigator {
	n := &Navigator{store: store}
	first := store.doc.Chapters[0]
	n.cursor = Cursor{ChapterID: first.ID, PageID: first.Entries[0].ID}
	return n
}

// Cursor returns the current view state.
func (n *Navigator) Cursor() Cursor { return n.cursor }

// Position returns the current (chapter, page) pair.
func (n *Navigator) Position() (chapterID, pageID int) {
	return n.cursor.ChapterID, n.cursor.PageID
}

// Store returns the underlying document store.
func (n *Navigator) Store() *Store { return n.store }

func (n *Navigator) indexes() (ci, ei int) {
	ci = n.store.doc.chapterIndex(n.cursor.ChapterID)
	if ci < 0 {
		return -1, -1
	}
	return ci, n.store.doc.Chapters[ci].entryIndex(n.cursor.PageID)
}

// Current returns the chapter and entry under the cursor.
func (n *Navigator) Current() (Chapter, Entry) {
	ci, ei := n.indexes()
	if ci < 0 || ei < 0 {
		return Chapter{}, Entry{}
	}
	c := n.store.doc.Chapters[ci]
	return c, c.Entries[ei]
}

// Content returns the markdown of the current entry.
func (n *Navigator) Content() string {
	_, e := n.Current()
	return e.Content
}

// HasNext reports whether NextPage would move.
func (n *Navigator) HasNext() bool {
	ci, ei := n.indexes()
	chapters := n.store.doc.Chapters
	return ci >= 0 && (ei < len(chapters[ci].Entries)-1 || ci < len(chapters)-1)
}

// HasPrevious reports whether PreviousPage would move.
func (n *Navigator) HasPrevious() bool {
	ci, ei := n.indexes()
	return ci > 0 || ei > 0
}

// NextPage advances one page, crossing into the next chapter's first page at
// the end of a chapter. At the last page of the last chapter it does nothing.
func (n *Navigator) NextPage() bool {
	ci, ei := n.indexes()
	if ci < 0 {
		return false
	}
	chapters := n.store.doc.Chapters
	switch {
	case ei < len(chapters[ci].Entries)-1:
		n.cursor.PageID = chapters[ci].Entries[ei+1].ID
	case ci < len(chapters)-1:
		next := chapters[ci+1]
		n.cursor.ChapterID = next.ID
		n.cursor.PageID = next.Entries[0].ID
	default:
		return false
	}
	return true
}

// PreviousPage retreats one page, crossing into the previous chapter's last
// page at the start of a chapter. At the first page of the first chapter it
// does nothing.
func (n *Navigator) PreviousPage() bool {
	ci, ei := n.indexes()
	if ci < 0 {
		return false
	}
	chapters := n.store.doc.Chapters
	switch {
	case ei > 0:
		n.cursor.PageID = chapters[ci].Entries[ei-1].ID
	case ci > 0:
		prev := chapters[ci-1]
		n.cursor.ChapterID = prev.ID
		n.cursor.PageID = prev.Entries[len(prev.Entries)-1].ID
	default:
		return false
	}
	return true
}

// NewPage appends an empty page to the current chapter and moves to it.
func (n *Navigator) NewPage() error {
	e, err := n.store.AddPage(n.cursor.ChapterID)
	if e.ID != 0 {
		n.cursor.PageID = e.ID
	}
	return err
}

// NewChapter appends a new chapter and moves to its first page.
func (n *Navigator) NewChapter() error {
	c, err := n.store.AddChapter()
	n.cursor.ChapterID = c.ID
	n.cursor.PageID = c.Entries[0].ID
	return err
}

// SelectChapter jumps to the first page of chapter id.
func (n *Navigator) SelectChapter(id int) error {
	c, ok := n.store.doc.Chapter(id)
	if !ok {
		return fmt.Errorf("journal: chapter %d: %w", id, apperr.ErrNotFound)
	}
	n.cursor.ChapterID = c.ID
	n.cursor.PageID = c.Entries[0].ID
	return nil
}

// Edit replaces the content of the current page.
func (n *Navigator) Edit(content string) error {
	return n.store.SetContent(n.cursor.ChapterID, n.cursor.PageID, content)
}

// TogglePreview flips between edit and preview mode and returns the new mode.
func (n *Navigator) TogglePreview() bool {
	n.cursor.Preview = !n.cursor.Preview
	return n.cursor.Preview
}

// InsertImage inserts the markdown reference for img over the selection
// [start, end) of the current page (rune offsets) and saves. It returns the
// cursor offset just past the inserted text.
func (n *Navigator) InsertImage(img *Image, start, end int) (int, error) {
	content, cursor := InsertText(n.Content(), start, end, img.Markdown())
	if err := n.Edit(content); err != nil {
		return cursor, err
	}
	return cursor, nil
}

// Summary describes the current chapter.
func (n *Navigator) Summary() string {
	c, _ := n.Current()
	return fmt.Sprintf("This is a summary of Chapter %d. It contains %d pages.", c.ID, len(c.Entries))
}
