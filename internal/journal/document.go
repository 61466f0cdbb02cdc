// Package journal holds the multi-chapter markdown journal: its document
// model, the write-through store, and the page navigator.
package journal

import (
	"encoding/json"
	"fmt"

	"github.com/starford/folio/internal/apperr"
)

// Entry is one page of markdown text.
type Entry struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// Chapter is a titled, ordered group of entries.
type Chapter struct {
	ID      int     `json:"id"`
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

// Document is the persisted journal.
type Document struct {
	Chapters []Chapter `json:"chapters"`
}

// NewDocument returns the default document: one chapter with one empty entry.
func NewDocument() *Document {
	return &Document{Chapters: []Chapter{newChapter(1)}}
}

func newChapter(id int) Chapter {
	return Chapter{
		ID:      id,
		Title:   ChapterTitle(id),
		Entries: []Entry{{ID: 1, Content: ""}},
	}
}

// ChapterTitle is the auto-numbered title given to a new chapter.
func ChapterTitle(id int) string {
	return fmt.Sprintf("Chapter %d", id)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{Chapters: make([]Chapter, len(d.Chapters))}
	for i, c := range d.Chapters {
		c.Entries = append([]Entry(nil), c.Entries...)
		out.Chapters[i] = c
	}
	return out
}

// chapterIndex returns the slice index of chapter id, or -1.
func (d *Document) chapterIndex(id int) int {
	for i, c := range d.Chapters {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Chapter returns the chapter with the given id.
func (d *Document) Chapter(id int) (Chapter, bool) {
	i := d.chapterIndex(id)
	if i < 0 {
		return Chapter{}, false
	}
	return d.Chapters[i], true
}

func (c *Chapter) entryIndex(id int) int {
	for i, e := range c.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// nextChapterID returns one past the highest chapter id.
func (d *Document) nextChapterID() int {
	n := 0
	for _, c := range d.Chapters {
		n = max(n, c.ID)
	}
	return n + 1
}

// Validate checks the structural invariants: at least one chapter, every
// chapter non-empty, unique positive chapter ids, and entry ids equal to
// their 1-based position.
func (d *Document) Validate() error {
	if len(d.Chapters) == 0 {
		return fmt.Errorf("journal: no chapters: %w", apperr.ErrCorruptState)
	}
	seen := make(map[int]struct{}, len(d.Chapters))
	for _, c := range d.Chapters {
		if c.ID <= 0 {
			return fmt.Errorf("journal: chapter id %d: %w", c.ID, apperr.ErrCorruptState)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("journal: duplicate chapter id %d: %w", c.ID, apperr.ErrCorruptState)
		}
		seen[c.ID] = struct{}{}
		if len(c.Entries) == 0 {
			return fmt.Errorf("journal: chapter %d has no entries: %w", c.ID, apperr.ErrCorruptState)
		}
		for i, e := range c.Entries {
			if e.ID != i+1 {
				return fmt.Errorf("journal: chapter %d entry %d out of order: %w", c.ID, e.ID, apperr.ErrCorruptState)
			}
		}
	}
	return nil
}

// Decode parses a persisted document. Both the object form
// {"chapters":[...]} and the legacy bare array of chapters are accepted.
// The result is checked with Validate.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		var chapters []Chapter
		if legacyErr := json.Unmarshal(data, &chapters); legacyErr != nil {
			return nil, fmt.Errorf("journal: decode: %w: %w", apperr.ErrCorruptState, err)
		}
		doc.Chapters = chapters
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Encode serialises the whole document.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("journal: encode: %w", err)
	}
	return data, nil
}
