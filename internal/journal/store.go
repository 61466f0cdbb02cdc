package journal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/storage"
)

// DefaultKey is the storage key the journal document lives under.
const DefaultKey = "journalChapters"

// Store owns the in-memory document and mirrors it to a storage.Provider.
// Every mutation writes the whole document back before returning.
type Store struct {
	provider storage.Provider
	key      string
	logger   *slog.Logger
	doc      *Document
}

// NewStore creates a Store over p. The store starts with the default
// document until Load is called.
func NewStore(p storage.Provider, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{provider: p, key: key, logger: logger, doc: NewDocument()}
}

// Load reads the persisted document. A missing or unusable record falls
// back to the default document without error. Only I/O failures other than
// a missing key are returned, and the store then keeps the default document
// in memory.
func (s *Store) Load() error {
	data, err := s.provider.Read(s.key)
	if err != nil {
		s.doc = NewDocument()
		if errors.Is(err, apperr.ErrNotFound) {
			s.logger.Debug("journal: no saved document, starting fresh", slog.String("key", s.key))
			return nil
		}
		return fmt.Errorf("journal: load: %w", err)
	}

	doc, err := Decode(data)
	if err != nil {
		s.logger.Warn("journal: discarding unreadable document",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		s.doc = NewDocument()
		return nil
	}
	s.doc = doc
	s.logger.Debug("journal: loaded", slog.String("key", s.key), slog.Int("chapters", len(doc.Chapters)))
	return nil
}

// Save writes the whole document under the store key.
func (s *Store) Save() error {
	data, err := s.doc.Encode()
	if err != nil {
		return err
	}
	if err := s.provider.Write(s.key, data); err != nil {
		return fmt.Errorf("journal: save: %w", err)
	}
	return nil
}

// Document returns a copy of the current document.
func (s *Store) Document() *Document {
	return s.doc.Clone()
}

// Chapter returns a copy of chapter id.
func (s *Store) Chapter(id int) (Chapter, bool) {
	c, ok := s.doc.Chapter(id)
	if !ok {
		return Chapter{}, false
	}
	c.Entries = append([]Entry(nil), c.Entries...)
	return c, true
}

// Chapters returns the number of chapters.
func (s *Store) Chapters() int { return len(s.doc.Chapters) }

// AddPage appends an empty entry to chapter id and saves.
func (s *Store) AddPage(chapterID int) (Entry, error) {
	i := s.doc.chapterIndex(chapterID)
	if i < 0 {
		return Entry{}, fmt.Errorf("journal: chapter %d: %w", chapterID, apperr.ErrNotFound)
	}
	c := &s.doc.Chapters[i]
	e := Entry{ID: len(c.Entries) + 1}
	c.Entries = append(c.Entries, e)
	return e, s.Save()
}

// AddChapter appends a new auto-titled chapter with one empty entry and saves.
func (s *Store) AddChapter() (Chapter, error) {
	c := newChapter(s.doc.nextChapterID())
	s.doc.Chapters = append(s.doc.Chapters, c)
	return c, s.Save()
}

// SetContent replaces the content of one entry and saves. Nothing else in
// the document changes.
func (s *Store) SetContent(chapterID, entryID int, content string) error {
	i := s.doc.chapterIndex(chapterID)
	if i < 0 {
		return fmt.Errorf("journal: chapter %d: %w", chapterID, apperr.ErrNotFound)
	}
	c := &s.doc.Chapters[i]
	j := c.entryIndex(entryID)
	if j < 0 {
		return fmt.Errorf("journal: chapter %d page %d: %w", chapterID, entryID, apperr.ErrNotFound)
	}
	c.Entries[j].Content = content
	return s.Save()
}
