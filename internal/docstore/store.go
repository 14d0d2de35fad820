// Package docstore keeps registered documents and their OCR page text
// in memory. Documents are working-set artifacts of a review session,
// not durable records, so an in-process store with copy-out semantics
// is the whole persistence story.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Gurmittoor/hyperlinklaw/internal/corpus"
)

// ErrNotFound is returned when a document ID is unknown.
var ErrNotFound = errors.New("document not found")

// Document is one registered document and its OCR pages.
type Document struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Pages     []corpus.PageText `json:"pages,omitempty"`
	PageCount int               `json:"pageCount"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Store is an in-memory document store. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	logger *slog.Logger
}

// NewStore creates an empty store; logger may be nil.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		docs:   make(map[string]*Document),
		logger: logger,
	}
}

// Create registers a new document and returns it with a fresh ID.
func (s *Store) Create(ctx context.Context, title string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &Document{
		ID:        uuid.New().String(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	s.logger.Info("document created", "doc_id", doc.ID, "title", title)
	return copyDoc(doc), nil
}

// Get returns a copy of the document, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	doc, ok := s.docs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copyDoc(doc), nil
}

// List returns all documents without their page text, newest first.
func (s *Store) List(ctx context.Context) ([]*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		d := copyDoc(doc)
		d.Pages = nil
		out = append(out, d)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SetPages replaces the document's OCR pages. Hashes are filled in for
// pages that arrive without one, and pages are kept in page order.
func (s *Store) SetPages(ctx context.Context, id string, pages []corpus.PageText) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range pages {
		if pages[i].PageNumber < 1 {
			return nil, fmt.Errorf("page %d: page numbers are 1-based", pages[i].PageNumber)
		}
		pages[i].EnsureHash()
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].PageNumber < pages[j].PageNumber
	})

	s.mu.Lock()
	doc, ok := s.docs[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	doc.Pages = pages
	doc.PageCount = len(pages)
	doc.UpdatedAt = time.Now().UTC()
	s.mu.Unlock()

	s.logger.Info("document pages stored", "doc_id", id, "pages", len(pages))
	return copyDoc(doc), nil
}

// Delete removes a document. Deleting an unknown ID is ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.docs, id)
	return nil
}

// copyDoc returns a deep enough copy that callers cannot mutate stored
// state through the returned document.
func copyDoc(doc *Document) *Document {
	d := *doc
	if doc.Pages != nil {
		d.Pages = make([]corpus.PageText, len(doc.Pages))
		copy(d.Pages, doc.Pages)
	}
	return &d
}
