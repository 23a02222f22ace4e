package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// MockBookStore implements store.BookStore for testing. When Categories,
// Authors or Editors are set, creates and updates pointing at a missing row
// fail with store.ErrInvalidEntity, like the foreign keys in PostgreSQL.
type MockBookStore struct {
	ListFn    func(ctx context.Context, filter store.BookFilter) ([]domain.Book, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Book, error)
	CreateFn  func(ctx context.Context, book *domain.Book) error
	UpdateFn  func(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error)
	DeleteFn  func(ctx context.Context, id int64) (*domain.Book, error)

	Categories *MockCategoryStore
	Authors    *MockAuthorStore
	Editors    *MockEditorStore

	mu     sync.Mutex
	Books  map[int64]*domain.Book
	nextID int64
	clock  time.Time
}

// NewMockBookStore creates a new mock store with initialized defaults
func NewMockBookStore() *MockBookStore {
	return &MockBookStore{
		Books: make(map[int64]*domain.Book),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// List implements the BookStore interface
func (m *MockBookStore) List(ctx context.Context, filter store.BookFilter) ([]domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	books := make([]domain.Book, 0, len(m.Books))
	for _, b := range m.Books {
		switch {
		case !containsFold(b.Title, filter.Title):
		case filter.CategoryID != 0 && b.CategoryID != filter.CategoryID:
		case filter.AuthorID != 0 && b.AuthorID != filter.AuthorID:
		case filter.EditorID != 0 && (b.EditorID == nil || *b.EditorID != filter.EditorID):
		default:
			books = append(books, *b)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		if filter.ByTitle || books[i].CreatedAt.Equal(books[j].CreatedAt) {
			if books[i].Title != books[j].Title {
				return books[i].Title < books[j].Title
			}
			return books[i].ID < books[j].ID
		}
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	return limitSlice(books, filter.Limit), nil
}

// GetByID implements the BookStore interface
func (m *MockBookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.Books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	found := *b
	return &found, nil
}

// Create implements the BookStore interface. Each new book is one second
// newer than the previous one.
func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, book)
	}
	if err := m.checkReferences(&book.CategoryID, &book.AuthorID, book.EditorID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	book.AverageRating = roundAverage(book.AverageRating)
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	book.ID = m.nextID
	book.CreatedAt = m.clock
	stored := *book
	m.Books[book.ID] = &stored
	return nil
}

// Update implements the BookStore interface
func (m *MockBookStore) Update(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	if err := m.checkReferences(patch.CategoryID, patch.AuthorID, patch.EditorID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.Books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Pages != nil {
		b.Pages = *patch.Pages
	}
	if patch.Excerpt != nil {
		b.Excerpt = patch.Excerpt
	}
	if patch.Summary != nil {
		b.Summary = patch.Summary
	}
	if patch.EditionYear != nil {
		b.EditionYear = patch.EditionYear
	}
	if patch.AverageRating != nil {
		b.AverageRating = roundAverage(patch.AverageRating)
	}
	if patch.CoverImage != nil {
		b.CoverImage = patch.CoverImage
	}
	if patch.CategoryID != nil {
		b.CategoryID = *patch.CategoryID
	}
	if patch.AuthorID != nil {
		b.AuthorID = *patch.AuthorID
	}
	if patch.EditorID != nil {
		b.EditorID = patch.EditorID
	}
	updated := *b
	return &updated, nil
}

// Delete implements the BookStore interface
func (m *MockBookStore) Delete(ctx context.Context, id int64) (*domain.Book, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.Books[id]
	if !ok {
		return nil, store.ErrBookNotFound
	}
	delete(m.Books, id)
	return b, nil
}

// WithTx implements the BookStore interface
func (m *MockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return m
}

// references reports whether any book satisfies match.
func (m *MockBookStore) references(match func(b *domain.Book) bool) bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Books {
		if match(b) {
			return true
		}
	}
	return false
}

// checkReferences fails when a non-nil id names a missing row in a linked store.
func (m *MockBookStore) checkReferences(categoryID, authorID, editorID *int64) error {
	missing := func(column string) error {
		return fmt.Errorf("%w: foreign key violation (t_ouvrage_%s_fkey)", store.ErrInvalidEntity, column)
	}
	if categoryID != nil && m.Categories != nil && !m.Categories.exists(*categoryID) {
		return missing("id_categorie")
	}
	if authorID != nil && m.Authors != nil && !m.Authors.exists(*authorID) {
		return missing("id_auteur")
	}
	if editorID != nil && m.Editors != nil && !m.Editors.exists(*editorID) {
		return missing("id_editeur")
	}
	return nil
}

// clearEditor sets the editor of matching books to nil.
func (m *MockBookStore) clearEditor(editorID int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Books {
		if b.EditorID != nil && *b.EditorID == editorID {
			b.EditorID = nil
		}
	}
}

// roundAverage keeps two decimals, the scale of the average rating column.
func roundAverage(avg *float64) *float64 {
	if avg == nil {
		return nil
	}
	rounded := math.Round(*avg*100) / 100
	return &rounded
}
