package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// MockAuthorStore implements store.AuthorStore for testing. When Books is
// set, deleting an author with books fails with store.ErrReferenced.
type MockAuthorStore struct {
	ListFn    func(ctx context.Context, opts store.ListOptions) ([]domain.Author, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Author, error)
	CreateFn  func(ctx context.Context, author *domain.Author) error
	UpdateFn  func(ctx context.Context, id int64, patch domain.AuthorPatch) (*domain.Author, error)
	DeleteFn  func(ctx context.Context, id int64) (*domain.Author, error)

	Books *MockBookStore

	mu      sync.Mutex
	Authors map[int64]*domain.Author
	nextID  int64
}

// NewMockAuthorStore creates a new mock store with initialized defaults
func NewMockAuthorStore() *MockAuthorStore {
	return &MockAuthorStore{Authors: make(map[int64]*domain.Author)}
}

// List implements the AuthorStore interface
func (m *MockAuthorStore) List(ctx context.Context, opts store.ListOptions) ([]domain.Author, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, opts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	authors := make([]domain.Author, 0, len(m.Authors))
	for _, a := range m.Authors {
		if opts.Search == "" || (a.LastName != nil && containsFold(*a.LastName, opts.Search)) {
			authors = append(authors, *a)
		}
	}
	sort.Slice(authors, func(i, j int) bool {
		li, lj := deref(authors[i].LastName), deref(authors[j].LastName)
		if li != lj {
			return li < lj
		}
		return deref(authors[i].FirstName) < deref(authors[j].FirstName)
	})
	return limitSlice(authors, opts.Limit), nil
}

// GetByID implements the AuthorStore interface
func (m *MockAuthorStore) GetByID(ctx context.Context, id int64) (*domain.Author, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Authors[id]
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	found := *a
	return &found, nil
}

// Create implements the AuthorStore interface
func (m *MockAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, author)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	author.ID = m.nextID
	stored := *author
	m.Authors[author.ID] = &stored
	return nil
}

// Update implements the AuthorStore interface
func (m *MockAuthorStore) Update(ctx context.Context, id int64, patch domain.AuthorPatch) (*domain.Author, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Authors[id]
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	if patch.LastName != nil {
		a.LastName = patch.LastName
	}
	if patch.FirstName != nil {
		a.FirstName = patch.FirstName
	}
	updated := *a
	return &updated, nil
}

// Delete implements the AuthorStore interface
func (m *MockAuthorStore) Delete(ctx context.Context, id int64) (*domain.Author, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Books.references(func(b *domain.Book) bool { return b.AuthorID == id }) {
		return nil, store.ErrReferenced
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Authors[id]
	if !ok {
		return nil, store.ErrAuthorNotFound
	}
	delete(m.Authors, id)
	return a, nil
}

// WithTx implements the AuthorStore interface
func (m *MockAuthorStore) WithTx(tx *sql.Tx) store.AuthorStore {
	return m
}

// exists reports whether id is stored.
func (m *MockAuthorStore) exists(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Authors[id]
	return ok
}
