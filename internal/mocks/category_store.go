package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// MockCategoryStore implements store.CategoryStore for testing. When Books
// is set, deleting a category with books fails with store.ErrReferenced.
type MockCategoryStore struct {
	ListFn    func(ctx context.Context, opts store.ListOptions) ([]domain.Category, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Category, error)
	CreateFn  func(ctx context.Context, category *domain.Category) error
	UpdateFn  func(ctx context.Context, category *domain.Category) error
	DeleteFn  func(ctx context.Context, id int64) (*domain.Category, error)

	Books *MockBookStore

	mu         sync.Mutex
	Categories map[int64]*domain.Category
	nextID     int64
}

// NewMockCategoryStore creates a new mock store with initialized defaults
func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{Categories: make(map[int64]*domain.Category)}
}

// List implements the CategoryStore interface
func (m *MockCategoryStore) List(ctx context.Context, opts store.ListOptions) ([]domain.Category, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, opts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	categories := make([]domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		if containsFold(c.Name, opts.Search) {
			categories = append(categories, *c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return limitSlice(categories, opts.Limit), nil
}

// GetByID implements the CategoryStore interface
func (m *MockCategoryStore) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	found := *c
	return &found, nil
}

// Create implements the CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	category.ID = m.nextID
	stored := *category
	m.Categories[category.ID] = &stored
	return nil
}

// Update implements the CategoryStore interface
func (m *MockCategoryStore) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[category.ID]
	if !ok {
		return store.ErrCategoryNotFound
	}
	c.Name = category.Name
	return nil
}

// Delete implements the CategoryStore interface
func (m *MockCategoryStore) Delete(ctx context.Context, id int64) (*domain.Category, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Books.references(func(b *domain.Book) bool { return b.CategoryID == id }) {
		return nil, store.ErrReferenced
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Categories[id]
	if !ok {
		return nil, store.ErrCategoryNotFound
	}
	delete(m.Categories, id)
	return c, nil
}

// WithTx implements the CategoryStore interface
func (m *MockCategoryStore) WithTx(tx *sql.Tx) store.CategoryStore {
	return m
}

// exists reports whether id is stored.
func (m *MockCategoryStore) exists(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Categories[id]
	return ok
}
