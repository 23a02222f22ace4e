package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// MockEditorStore implements store.EditorStore for testing. Deleting an
// editor never fails on references. When Books is set, its books lose the
// deleted editor.
type MockEditorStore struct {
	ListFn    func(ctx context.Context, opts store.ListOptions) ([]domain.Editor, error)
	GetByIDFn func(ctx context.Context, id int64) (*domain.Editor, error)
	CreateFn  func(ctx context.Context, editor *domain.Editor) error
	UpdateFn  func(ctx context.Context, id int64, patch domain.EditorPatch) (*domain.Editor, error)
	DeleteFn  func(ctx context.Context, id int64) (*domain.Editor, error)

	Books *MockBookStore

	mu      sync.Mutex
	Editors map[int64]*domain.Editor
	nextID  int64
}

// NewMockEditorStore creates a new mock store with initialized defaults
func NewMockEditorStore() *MockEditorStore {
	return &MockEditorStore{Editors: make(map[int64]*domain.Editor)}
}

// List implements the EditorStore interface
func (m *MockEditorStore) List(ctx context.Context, opts store.ListOptions) ([]domain.Editor, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, opts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	editors := make([]domain.Editor, 0, len(m.Editors))
	for _, e := range m.Editors {
		if opts.Search == "" || (e.Name != nil && containsFold(*e.Name, opts.Search)) {
			editors = append(editors, *e)
		}
	}
	sort.Slice(editors, func(i, j int) bool { return deref(editors[i].Name) < deref(editors[j].Name) })
	return limitSlice(editors, opts.Limit), nil
}

// GetByID implements the EditorStore interface
func (m *MockEditorStore) GetByID(ctx context.Context, id int64) (*domain.Editor, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Editors[id]
	if !ok {
		return nil, store.ErrEditorNotFound
	}
	found := *e
	return &found, nil
}

// Create implements the EditorStore interface
func (m *MockEditorStore) Create(ctx context.Context, editor *domain.Editor) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, editor)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	editor.ID = m.nextID
	stored := *editor
	m.Editors[editor.ID] = &stored
	return nil
}

// Update implements the EditorStore interface
func (m *MockEditorStore) Update(ctx context.Context, id int64, patch domain.EditorPatch) (*domain.Editor, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Editors[id]
	if !ok {
		return nil, store.ErrEditorNotFound
	}
	if patch.Name != nil {
		e.Name = patch.Name
	}
	updated := *e
	return &updated, nil
}

// Delete implements the EditorStore interface
func (m *MockEditorStore) Delete(ctx context.Context, id int64) (*domain.Editor, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.Editors[id]
	if !ok {
		return nil, store.ErrEditorNotFound
	}
	delete(m.Editors, id)
	m.Books.clearEditor(id)
	return e, nil
}

// WithTx implements the EditorStore interface
func (m *MockEditorStore) WithTx(tx *sql.Tx) store.EditorStore {
	return m
}

// exists reports whether id is stored.
func (m *MockEditorStore) exists(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Editors[id]
	return ok
}
