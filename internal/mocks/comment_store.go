package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// MockCommentStore implements store.CommentStore for testing
type MockCommentStore struct {
	ListFn   func(ctx context.Context, filter store.CommentFilter) ([]domain.Comment, error)
	GetFn    func(ctx context.Context, userID, bookID int64) (*domain.Comment, error)
	CreateFn func(ctx context.Context, comment *domain.Comment) error
	UpsertFn func(ctx context.Context, comment *domain.Comment) error
	UpdateFn func(ctx context.Context, comment *domain.Comment) error
	DeleteFn func(ctx context.Context, userID, bookID int64) (*domain.Comment, error)

	mu       sync.Mutex
	Comments map[reviewKey]domain.Comment
}

// NewMockCommentStore creates a new mock store with initialized defaults
func NewMockCommentStore() *MockCommentStore {
	return &MockCommentStore{Comments: make(map[reviewKey]domain.Comment)}
}

// List implements the CommentStore interface
func (m *MockCommentStore) List(ctx context.Context, filter store.CommentFilter) ([]domain.Comment, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := make([]domain.Comment, 0, len(m.Comments))
	for _, c := range m.Comments {
		if filter.BookID != 0 && c.BookID != filter.BookID {
			continue
		}
		if filter.UserID != 0 && c.UserID != filter.UserID {
			continue
		}
		comments = append(comments, c)
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].BookID != comments[j].BookID {
			return comments[i].BookID < comments[j].BookID
		}
		return comments[i].UserID < comments[j].UserID
	})
	return limitSlice(comments, filter.Limit), nil
}

// Get implements the CommentStore interface
func (m *MockCommentStore) Get(ctx context.Context, userID, bookID int64) (*domain.Comment, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, bookID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.Comments[reviewKey{userID, bookID}]
	if !ok {
		return nil, store.ErrCommentNotFound
	}
	return &c, nil
}

// Create implements the CommentStore interface
func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := reviewKey{comment.UserID, comment.BookID}
	if _, exists := m.Comments[key]; exists {
		return store.ErrCommentExists
	}
	m.Comments[key] = *comment
	return nil
}

// Upsert implements the CommentStore interface
func (m *MockCommentStore) Upsert(ctx context.Context, comment *domain.Comment) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Comments[reviewKey{comment.UserID, comment.BookID}] = *comment
	return nil
}

// Update implements the CommentStore interface
func (m *MockCommentStore) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := reviewKey{comment.UserID, comment.BookID}
	if _, ok := m.Comments[key]; !ok {
		return store.ErrCommentNotFound
	}
	m.Comments[key] = *comment
	return nil
}

// Delete implements the CommentStore interface
func (m *MockCommentStore) Delete(ctx context.Context, userID, bookID int64) (*domain.Comment, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, bookID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := reviewKey{userID, bookID}
	c, ok := m.Comments[key]
	if !ok {
		return nil, store.ErrCommentNotFound
	}
	delete(m.Comments, key)
	return &c, nil
}

// WithTx implements the CommentStore interface
func (m *MockCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return m
}
