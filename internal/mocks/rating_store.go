package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// reviewKey identifies a rating or comment.
type reviewKey struct {
	UserID int64
	BookID int64
}

// MockRatingStore implements store.RatingStore for testing
type MockRatingStore struct {
	ListFn   func(ctx context.Context, filter store.RatingFilter) ([]domain.Rating, error)
	GetFn    func(ctx context.Context, userID, bookID int64) (*domain.Rating, error)
	CreateFn func(ctx context.Context, rating *domain.Rating) error
	UpsertFn func(ctx context.Context, rating *domain.Rating) error
	UpdateFn func(ctx context.Context, rating *domain.Rating) error
	DeleteFn func(ctx context.Context, userID, bookID int64) (*domain.Rating, error)

	mu      sync.Mutex
	Ratings map[reviewKey]domain.Rating
}

// NewMockRatingStore creates a new mock store with initialized defaults
func NewMockRatingStore() *MockRatingStore {
	return &MockRatingStore{Ratings: make(map[reviewKey]domain.Rating)}
}

// List implements the RatingStore interface
func (m *MockRatingStore) List(ctx context.Context, filter store.RatingFilter) ([]domain.Rating, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ratings := make([]domain.Rating, 0, len(m.Ratings))
	for _, r := range m.Ratings {
		if filter.ScoreAbove != nil && r.Score <= *filter.ScoreAbove {
			continue
		}
		if filter.BookID != 0 && r.BookID != filter.BookID {
			continue
		}
		ratings = append(ratings, r)
	}
	sort.Slice(ratings, func(i, j int) bool {
		a, b := ratings[i], ratings[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.BookID < b.BookID
	})
	return limitSlice(ratings, filter.Limit), nil
}

// Get implements the RatingStore interface
func (m *MockRatingStore) Get(ctx context.Context, userID, bookID int64) (*domain.Rating, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, userID, bookID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Ratings[reviewKey{userID, bookID}]
	if !ok {
		return nil, store.ErrRatingNotFound
	}
	return &r, nil
}

// Create implements the RatingStore interface
func (m *MockRatingStore) Create(ctx context.Context, rating *domain.Rating) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, rating)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := reviewKey{rating.UserID, rating.BookID}
	if _, exists := m.Ratings[key]; exists {
		return store.ErrRatingExists
	}
	m.Ratings[key] = *rating
	return nil
}

// Upsert implements the RatingStore interface
func (m *MockRatingStore) Upsert(ctx context.Context, rating *domain.Rating) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, rating)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Ratings[reviewKey{rating.UserID, rating.BookID}] = *rating
	return nil
}

// Update implements the RatingStore interface
func (m *MockRatingStore) Update(ctx context.Context, rating *domain.Rating) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, rating)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := reviewKey{rating.UserID, rating.BookID}
	if _, ok := m.Ratings[key]; !ok {
		return store.ErrRatingNotFound
	}
	m.Ratings[key] = *rating
	return nil
}

// Delete implements the RatingStore interface
func (m *MockRatingStore) Delete(ctx context.Context, userID, bookID int64) (*domain.Rating, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, bookID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := reviewKey{userID, bookID}
	r, ok := m.Ratings[key]
	if !ok {
		return nil, store.ErrRatingNotFound
	}
	delete(m.Ratings, key)
	return &r, nil
}

// WithTx implements the RatingStore interface
func (m *MockRatingStore) WithTx(tx *sql.Tx) store.RatingStore {
	return m
}
