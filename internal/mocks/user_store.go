package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ouvrages/livre-api/internal/domain"
	"github.com/ouvrages/livre-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	ListFn          func(ctx context.Context, opts store.ListOptions) ([]domain.User, error)
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	UpdateFn        func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	DeleteFn        func(ctx context.Context, id int64) (*domain.User, error)

	mu     sync.Mutex
	Users  map[int64]*domain.User
	nextID int64
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[int64]*domain.User)}
}

// Add stores a copy of user as-is, assigning an ID when it has none.
func (m *MockUserStore) Add(user domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
	} else if user.ID > m.nextID {
		m.nextID = user.ID
	}
	m.Users[user.ID] = &user
	u := user
	return &u
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context, opts store.ListOptions) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, opts)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		if containsFold(u.Username, opts.Search) {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return limitSlice(users, opts.Limit), nil
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	m.nextID++
	user.ID = m.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *u
	return &found, nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, patch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if patch.Username != nil {
		for otherID, other := range m.Users {
			if otherID != id && other.Username == *patch.Username {
				return nil, store.ErrUsernameExists
			}
		}
		u.Username = *patch.Username
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.Proposals != nil {
		u.Proposals = *patch.Proposals
	}
	updated := *u
	return &updated, nil
}

// Delete implements the UserStore interface
func (m *MockUserStore) Delete(ctx context.Context, id int64) (*domain.User, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	delete(m.Users, id)
	return u, nil
}

// Count implements the UserStore interface
func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// WithTx implements the UserStore interface
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

func containsFold(value, term string) bool {
	return term == "" || strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
