package store

import (
	"context"
	"database/sql"

	"github.com/ouvrages/livre-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// List searches on the username and orders by username.
	List(ctx context.Context, opts ListOptions) ([]domain.User, error)

	// Create saves a new user whose password is already hashed.
	// Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user, hash included, for login.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update applies the non-nil fields of patch and returns the stored user.
	// Returns ErrUserNotFound or ErrUsernameExists.
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)

	// Delete removes a user and their ratings and comments, returning the removed row.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) (*domain.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
