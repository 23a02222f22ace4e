package store

import (
	"context"
	"database/sql"

	"github.com/ouvrages/livre-api/internal/domain"
)

// ListOptions filters and bounds a list query on a named entity.
type ListOptions struct {
	// Search keeps rows whose name contains the value, case-insensitively.
	// An empty value disables the filter.
	Search string

	// Limit caps the number of rows. Zero means no limit.
	Limit int
}

// BookFilter narrows a book listing. Zero values disable a criterion.
type BookFilter struct {
	Title      string
	CategoryID int64
	AuthorID   int64
	EditorID   int64
	Limit      int

	// ByTitle orders by title alone instead of newest first.
	ByTitle bool
}

// BookStore defines the interface for book persistence.
type BookStore interface {
	// List returns the books matching filter, newest first then by title
	// unless filter.ByTitle is set.
	List(ctx context.Context, filter BookFilter) ([]domain.Book, error)

	// GetByID returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Book, error)

	// Create inserts the book and fills in its ID and CreatedAt.
	// Returns ErrInvalidEntity when the category, author or editor is unknown.
	Create(ctx context.Context, book *domain.Book) error

	// Update applies the non-nil fields of patch in a single statement and
	// returns the stored book. Returns ErrBookNotFound if it does not exist.
	Update(ctx context.Context, id int64, patch domain.BookPatch) (*domain.Book, error)

	// Delete removes the book, together with its ratings and comments, and
	// returns the removed row. Returns ErrBookNotFound if it does not exist.
	Delete(ctx context.Context, id int64) (*domain.Book, error)

	// WithTx returns a BookStore bound to the transaction.
	WithTx(tx *sql.Tx) BookStore
}

// AuthorStore defines the interface for author persistence.
type AuthorStore interface {
	// List searches on the last name and orders by last then first name.
	List(ctx context.Context, opts ListOptions) ([]domain.Author, error)
	GetByID(ctx context.Context, id int64) (*domain.Author, error)
	Create(ctx context.Context, author *domain.Author) error
	Update(ctx context.Context, id int64, patch domain.AuthorPatch) (*domain.Author, error)

	// Delete returns ErrReferenced while books still point at the author.
	Delete(ctx context.Context, id int64) (*domain.Author, error)
	WithTx(tx *sql.Tx) AuthorStore
}

// EditorStore defines the interface for editor persistence.
type EditorStore interface {
	List(ctx context.Context, opts ListOptions) ([]domain.Editor, error)
	GetByID(ctx context.Context, id int64) (*domain.Editor, error)
	Create(ctx context.Context, editor *domain.Editor) error
	Update(ctx context.Context, id int64, patch domain.EditorPatch) (*domain.Editor, error)
	Delete(ctx context.Context, id int64) (*domain.Editor, error)
	WithTx(tx *sql.Tx) EditorStore
}

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	List(ctx context.Context, opts ListOptions) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error

	// Update renames the category identified by category.ID.
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id int64) (*domain.Category, error)
	WithTx(tx *sql.Tx) CategoryStore
}
